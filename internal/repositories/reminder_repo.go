package repositories

import (
	"context"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
)

type ReminderRepository interface {
	// CreateIfAbsent inserts the reminder unless a row for the same
	// (service_id, reminder_type, reminder_date) key exists. Returns true when
	// a fresh row was inserted; on conflict the existing row is loaded into
	// reminder and false is returned. Never errors on the conflict itself.
	CreateIfAbsent(ctx context.Context, reminder *models.ServiceReminder) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceReminder, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*models.ServiceReminder, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReminder, error)
}

type reminderRepo struct {
	db Database
}

func NewReminderRepository(db Database) ReminderRepository {
	return &reminderRepo{db: db}
}

const reminderColumns = `id, service_id, reminder_type, reminder_date, is_sent, sent_at, created_at`

func scanReminder(row interface{ Scan(dest ...any) error }) (*models.ServiceReminder, error) {
	reminder := &models.ServiceReminder{}
	err := row.Scan(&reminder.ID, &reminder.ServiceID, &reminder.ReminderType, &reminder.ReminderDate, &reminder.IsSent, &reminder.SentAt, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *reminderRepo) CreateIfAbsent(ctx context.Context, reminder *models.ServiceReminder) (bool, error) {
	query := `
		INSERT INTO service_reminders (id, service_id, reminder_type, reminder_date, is_sent, sent_at, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NULL, NOW())
		ON CONFLICT (service_id, reminder_type, reminder_date) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, reminder.ID, reminder.ServiceID, reminder.ReminderType, models.DateOf(reminder.ReminderDate))
	if err != nil {
		// A concurrent insert can still surface 23505 under serializable
		// isolation; treat it the same as the DO NOTHING path.
		if !IsUniqueViolation(err) {
			return false, err
		}
	} else if tag.RowsAffected() == 1 {
		reminder.IsSent = false
		reminder.SentAt = nil
		return true, nil
	}

	existing, err := r.getByKey(ctx, reminder.ServiceID, reminder.ReminderType, reminder.ReminderDate)
	if err != nil {
		return false, err
	}
	*reminder = *existing
	return false, nil
}

func (r *reminderRepo) getByKey(ctx context.Context, serviceID uuid.UUID, reminderType models.ReminderType, reminderDate time.Time) (*models.ServiceReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM service_reminders
		WHERE service_id = $1 AND reminder_type = $2 AND reminder_date = $3
	`
	return scanReminder(r.db.QueryRow(ctx, query, serviceID, reminderType, models.DateOf(reminderDate)))
}

func (r *reminderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM service_reminders WHERE id = $1`
	return scanReminder(r.db.QueryRow(ctx, query, id))
}

func (r *reminderRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `UPDATE service_reminders SET is_sent = TRUE, sent_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, sentAt, id)
	return err
}

func (r *reminderRepo) List(ctx context.Context, limit, offset int) ([]*models.ServiceReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM service_reminders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryReminders(ctx, query, limit, offset)
}

func (r *reminderRepo) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM service_reminders WHERE service_id = $1 ORDER BY created_at DESC`
	return r.queryReminders(ctx, query, serviceID)
}

func (r *reminderRepo) queryReminders(ctx context.Context, query string, args ...any) ([]*models.ServiceReminder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.ServiceReminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
