package repositories

import (
	"context"
	"fmt"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Service, error)
	ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error)
	ListPaymentDueWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error)
	Count(ctx context.Context, status *models.ServiceStatus) (int, error)
	CountExpiringWithin(ctx context.Context, from, to time.Time) (int, error)
	CountPaymentDueWithin(ctx context.Context, from, to time.Time) (int, error)
	CountOverdue(ctx context.Context, asOf time.Time) (int, error)
	CountActiveByVendor(ctx context.Context, vendorID uuid.UUID) (int, error)
	SumActiveAmount(ctx context.Context) (float64, error)
	SumActiveAmountByVendor(ctx context.Context, vendorID uuid.UUID) (float64, error)
}

type serviceRepo struct {
	db Database
}

func NewServiceRepository(db Database) ServiceRepository {
	return &serviceRepo{db: db}
}

const serviceColumns = `id, vendor_id, service_name, start_date, expiry_date, payment_due_date, amount, status, document_object, created_at, updated_at, created_by`

func scanService(row interface{ Scan(dest ...any) error }) (*models.Service, error) {
	service := &models.Service{}
	err := row.Scan(&service.ID, &service.VendorID, &service.ServiceName, &service.StartDate, &service.ExpiryDate, &service.PaymentDueDate, &service.Amount, &service.Status, &service.DocumentObject, &service.CreatedAt, &service.UpdatedAt, &service.CreatedBy)
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (r *serviceRepo) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, vendor_id, service_name, start_date, expiry_date, payment_due_date, amount, status, document_object, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), $10)
	`
	_, err := r.db.Exec(ctx, query, service.ID, service.VendorID, service.ServiceName, service.StartDate, service.ExpiryDate, service.PaymentDueDate, service.Amount, service.Status, service.DocumentObject, service.CreatedBy)
	return err
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanService(r.db.QueryRow(ctx, query, id))
}

func (r *serviceRepo) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET vendor_id = $1, service_name = $2, start_date = $3, expiry_date = $4, payment_due_date = $5, amount = $6, status = $7, document_object = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, service.VendorID, service.ServiceName, service.StartDate, service.ExpiryDate, service.PaymentDueDate, service.Amount, service.Status, service.DocumentObject, service.ID)
	return err
}

func (r *serviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM services WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *serviceRepo) List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.VendorID != nil {
		query += fmt.Sprintf(" AND vendor_id = $%d", argPos)
		args = append(args, *filter.VendorID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND service_name ILIKE $%d", argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query += " ORDER BY " + serviceOrderClause(filter.OrderBy)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	return r.queryServices(ctx, query, args...)
}

func serviceOrderClause(orderBy string) string {
	switch orderBy {
	case "service_name":
		return "service_name ASC"
	case "start_date":
		return "start_date DESC"
	case "expiry_date":
		return "expiry_date ASC"
	case "payment_due_date":
		return "payment_due_date ASC"
	case "amount":
		return "amount DESC"
	default:
		return "created_at DESC"
	}
}

func (r *serviceRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE vendor_id = $1 ORDER BY created_at DESC`
	return r.queryServices(ctx, query, vendorID)
}

// ListExpiringWithin returns active services whose expiry date falls in the
// inclusive [from, to] window. The same filter backs the expiry sweep, the
// expiring-soon listing and the dashboard count.
func (r *serviceRepo) ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE status = 'active' AND expiry_date BETWEEN $1 AND $2
		ORDER BY expiry_date ASC
	`
	return r.queryServices(ctx, query, models.DateOf(from), models.DateOf(to))
}

// ListPaymentDueWithin returns active or payment_pending services whose
// payment due date falls in the inclusive [from, to] window.
func (r *serviceRepo) ListPaymentDueWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE status IN ('active', 'payment_pending') AND payment_due_date BETWEEN $1 AND $2
		ORDER BY payment_due_date ASC
	`
	return r.queryServices(ctx, query, models.DateOf(from), models.DateOf(to))
}

func (r *serviceRepo) queryServices(ctx context.Context, query string, args ...any) ([]*models.Service, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (r *serviceRepo) Count(ctx context.Context, status *models.ServiceStatus) (int, error) {
	var count int
	if status == nil {
		err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&count)
		return count, err
	}
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE status = $1`, *status).Scan(&count)
	return count, err
}

func (r *serviceRepo) CountExpiringWithin(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE status = 'active' AND expiry_date BETWEEN $1 AND $2`
	err := r.db.QueryRow(ctx, query, models.DateOf(from), models.DateOf(to)).Scan(&count)
	return count, err
}

func (r *serviceRepo) CountPaymentDueWithin(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE status IN ('active', 'payment_pending') AND payment_due_date BETWEEN $1 AND $2`
	err := r.db.QueryRow(ctx, query, models.DateOf(from), models.DateOf(to)).Scan(&count)
	return count, err
}

// CountOverdue counts active services already past their expiry or payment
// due date.
func (r *serviceRepo) CountOverdue(ctx context.Context, asOf time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE status = 'active' AND (expiry_date < $1 OR payment_due_date < $1)`
	err := r.db.QueryRow(ctx, query, models.DateOf(asOf)).Scan(&count)
	return count, err
}

func (r *serviceRepo) CountActiveByVendor(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE vendor_id = $1 AND status = 'active'`
	err := r.db.QueryRow(ctx, query, vendorID).Scan(&count)
	return count, err
}

func (r *serviceRepo) SumActiveAmount(ctx context.Context) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM services WHERE status = 'active'`
	err := r.db.QueryRow(ctx, query).Scan(&total)
	return total, err
}

func (r *serviceRepo) SumActiveAmountByVendor(ctx context.Context, vendorID uuid.UUID) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM services WHERE vendor_id = $1 AND status = 'active'`
	err := r.db.QueryRow(ctx, query, vendorID).Scan(&total)
	return total, err
}
