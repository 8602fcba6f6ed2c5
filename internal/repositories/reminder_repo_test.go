package repositories

import (
	"context"
	"testing"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReminderRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ReminderRepository
	serviceID uuid.UUID
	context   context.Context
}

func (suite *ReminderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewReminderRepository(mock)
	suite.serviceID = uuid.New()
	suite.context = context.Background()
}

func (suite *ReminderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestReminderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderRepoTestSuite))
}

func (suite *ReminderRepoTestSuite) TestCreateIfAbsent_FreshInsert() {
	reminderDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	reminder := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    suite.serviceID,
		ReminderType: models.ReminderTypeExpiry,
		ReminderDate: reminderDate,
	}

	suite.mock.ExpectExec("INSERT INTO service_reminders").
		WithArgs(reminder.ID, reminder.ServiceID, reminder.ReminderType, reminderDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := suite.repo.CreateIfAbsent(suite.context, reminder)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), created)
	assert.False(suite.T(), reminder.IsSent)
}

func (suite *ReminderRepoTestSuite) TestCreateIfAbsent_ConflictReturnsExisting() {
	reminderDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	existingID := uuid.New()
	sentAt := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	reminder := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    suite.serviceID,
		ReminderType: models.ReminderTypeExpiry,
		ReminderDate: reminderDate,
	}

	// ON CONFLICT DO NOTHING: zero rows affected, then the existing row is fetched
	suite.mock.ExpectExec("INSERT INTO service_reminders").
		WithArgs(reminder.ID, reminder.ServiceID, reminder.ReminderType, reminderDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	rows := pgxmock.NewRows([]string{"id", "service_id", "reminder_type", "reminder_date", "is_sent", "sent_at", "created_at"}).
		AddRow(existingID, suite.serviceID, models.ReminderTypeExpiry, reminderDate, true, &sentAt, time.Now())
	suite.mock.ExpectQuery("SELECT (.+) FROM service_reminders").
		WithArgs(suite.serviceID, models.ReminderTypeExpiry, reminderDate).
		WillReturnRows(rows)

	created, err := suite.repo.CreateIfAbsent(suite.context, reminder)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), created)
	assert.Equal(suite.T(), existingID, reminder.ID)
	assert.True(suite.T(), reminder.IsSent)
	assert.NotNil(suite.T(), reminder.SentAt)
}

func (suite *ReminderRepoTestSuite) TestMarkSent() {
	reminderID := uuid.New()
	sentAt := time.Now().UTC()

	suite.mock.ExpectExec("UPDATE service_reminders SET is_sent = TRUE").
		WithArgs(sentAt, reminderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.MarkSent(suite.context, reminderID, sentAt)
	assert.NoError(suite.T(), err)
}

func (suite *ReminderRepoTestSuite) TestList() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "service_id", "reminder_type", "reminder_date", "is_sent", "sent_at", "created_at"}).
		AddRow(uuid.New(), suite.serviceID, models.ReminderTypePayment, now, false, (*time.Time)(nil), now).
		AddRow(uuid.New(), suite.serviceID, models.ReminderTypeExpiry, now, false, (*time.Time)(nil), now)

	suite.mock.ExpectQuery("SELECT (.+) FROM service_reminders ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(rows)

	reminders, err := suite.repo.List(suite.context, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), reminders, 2)
}
