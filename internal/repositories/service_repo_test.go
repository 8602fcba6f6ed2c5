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

type ServiceRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     ServiceRepository
	vendorID uuid.UUID
	context  context.Context
}

func (suite *ServiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewServiceRepository(mock)
	suite.vendorID = uuid.New()
	suite.context = context.Background()
}

func (suite *ServiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestServiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceRepoTestSuite))
}

func serviceRows(services ...*models.Service) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "vendor_id", "service_name", "start_date", "expiry_date", "payment_due_date", "amount", "status", "document_object", "created_at", "updated_at", "created_by"})
	for _, s := range services {
		rows.AddRow(s.ID, s.VendorID, s.ServiceName, s.StartDate, s.ExpiryDate, s.PaymentDueDate, s.Amount, s.Status, s.DocumentObject, s.CreatedAt, s.UpdatedAt, s.CreatedBy)
	}
	return rows
}

func (suite *ServiceRepoTestSuite) TestCreate() {
	service := &models.Service{
		ID:             uuid.New(),
		VendorID:       suite.vendorID,
		ServiceName:    "Annual Support",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		PaymentDueDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Amount:         1200.50,
		Status:         models.ServiceStatusActive,
		CreatedBy:      uuid.New(),
	}

	suite.mock.ExpectExec("INSERT INTO services").
		WithArgs(service.ID, service.VendorID, service.ServiceName, service.StartDate, service.ExpiryDate, service.PaymentDueDate, service.Amount, service.Status, service.DocumentObject, service.CreatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, service)
	assert.NoError(suite.T(), err)
}

func (suite *ServiceRepoTestSuite) TestListExpiringWithin_UsesInclusiveWindow() {
	from := time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)
	to := from.AddDate(0, 0, models.ReminderWindowDays)

	service := &models.Service{
		ID:             uuid.New(),
		VendorID:       suite.vendorID,
		ServiceName:    "Cloud Hosting",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentDueDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Amount:         500,
		Status:         models.ServiceStatusActive,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		CreatedBy:      uuid.New(),
	}

	// Timestamps are truncated to dates before hitting the query
	suite.mock.ExpectQuery("SELECT (.+) FROM services\\s+WHERE status = 'active' AND expiry_date BETWEEN").
		WithArgs(models.DateOf(from), models.DateOf(to)).
		WillReturnRows(serviceRows(service))

	services, err := suite.repo.ListExpiringWithin(suite.context, from, to)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), services, 1)
	assert.Equal(suite.T(), service.ID, services[0].ID)
}

func (suite *ServiceRepoTestSuite) TestListPaymentDueWithin_IncludesPaymentPending() {
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, models.ReminderWindowDays)

	suite.mock.ExpectQuery("SELECT (.+) FROM services\\s+WHERE status IN \\('active', 'payment_pending'\\) AND payment_due_date BETWEEN").
		WithArgs(models.DateOf(from), models.DateOf(to)).
		WillReturnRows(serviceRows())

	services, err := suite.repo.ListPaymentDueWithin(suite.context, from, to)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), services, 0)
}

func (suite *ServiceRepoTestSuite) TestCountOverdue() {
	asOf := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM services WHERE status = 'active' AND \\(expiry_date < \\$1 OR payment_due_date < \\$1\\)").
		WithArgs(asOf).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.CountOverdue(suite.context, asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *ServiceRepoTestSuite) TestSumActiveAmount() {
	suite.mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM services WHERE status = 'active'").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(1700.50))

	total, err := suite.repo.SumActiveAmount(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1700.50, total)
}
