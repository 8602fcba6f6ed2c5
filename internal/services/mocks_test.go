package services

import (
	"context"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// noRowsErr is what repositories surface when a lookup misses.
func noRowsErr() error {
	return pgx.ErrNoRows
}

// MockVendorRepository mocks the VendorRepository interface for testing
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVendorRepository) List(ctx context.Context, filter models.VendorFilter) ([]*models.Vendor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) ListActiveWithActiveServices(ctx context.Context) ([]*models.Vendor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Count(ctx context.Context, status *models.VendorStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// MockServiceRepository mocks the ServiceRepository interface for testing
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockServiceRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Service, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockServiceRepository) ListExpiringWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockServiceRepository) ListPaymentDueWithin(ctx context.Context, from, to time.Time) ([]*models.Service, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.Service), args.Error(1)
}

func (m *MockServiceRepository) Count(ctx context.Context, status *models.ServiceStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockServiceRepository) CountExpiringWithin(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockServiceRepository) CountPaymentDueWithin(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockServiceRepository) CountOverdue(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockServiceRepository) CountActiveByVendor(ctx context.Context, vendorID uuid.UUID) (int, error) {
	args := m.Called(ctx, vendorID)
	return args.Int(0), args.Error(1)
}

func (m *MockServiceRepository) SumActiveAmount(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockServiceRepository) SumActiveAmountByVendor(ctx context.Context, vendorID uuid.UUID) (float64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(float64), args.Error(1)
}

// MockReminderRepository mocks the ReminderRepository interface for testing
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) CreateIfAbsent(ctx context.Context, reminder *models.ServiceReminder) (bool, error) {
	args := m.Called(ctx, reminder)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceReminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceReminder), args.Error(1)
}

func (m *MockReminderRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockReminderRepository) List(ctx context.Context, limit, offset int) ([]*models.ServiceReminder, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.ServiceReminder), args.Error(1)
}

func (m *MockReminderRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReminder, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).([]*models.ServiceReminder), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCacheService mocks caching.CacheService for testing
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockCacheService) SetVendor(ctx context.Context, vendor *models.Vendor, ttl time.Duration) error {
	args := m.Called(ctx, vendor, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	args := m.Called(ctx, vendorID)
	return args.Error(0)
}

func (m *MockCacheService) GetService(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockCacheService) SetService(ctx context.Context, service *models.Service, ttl time.Duration) error {
	args := m.Called(ctx, service, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteService(ctx context.Context, serviceID uuid.UUID) error {
	args := m.Called(ctx, serviceID)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboard(ctx context.Context, day time.Time) (*models.DashboardStats, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, day time.Time, stats *models.DashboardStats, ttl time.Duration) error {
	args := m.Called(ctx, day, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDashboard(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockMailer mocks the Mailer interface for testing
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockNotifier mocks the Notifier interface for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReminder(ctx context.Context, service *models.Service, reminder *models.ServiceReminder, asOf time.Time) error {
	args := m.Called(ctx, service, reminder, asOf)
	return args.Error(0)
}
