package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReminderServiceTestSuite struct {
	suite.Suite
	reminderRepo *MockReminderRepository
	serviceRepo  *MockServiceRepository
	notifier     *MockNotifier
	svc          ReminderService
	ctx          context.Context
	asOf         time.Time
}

func (suite *ReminderServiceTestSuite) SetupTest() {
	suite.reminderRepo = new(MockReminderRepository)
	suite.serviceRepo = new(MockServiceRepository)
	suite.notifier = new(MockNotifier)
	suite.svc = NewReminderService(suite.reminderRepo, suite.serviceRepo, suite.notifier)
	suite.ctx = context.Background()
	suite.asOf = time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
}

func TestReminderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderServiceTestSuite))
}

func (suite *ReminderServiceTestSuite) expiringService(expiryOffsetDays int) *models.Service {
	return &models.Service{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		ServiceName:    "Annual Support",
		StartDate:      suite.asOf.AddDate(0, 0, -30),
		ExpiryDate:     suite.asOf.AddDate(0, 0, expiryOffsetDays),
		PaymentDueDate: suite.asOf.AddDate(0, 0, 60),
		Amount:         500,
		Status:         models.ServiceStatusActive,
		CreatedBy:      uuid.New(),
	}
}

func (suite *ReminderServiceTestSuite) TestRunSweeps_SendsAndMarks() {
	service := suite.expiringService(5)
	window := models.DateOf(suite.asOf)

	suite.serviceRepo.On("ListExpiringWithin", suite.ctx, window, window.AddDate(0, 0, models.ReminderWindowDays)).
		Return([]*models.Service{service}, nil)
	suite.serviceRepo.On("ListPaymentDueWithin", suite.ctx, window, window.AddDate(0, 0, models.ReminderWindowDays)).
		Return([]*models.Service{}, nil)

	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.MatchedBy(func(r *models.ServiceReminder) bool {
		return r.ServiceID == service.ID &&
			r.ReminderType == models.ReminderTypeExpiry &&
			r.ReminderDate.Equal(window)
	})).Return(true, nil)
	suite.notifier.On("SendReminder", suite.ctx, service, mock.Anything, suite.asOf).Return(nil)
	suite.reminderRepo.On("MarkSent", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := suite.svc.RunSweeps(suite.ctx, suite.asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.ExpirySent)
	assert.Equal(suite.T(), 0, result.Skipped)
	assert.Equal(suite.T(), 0, result.Failed)
	suite.reminderRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestRunSweeps_SecondRunSameDaySendsNothing() {
	service := suite.expiringService(5)
	window := models.DateOf(suite.asOf)

	suite.serviceRepo.On("ListExpiringWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{service}, nil)
	suite.serviceRepo.On("ListPaymentDueWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{}, nil)

	// The row already exists and was sent; CreateIfAbsent loads it back
	sentAt := window.Add(6 * time.Hour)
	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*models.ServiceReminder)
			r.IsSent = true
			r.SentAt = &sentAt
		}).
		Return(false, nil)

	result, err := suite.svc.RunSweeps(suite.ctx, suite.asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.ExpirySent)
	assert.Equal(suite.T(), 1, result.Skipped)
	suite.notifier.AssertNotCalled(suite.T(), "SendReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.reminderRepo.AssertNotCalled(suite.T(), "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestRunSweeps_RetriesDeliveryForUnsentRow() {
	service := suite.expiringService(5)

	suite.serviceRepo.On("ListExpiringWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{service}, nil)
	suite.serviceRepo.On("ListPaymentDueWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{}, nil)

	// Row exists from an earlier failed attempt but was never sent
	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.Anything).Return(false, nil)
	suite.notifier.On("SendReminder", suite.ctx, service, mock.Anything, suite.asOf).Return(nil)
	suite.reminderRepo.On("MarkSent", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := suite.svc.RunSweeps(suite.ctx, suite.asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.ExpirySent)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestRunSweeps_OneFailureDoesNotStallBatch() {
	broken := suite.expiringService(3)
	healthy := suite.expiringService(7)

	suite.serviceRepo.On("ListExpiringWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{broken, healthy}, nil)
	suite.serviceRepo.On("ListPaymentDueWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{}, nil)

	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.Anything).Return(true, nil)
	suite.notifier.On("SendReminder", suite.ctx, broken, mock.Anything, suite.asOf).
		Return(errors.New("smtp: connection refused"))
	suite.notifier.On("SendReminder", suite.ctx, healthy, mock.Anything, suite.asOf).Return(nil)
	suite.reminderRepo.On("MarkSent", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := suite.svc.RunSweeps(suite.ctx, suite.asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.ExpirySent)
	assert.Equal(suite.T(), 1, result.Failed)
	// The failed reminder must never be marked sent
	suite.reminderRepo.AssertNumberOfCalls(suite.T(), "MarkSent", 1)
}

func (suite *ReminderServiceTestSuite) TestRunSweeps_PaymentSweepCoversPaymentPending() {
	service := suite.expiringService(60)
	service.Status = models.ServiceStatusPaymentPending
	service.PaymentDueDate = suite.asOf.AddDate(0, 0, 10)
	window := models.DateOf(suite.asOf)

	suite.serviceRepo.On("ListExpiringWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{}, nil)
	suite.serviceRepo.On("ListPaymentDueWithin", suite.ctx, mock.Anything, mock.Anything).
		Return([]*models.Service{service}, nil)

	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.MatchedBy(func(r *models.ServiceReminder) bool {
		return r.ReminderType == models.ReminderTypePayment && r.ReminderDate.Equal(window)
	})).Return(true, nil)
	suite.notifier.On("SendReminder", suite.ctx, service, mock.Anything, suite.asOf).Return(nil)
	suite.reminderRepo.On("MarkSent", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := suite.svc.RunSweeps(suite.ctx, suite.asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.PaymentSent)
}

func (suite *ReminderServiceTestSuite) TestSweepService_OutsideWindowDoesNothing() {
	service := suite.expiringService(models.ReminderWindowDays + 1)
	service.PaymentDueDate = suite.asOf.AddDate(0, 0, models.ReminderWindowDays+5)

	err := suite.svc.SweepService(suite.ctx, service, suite.asOf)
	assert.NoError(suite.T(), err)
	suite.reminderRepo.AssertNotCalled(suite.T(), "CreateIfAbsent", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestSweepService_InsideWindowRemindsOnce() {
	service := suite.expiringService(10)

	suite.reminderRepo.On("CreateIfAbsent", suite.ctx, mock.Anything).Return(true, nil)
	suite.notifier.On("SendReminder", suite.ctx, service, mock.Anything, suite.asOf).Return(nil)
	suite.reminderRepo.On("MarkSent", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	err := suite.svc.SweepService(suite.ctx, service, suite.asOf)
	assert.NoError(suite.T(), err)
	suite.reminderRepo.AssertNumberOfCalls(suite.T(), "CreateIfAbsent", 1)
}

func (suite *ReminderServiceTestSuite) TestSweepService_CompletedServiceSkipsPaymentReminder() {
	service := suite.expiringService(60)
	service.Status = models.ServiceStatusCompleted
	service.PaymentDueDate = suite.asOf.AddDate(0, 0, 5)

	err := suite.svc.SweepService(suite.ctx, service, suite.asOf)
	assert.NoError(suite.T(), err)
	suite.reminderRepo.AssertNotCalled(suite.T(), "CreateIfAbsent", mock.Anything, mock.Anything)
}
