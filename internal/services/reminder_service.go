package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"vendortrack/internal/models"
	"vendortrack/internal/repositories"

	"github.com/google/uuid"
)

// Notifier delivers one reminder. NotifierService is the real
// implementation; tests swap in a mock.
type Notifier interface {
	SendReminder(ctx context.Context, service *models.Service, reminder *models.ServiceReminder, asOf time.Time) error
}

type ReminderService interface {
	// RunSweeps executes the expiry and payment-due sweeps for asOf.
	// Every service whose dates fall inside the reminder window gets at
	// most one notification per (reminder type, calendar day).
	RunSweeps(ctx context.Context, asOf time.Time) (*models.SweepResult, error)

	// SweepService runs the same checks for a single service, used after
	// a contract write.
	SweepService(ctx context.Context, service *models.Service, asOf time.Time) error

	List(ctx context.Context, limit, offset int) ([]*models.ServiceReminder, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReminder, error)
}

type reminderService struct {
	reminderRepo repositories.ReminderRepository
	serviceRepo  repositories.ServiceRepository
	notifier     Notifier
}

func NewReminderService(reminderRepo repositories.ReminderRepository, serviceRepo repositories.ServiceRepository, notifier Notifier) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		serviceRepo:  serviceRepo,
		notifier:     notifier,
	}
}

func (s *reminderService) RunSweeps(ctx context.Context, asOf time.Time) (*models.SweepResult, error) {
	result := &models.SweepResult{AsOf: models.DateOf(asOf)}

	from := models.DateOf(asOf)
	to := from.AddDate(0, 0, models.ReminderWindowDays)

	expiring, err := s.serviceRepo.ListExpiringWithin(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("expiry sweep: listing candidates: %w", err)
	}
	for _, service := range expiring {
		sent, err := s.remind(ctx, service, models.ReminderTypeExpiry, asOf)
		if err != nil {
			// One bad candidate must not stall the batch.
			log.Printf("Expiry reminder failed for service %s: %v", service.ID, err)
			result.Failed++
			continue
		}
		if sent {
			result.ExpirySent++
		} else {
			result.Skipped++
		}
	}

	paymentDue, err := s.serviceRepo.ListPaymentDueWithin(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("payment sweep: listing candidates: %w", err)
	}
	for _, service := range paymentDue {
		sent, err := s.remind(ctx, service, models.ReminderTypePayment, asOf)
		if err != nil {
			log.Printf("Payment reminder failed for service %s: %v", service.ID, err)
			result.Failed++
			continue
		}
		if sent {
			result.PaymentSent++
		} else {
			result.Skipped++
		}
	}

	log.Printf("Reminder sweeps for %s: %d expiry sent, %d payment sent, %d skipped, %d failed",
		result.AsOf.Format("2006-01-02"), result.ExpirySent, result.PaymentSent, result.Skipped, result.Failed)
	return result, nil
}

func (s *reminderService) SweepService(ctx context.Context, service *models.Service, asOf time.Time) error {
	if service.IsExpiringSoon(asOf) {
		if _, err := s.remind(ctx, service, models.ReminderTypeExpiry, asOf); err != nil {
			return err
		}
	}
	if service.IsPaymentDueSoon(asOf) {
		inSweepStatuses := service.Status == models.ServiceStatusActive || service.Status == models.ServiceStatusPaymentPending
		if inSweepStatuses {
			if _, err := s.remind(ctx, service, models.ReminderTypePayment, asOf); err != nil {
				return err
			}
		}
	}
	return nil
}

// remind ensures the (service, type, day) reminder row exists and sends
// the notification at most once. It reports whether a notification went
// out on this call.
func (s *reminderService) remind(ctx context.Context, service *models.Service, reminderType models.ReminderType, asOf time.Time) (bool, error) {
	reminder := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    service.ID,
		ReminderType: reminderType,
		ReminderDate: models.DateOf(asOf),
	}

	created, err := s.reminderRepo.CreateIfAbsent(ctx, reminder)
	if err != nil {
		return false, fmt.Errorf("recording reminder: %w", err)
	}
	if !created && reminder.IsSent {
		return false, nil
	}

	if err := s.notifier.SendReminder(ctx, service, reminder, asOf); err != nil {
		// The unsent row stays behind; a later sweep on the same day
		// retries delivery without duplicating the reminder.
		return false, fmt.Errorf("sending reminder: %w", err)
	}

	sentAt := time.Now().UTC()
	if err := s.reminderRepo.MarkSent(ctx, reminder.ID, sentAt); err != nil {
		return false, fmt.Errorf("marking reminder sent: %w", err)
	}
	reminder.IsSent = true
	reminder.SentAt = &sentAt
	return true, nil
}

func (s *reminderService) List(ctx context.Context, limit, offset int) ([]*models.ServiceReminder, error) {
	return s.reminderRepo.List(ctx, limit, offset)
}

func (s *reminderService) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.ServiceReminder, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		if repositories.IsNoRows(err) {
			return nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
		}
		return nil, err
	}
	return s.reminderRepo.ListByService(ctx, serviceID)
}
