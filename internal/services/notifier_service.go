package services

import (
	"context"
	"fmt"
	"time"

	"vendortrack/internal/models"
	"vendortrack/internal/repositories"
)

// NotifierService renders reminder emails and hands them to the Mailer.
type NotifierService struct {
	vendorRepo repositories.VendorRepository
	userRepo   repositories.UserRepository
	mailer     Mailer
}

func NewNotifierService(vendorRepo repositories.VendorRepository, userRepo repositories.UserRepository, mailer Mailer) *NotifierService {
	return &NotifierService{
		vendorRepo: vendorRepo,
		userRepo:   userRepo,
		mailer:     mailer,
	}
}

func (n *NotifierService) SendReminder(ctx context.Context, service *models.Service, reminder *models.ServiceReminder, asOf time.Time) error {
	vendor, err := n.vendorRepo.GetByID(ctx, service.VendorID)
	if err != nil {
		return fmt.Errorf("loading vendor %s: %w", service.VendorID, err)
	}

	recipients := []string{vendor.Email}
	if creator, err := n.userRepo.GetByID(ctx, service.CreatedBy); err == nil && creator != nil {
		recipients = append(recipients, creator.Email)
	}
	recipients = dedupeRecipients(recipients)

	var subject, body string
	switch reminder.ReminderType {
	case models.ReminderTypePayment:
		subject = fmt.Sprintf("Payment Due Reminder: %s", service.ServiceName)
		body = paymentBody(service, vendor, asOf)
	default:
		subject = fmt.Sprintf("Service Expiry Reminder: %s", service.ServiceName)
		body = expiryBody(service, vendor, asOf)
	}

	return n.mailer.Send(recipients, subject, body)
}

func expiryBody(service *models.Service, vendor *models.Vendor, asOf time.Time) string {
	days := service.DaysUntilExpiry(asOf)
	return fmt.Sprintf(`Dear %s,

This is a reminder that the service "%s" from %s is expiring in %d days on %s.

Service Details:
- Service: %s
- Vendor: %s
- Start Date: %s
- Expiry Date: %s
- Amount: $%.2f

Please take necessary action to renew or close out this contract.

Best regards,
Vendor Management System`,
		vendor.ContactPerson,
		service.ServiceName, vendor.Name, days, service.ExpiryDate.Format("2006-01-02"),
		service.ServiceName,
		vendor.Name,
		service.StartDate.Format("2006-01-02"),
		service.ExpiryDate.Format("2006-01-02"),
		service.Amount,
	)
}

func paymentBody(service *models.Service, vendor *models.Vendor, asOf time.Time) string {
	days := service.DaysUntilPaymentDue(asOf)
	return fmt.Sprintf(`Dear %s,

This is a reminder that payment for the service "%s" from %s is due in %d days on %s.

Service Details:
- Service: %s
- Vendor: %s
- Start Date: %s
- Payment Due Date: %s
- Amount: $%.2f

Please ensure the payment is processed on time.

Best regards,
Vendor Management System`,
		vendor.ContactPerson,
		service.ServiceName, vendor.Name, days, service.PaymentDueDate.Format("2006-01-02"),
		service.ServiceName,
		vendor.Name,
		service.StartDate.Format("2006-01-02"),
		service.PaymentDueDate.Format("2006-01-02"),
		service.Amount,
	)
}

// dedupeRecipients drops repeated addresses while keeping first-seen order.
// The vendor contact and the user who registered the contract are often
// the same mailbox.
func dedupeRecipients(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
