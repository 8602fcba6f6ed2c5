package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceStatus represents the lifecycle state of a service contract
type ServiceStatus string

const (
	ServiceStatusActive         ServiceStatus = "active"
	ServiceStatusExpired        ServiceStatus = "expired"
	ServiceStatusPaymentPending ServiceStatus = "payment_pending"
	ServiceStatusCompleted      ServiceStatus = "completed"
)

// ReminderWindowDays is the look-ahead window shared by the sweeps, the
// "soon" flags and the dashboard counts. These must stay in lock-step.
const ReminderWindowDays = 15

// Status colors, in priority order: overdue > soon > completed > default.
const (
	ColorOverdue   = "red"
	ColorSoon      = "orange"
	ColorCompleted = "green"
	ColorDefault   = "blue"
)

// Service represents a service/contract belonging to a vendor
type Service struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	VendorID       uuid.UUID     `json:"vendor_id" db:"vendor_id"`
	ServiceName    string        `json:"service_name" db:"service_name"`
	StartDate      time.Time     `json:"start_date" db:"start_date"`
	ExpiryDate     time.Time     `json:"expiry_date" db:"expiry_date"`
	PaymentDueDate time.Time     `json:"payment_due_date" db:"payment_due_date"`
	Amount         float64       `json:"amount" db:"amount"`
	Status         ServiceStatus `json:"status" db:"status"`
	DocumentObject *string       `json:"document_object,omitempty" db:"document_object"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	CreatedBy      uuid.UUID     `json:"created_by" db:"created_by"`
}

// ServiceFilter holds the list/search parameters for service queries
type ServiceFilter struct {
	VendorID *uuid.UUID
	Status   *ServiceStatus
	Search   string
	OrderBy  string
	Limit    int
	Offset   int
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to
// another. Negative when `to` is in the past relative to `from`.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// DeriveStatus computes the status a service must carry after a persist as of
// the given date. It is a one-way ratchet: only active services transition
// (to expired, or failing that to payment_pending); expired, payment_pending
// and completed are never altered, even if dates are edited backward.
func DeriveStatus(current ServiceStatus, expiryDate, paymentDueDate, asOf time.Time) ServiceStatus {
	if current != ServiceStatusActive {
		return current
	}
	if DateOf(expiryDate).Before(DateOf(asOf)) {
		return ServiceStatusExpired
	}
	if DateOf(paymentDueDate).Before(DateOf(asOf)) {
		return ServiceStatusPaymentPending
	}
	return current
}

// DaysUntilExpiry returns whole days from asOf to the expiry date.
func (s *Service) DaysUntilExpiry(asOf time.Time) int {
	return DaysBetween(asOf, s.ExpiryDate)
}

// DaysUntilPaymentDue returns whole days from asOf to the payment due date.
func (s *Service) DaysUntilPaymentDue(asOf time.Time) int {
	return DaysBetween(asOf, s.PaymentDueDate)
}

// IsExpiringSoon reports whether the expiry date falls within the reminder
// window, inclusive on both ends.
func (s *Service) IsExpiringSoon(asOf time.Time) bool {
	d := s.DaysUntilExpiry(asOf)
	return d >= 0 && d <= ReminderWindowDays
}

// IsPaymentDueSoon reports whether the payment due date falls within the
// reminder window, inclusive on both ends.
func (s *Service) IsPaymentDueSoon(asOf time.Time) bool {
	d := s.DaysUntilPaymentDue(asOf)
	return d >= 0 && d <= ReminderWindowDays
}

// IsOverdue reports whether an active service has slipped past its expiry or
// payment due date.
func (s *Service) IsOverdue(asOf time.Time) bool {
	if s.Status != ServiceStatusActive {
		return false
	}
	return DateOf(s.ExpiryDate).Before(DateOf(asOf)) || DateOf(s.PaymentDueDate).Before(DateOf(asOf))
}

// StatusColor returns the display color for a service as of the given date.
func (s *Service) StatusColor(asOf time.Time) string {
	switch {
	case s.IsOverdue(asOf):
		return ColorOverdue
	case s.IsExpiringSoon(asOf) || s.IsPaymentDueSoon(asOf):
		return ColorSoon
	case s.Status == ServiceStatusCompleted:
		return ColorCompleted
	default:
		return ColorDefault
	}
}

// ServiceView is a service with its read-time derived fields attached
type ServiceView struct {
	Service
	DaysUntilExpiry     int    `json:"days_until_expiry"`
	DaysUntilPaymentDue int    `json:"days_until_payment_due"`
	IsExpiringSoon      bool   `json:"is_expiring_soon"`
	IsPaymentDueSoon    bool   `json:"is_payment_due_soon"`
	IsOverdue           bool   `json:"is_overdue"`
	StatusColor         string `json:"status_color"`
}

// View computes the derived fields for a service as of the given date.
func (s *Service) View(asOf time.Time) *ServiceView {
	return &ServiceView{
		Service:             *s,
		DaysUntilExpiry:     s.DaysUntilExpiry(asOf),
		DaysUntilPaymentDue: s.DaysUntilPaymentDue(asOf),
		IsExpiringSoon:      s.IsExpiringSoon(asOf),
		IsPaymentDueSoon:    s.IsPaymentDueSoon(asOf),
		IsOverdue:           s.IsOverdue(asOf),
		StatusColor:         s.StatusColor(asOf),
	}
}
