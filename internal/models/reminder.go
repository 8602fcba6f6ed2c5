package models

import (
	"time"

	"github.com/google/uuid"
)

// ReminderType distinguishes expiry reminders from payment reminders
type ReminderType string

const (
	ReminderTypeExpiry  ReminderType = "expiry"
	ReminderTypePayment ReminderType = "payment"
)

// SweepResult summarizes one run of the daily reminder sweeps.
type SweepResult struct {
	AsOf        time.Time `json:"as_of"`
	ExpirySent  int       `json:"expiry_sent"`
	PaymentSent int       `json:"payment_sent"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
}

// ServiceReminder records that a reminder was produced for a service on a
// given date. The (service_id, reminder_type, reminder_date) triple is unique
// in the store; that constraint is the only email deduplication mechanism.
type ServiceReminder struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	ServiceID    uuid.UUID    `json:"service_id" db:"service_id"`
	ReminderType ReminderType `json:"reminder_type" db:"reminder_type"`
	ReminderDate time.Time    `json:"reminder_date" db:"reminder_date"`
	IsSent       bool         `json:"is_sent" db:"is_sent"`
	SentAt       *time.Time   `json:"sent_at" db:"sent_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
