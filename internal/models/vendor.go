package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorStatus represents the lifecycle state of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// Vendor represents a vendor/company we hold service contracts with
type Vendor struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	ContactPerson string       `json:"contact_person" db:"contact_person"`
	Email         string       `json:"email" db:"email"`
	Phone         string       `json:"phone" db:"phone"`
	Status        VendorStatus `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
	CreatedBy     uuid.UUID    `json:"created_by" db:"created_by"`
}

// VendorSummary is a vendor with aggregates derived from its services
type VendorSummary struct {
	Vendor
	ActiveServicesCount int     `json:"active_services_count"`
	TotalContractValue  float64 `json:"total_contract_value"`
}

// VendorFilter holds the list/search parameters for vendor queries
type VendorFilter struct {
	Status  *VendorStatus
	Search  string
	OrderBy string
	Limit   int
	Offset  int
}
