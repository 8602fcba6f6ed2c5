package models

import "time"

// DashboardStats is the snapshot the dashboard endpoint serves. All
// window-dependent counts are computed relative to AsOf.
type DashboardStats struct {
	AsOf               time.Time `json:"as_of"`
	TotalVendors       int       `json:"total_vendors"`
	ActiveVendors      int       `json:"active_vendors"`
	TotalServices      int       `json:"total_services"`
	ActiveServices     int       `json:"active_services"`
	ExpiringSoon       int       `json:"expiring_soon"`
	PaymentDueSoon     int       `json:"payment_due_soon"`
	OverdueServices    int       `json:"overdue_services"`
	TotalContractValue float64   `json:"total_contract_value"`
}
