package analytics

import (
	"context"
	"log"
	"time"

	"vendortrack/internal/caching"
	"vendortrack/internal/models"
	"vendortrack/internal/repositories"
)

// DashboardService computes the dashboard snapshot from the store and
// caches it per calendar day.
type DashboardService struct {
	vendorRepo   repositories.VendorRepository
	serviceRepo  repositories.ServiceRepository
	cacheService caching.CacheService
}

func NewDashboardService(vendorRepo repositories.VendorRepository, serviceRepo repositories.ServiceRepository, cacheService caching.CacheService) *DashboardService {
	return &DashboardService{
		vendorRepo:   vendorRepo,
		serviceRepo:  serviceRepo,
		cacheService: cacheService,
	}
}

func (s *DashboardService) Stats(ctx context.Context, asOf time.Time) (*models.DashboardStats, error) {
	day := models.DateOf(asOf)

	if cached, err := s.cacheService.GetDashboard(ctx, day); err == nil && cached != nil {
		return cached, nil
	}

	stats := &models.DashboardStats{AsOf: day}

	var err error
	if stats.TotalVendors, err = s.vendorRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	activeVendor := models.VendorStatusActive
	if stats.ActiveVendors, err = s.vendorRepo.Count(ctx, &activeVendor); err != nil {
		return nil, err
	}
	if stats.TotalServices, err = s.serviceRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	activeService := models.ServiceStatusActive
	if stats.ActiveServices, err = s.serviceRepo.Count(ctx, &activeService); err != nil {
		return nil, err
	}

	to := day.AddDate(0, 0, models.ReminderWindowDays)
	if stats.ExpiringSoon, err = s.serviceRepo.CountExpiringWithin(ctx, day, to); err != nil {
		return nil, err
	}
	if stats.PaymentDueSoon, err = s.serviceRepo.CountPaymentDueWithin(ctx, day, to); err != nil {
		return nil, err
	}
	if stats.OverdueServices, err = s.serviceRepo.CountOverdue(ctx, day); err != nil {
		return nil, err
	}
	if stats.TotalContractValue, err = s.serviceRepo.SumActiveAmount(ctx); err != nil {
		return nil, err
	}

	if err := s.cacheService.SetDashboard(ctx, day, stats, caching.DefaultTTL); err != nil {
		log.Printf("Failed to cache dashboard stats: %v", err)
	}
	return stats, nil
}
