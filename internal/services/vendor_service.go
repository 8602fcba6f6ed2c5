package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"vendortrack/internal/caching"
	"vendortrack/internal/models"
	"vendortrack/internal/repositories"

	"github.com/google/uuid"
)

type VendorService interface {
	Create(ctx context.Context, createdBy uuid.UUID, vendor *models.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*models.VendorSummary, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.VendorFilter) ([]*models.Vendor, error)
	ListActiveWithActiveServices(ctx context.Context) ([]*models.Vendor, error)
}

type vendorService struct {
	vendorRepo  repositories.VendorRepository
	serviceRepo repositories.ServiceRepository
	cacheSvc    caching.CacheService
}

func NewVendorService(vendorRepo repositories.VendorRepository, serviceRepo repositories.ServiceRepository, cacheSvc caching.CacheService) VendorService {
	return &vendorService{
		vendorRepo:  vendorRepo,
		serviceRepo: serviceRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *vendorService) Create(ctx context.Context, createdBy uuid.UUID, vendor *models.Vendor) error {
	if err := validateVendor(vendor); err != nil {
		return err
	}

	// Check-then-insert gives a friendlier message; a racing insert is
	// still caught by the 23505 mapping below.
	if existing, err := s.vendorRepo.GetByName(ctx, vendor.Name); err == nil && existing != nil {
		return fmt.Errorf("%w: a vendor with this name already exists", ErrDuplicate)
	}
	if existing, err := s.vendorRepo.GetByEmail(ctx, vendor.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: this email is already in use by another vendor", ErrDuplicate)
	}

	vendor.ID = uuid.New()
	vendor.CreatedBy = createdBy
	if vendor.Status == "" {
		vendor.Status = models.VendorStatusActive
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: vendor name or email already in use", ErrDuplicate)
		}
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *vendorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if cached, err := s.cacheSvc.GetVendor(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, id)
		}
		return nil, err
	}

	if err := s.cacheSvc.SetVendor(ctx, vendor, caching.DefaultTTL); err != nil {
		log.Printf("Failed to cache vendor %s: %v", id, err)
	}
	return vendor, nil
}

// GetSummary returns the vendor with its derived aggregates.
func (s *vendorService) GetSummary(ctx context.Context, id uuid.UUID) (*models.VendorSummary, error) {
	vendor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.serviceRepo.CountActiveByVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := s.serviceRepo.SumActiveAmountByVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.VendorSummary{
		Vendor:              *vendor,
		ActiveServicesCount: count,
		TotalContractValue:  total,
	}, nil
}

func (s *vendorService) Update(ctx context.Context, vendor *models.Vendor) error {
	if err := validateVendor(vendor); err != nil {
		return err
	}

	if existing, err := s.vendorRepo.GetByName(ctx, vendor.Name); err == nil && existing != nil && existing.ID != vendor.ID {
		return fmt.Errorf("%w: a vendor with this name already exists", ErrDuplicate)
	}
	if existing, err := s.vendorRepo.GetByEmail(ctx, vendor.Email); err == nil && existing != nil && existing.ID != vendor.ID {
		return fmt.Errorf("%w: this email is already in use by another vendor", ErrDuplicate)
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: vendor name or email already in use", ErrDuplicate)
		}
		return err
	}

	if err := s.cacheSvc.DeleteVendor(ctx, vendor.ID); err != nil {
		log.Printf("Failed to evict vendor %s from cache: %v", vendor.ID, err)
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *vendorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteVendor(ctx, id); err != nil {
		log.Printf("Failed to evict vendor %s from cache: %v", id, err)
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *vendorService) List(ctx context.Context, filter models.VendorFilter) ([]*models.Vendor, error) {
	return s.vendorRepo.List(ctx, filter)
}

func (s *vendorService) ListActiveWithActiveServices(ctx context.Context) ([]*models.Vendor, error) {
	return s.vendorRepo.ListActiveWithActiveServices(ctx)
}

func (s *vendorService) invalidateDashboard(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboard(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}

func validateVendor(vendor *models.Vendor) error {
	if strings.TrimSpace(vendor.Name) == "" {
		return fmt.Errorf("%w: vendor name is required", ErrValidation)
	}
	if strings.TrimSpace(vendor.Email) == "" || !strings.Contains(vendor.Email, "@") {
		return fmt.Errorf("%w: a valid vendor email is required", ErrValidation)
	}
	if vendor.Status != "" && vendor.Status != models.VendorStatusActive && vendor.Status != models.VendorStatusInactive {
		return fmt.Errorf("%w: vendor status must be active or inactive", ErrValidation)
	}
	return nil
}
