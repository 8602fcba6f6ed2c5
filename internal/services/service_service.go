package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vendortrack/internal/caching"
	"vendortrack/internal/models"
	"vendortrack/internal/repositories"

	"github.com/google/uuid"
)

// Sweeper is the piece of the reminder pipeline a service write needs:
// after a contract is created or updated its reminder state may have
// changed, so the sweep runs for that single service.
type Sweeper interface {
	SweepService(ctx context.Context, service *models.Service, asOf time.Time) error
}

type ServiceService interface {
	Create(ctx context.Context, createdBy uuid.UUID, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ServiceStatus) (*models.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Service, error)
	ListExpiringSoon(ctx context.Context, asOf time.Time) ([]*models.Service, error)
	ListPaymentDueSoon(ctx context.Context, asOf time.Time) ([]*models.Service, error)
}

type serviceService struct {
	serviceRepo repositories.ServiceRepository
	vendorRepo  repositories.VendorRepository
	cacheSvc    caching.CacheService
	sweeper     Sweeper
}

func NewServiceService(serviceRepo repositories.ServiceRepository, vendorRepo repositories.VendorRepository, cacheSvc caching.CacheService, sweeper Sweeper) ServiceService {
	return &serviceService{
		serviceRepo: serviceRepo,
		vendorRepo:  vendorRepo,
		cacheSvc:    cacheSvc,
		sweeper:     sweeper,
	}
}

func (s *serviceService) Create(ctx context.Context, createdBy uuid.UUID, service *models.Service) error {
	if err := validateService(service); err != nil {
		return err
	}

	if _, err := s.vendorRepo.GetByID(ctx, service.VendorID); err != nil {
		if repositories.IsNoRows(err) {
			return fmt.Errorf("%w: vendor %s", ErrNotFound, service.VendorID)
		}
		return err
	}

	service.ID = uuid.New()
	service.CreatedBy = createdBy
	if service.Status == "" {
		service.Status = models.ServiceStatusActive
	}
	// Every persist runs the same derivation, so a contract created with
	// dates already in the past lands in the right status immediately.
	service.Status = models.DeriveStatus(service.Status, service.ExpiryDate, service.PaymentDueDate, time.Now())

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: this vendor already has a service with this name and start date", ErrDuplicate)
		}
		return err
	}

	s.afterWrite(service)
	return nil
}

func (s *serviceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if cached, err := s.cacheSvc.GetService(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, fmt.Errorf("%w: service %s", ErrNotFound, id)
		}
		return nil, err
	}

	if err := s.cacheSvc.SetService(ctx, service, caching.DefaultTTL); err != nil {
		log.Printf("Failed to cache service %s: %v", id, err)
	}
	return service, nil
}

func (s *serviceService) Update(ctx context.Context, service *models.Service) error {
	if err := validateService(service); err != nil {
		return err
	}

	service.Status = models.DeriveStatus(service.Status, service.ExpiryDate, service.PaymentDueDate, time.Now())

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("%w: this vendor already has a service with this name and start date", ErrDuplicate)
		}
		return err
	}

	s.evict(ctx, service.ID)
	s.afterWrite(service)
	return nil
}

// UpdateStatus applies a caller-requested status and then re-derives,
// so setting an expired contract back to active only sticks when its
// dates allow it.
func (s *serviceService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ServiceStatus) (*models.Service, error) {
	if !isValidServiceStatus(status) {
		return nil, fmt.Errorf("%w: unknown service status %q", ErrValidation, status)
	}

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, fmt.Errorf("%w: service %s", ErrNotFound, id)
		}
		return nil, err
	}

	service.Status = models.DeriveStatus(status, service.ExpiryDate, service.PaymentDueDate, time.Now())

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	s.afterWrite(service)
	return service, nil
}

func (s *serviceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.serviceRepo.GetByID(ctx, id); err != nil {
		if repositories.IsNoRows(err) {
			return fmt.Errorf("%w: service %s", ErrNotFound, id)
		}
		return err
	}
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *serviceService) List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	return s.serviceRepo.List(ctx, filter)
}

func (s *serviceService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*models.Service, error) {
	if _, err := s.vendorRepo.GetByID(ctx, vendorID); err != nil {
		if repositories.IsNoRows(err) {
			return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, vendorID)
		}
		return nil, err
	}
	return s.serviceRepo.ListByVendor(ctx, vendorID)
}

func (s *serviceService) ListExpiringSoon(ctx context.Context, asOf time.Time) ([]*models.Service, error) {
	from := models.DateOf(asOf)
	return s.serviceRepo.ListExpiringWithin(ctx, from, from.AddDate(0, 0, models.ReminderWindowDays))
}

func (s *serviceService) ListPaymentDueSoon(ctx context.Context, asOf time.Time) ([]*models.Service, error) {
	from := models.DateOf(asOf)
	return s.serviceRepo.ListPaymentDueWithin(ctx, from, from.AddDate(0, 0, models.ReminderWindowDays))
}

// afterWrite kicks off the reminder sweep for a single service without
// holding up the request.
func (s *serviceService) afterWrite(service *models.Service) {
	if s.sweeper == nil {
		return
	}
	go func(svc models.Service) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.sweeper.SweepService(ctx, &svc, time.Now()); err != nil {
			log.Printf("Post-write reminder sweep failed for service %s: %v", svc.ID, err)
		}
	}(*service)
}

func (s *serviceService) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cacheSvc.DeleteService(ctx, id); err != nil {
		log.Printf("Failed to evict service %s from cache: %v", id, err)
	}
	if err := s.cacheSvc.InvalidateDashboard(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}

func validateService(service *models.Service) error {
	if strings.TrimSpace(service.ServiceName) == "" {
		return fmt.Errorf("%w: service name is required", ErrValidation)
	}
	if service.VendorID == uuid.Nil {
		return fmt.Errorf("%w: vendor id is required", ErrValidation)
	}
	if service.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	if !models.DateOf(service.ExpiryDate).After(models.DateOf(service.StartDate)) {
		return fmt.Errorf("%w: expiry date must be after start date", ErrValidation)
	}
	if !models.DateOf(service.PaymentDueDate).After(models.DateOf(service.StartDate)) {
		return fmt.Errorf("%w: payment due date must be after start date", ErrValidation)
	}
	if service.Status != "" && !isValidServiceStatus(service.Status) {
		return fmt.Errorf("%w: unknown service status %q", ErrValidation, service.Status)
	}
	return nil
}

func isValidServiceStatus(status models.ServiceStatus) bool {
	switch status {
	case models.ServiceStatusActive, models.ServiceStatusExpired, models.ServiceStatusPaymentPending, models.ServiceStatusCompleted:
		return true
	}
	return false
}
