package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"vendortrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for integration tests. Tests
// that call it are skipped when no test database is configured.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			t.Skip("TEST_DATABASE_URL not set, skipping integration test")
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestUser creates a user row for integration tests
func SetupTestUser(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query,
		userID, userID.String()+"@test.example", "x", "Test", "User")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// SetupTestVendor creates a vendor row for integration tests
func SetupTestVendor(t *testing.T, db *TestDB, createdBy uuid.UUID) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		ID:            uuid.New(),
		Name:          "Test Vendor " + uuid.NewString()[:8],
		ContactPerson: "Test Person",
		Email:         uuid.NewString()[:8] + "@vendor.example",
		Phone:         "555-0100",
		Status:        models.VendorStatusActive,
		CreatedBy:     createdBy,
	}

	query := `
		INSERT INTO vendors (id, name, contact_person, email, phone, status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		vendor.ID, vendor.Name, vendor.ContactPerson, vendor.Email, vendor.Phone, vendor.Status, vendor.CreatedBy)
	if err != nil {
		t.Fatalf("Failed to create test vendor: %v", err)
	}

	return vendor
}

// SetupTestService creates a service row for integration tests
func SetupTestService(t *testing.T, db *TestDB, vendorID, createdBy uuid.UUID, expiryOffsetDays int) *models.Service {
	t.Helper()

	now := models.DateOf(time.Now())
	service := &models.Service{
		ID:             uuid.New(),
		VendorID:       vendorID,
		ServiceName:    "Test Service " + uuid.NewString()[:8],
		StartDate:      now.AddDate(0, 0, -30),
		ExpiryDate:     now.AddDate(0, 0, expiryOffsetDays),
		PaymentDueDate: now.AddDate(0, 0, 60),
		Amount:         999.99,
		Status:         models.ServiceStatusActive,
		CreatedBy:      createdBy,
	}

	query := `
		INSERT INTO services (id, vendor_id, service_name, start_date, expiry_date, payment_due_date, amount, status, document_object, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), $10)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		service.ID, service.VendorID, service.ServiceName, service.StartDate, service.ExpiryDate,
		service.PaymentDueDate, service.Amount, service.Status, service.DocumentObject, service.CreatedBy)
	if err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}

	return service
}
