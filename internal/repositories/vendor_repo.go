package repositories

import (
	"context"
	"fmt"

	"vendortrack/internal/models"

	"github.com/google/uuid"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	GetByName(ctx context.Context, name string) (*models.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.VendorFilter) ([]*models.Vendor, error)
	ListActiveWithActiveServices(ctx context.Context) ([]*models.Vendor, error)
	Count(ctx context.Context, status *models.VendorStatus) (int, error)
}

type vendorRepo struct {
	db Database
}

func NewVendorRepository(db Database) VendorRepository {
	return &vendorRepo{db: db}
}

const vendorColumns = `id, name, contact_person, email, phone, status, created_at, updated_at, created_by`

func scanVendor(row interface{ Scan(dest ...any) error }) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	err := row.Scan(&vendor.ID, &vendor.Name, &vendor.ContactPerson, &vendor.Email, &vendor.Phone, &vendor.Status, &vendor.CreatedAt, &vendor.UpdatedAt, &vendor.CreatedBy)
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *vendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, contact_person, email, phone, status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7)
	`
	_, err := r.db.Exec(ctx, query, vendor.ID, vendor.Name, vendor.ContactPerson, vendor.Email, vendor.Phone, vendor.Status, vendor.CreatedBy)
	return err
}

func (r *vendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	return scanVendor(r.db.QueryRow(ctx, query, id))
}

func (r *vendorRepo) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE name = $1`
	return scanVendor(r.db.QueryRow(ctx, query, name))
}

func (r *vendorRepo) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE email = $1`
	return scanVendor(r.db.QueryRow(ctx, query, email))
}

func (r *vendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $1, contact_person = $2, email = $3, phone = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, vendor.Name, vendor.ContactPerson, vendor.Email, vendor.Phone, vendor.Status, vendor.ID)
	return err
}

// Delete removes a vendor; its services and their reminders go with it via
// ON DELETE CASCADE.
func (r *vendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vendors WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *vendorRepo) List(ctx context.Context, filter models.VendorFilter) ([]*models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR contact_person ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query += " ORDER BY " + vendorOrderClause(filter.OrderBy)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

// vendorOrderClause whitelists sortable columns to keep ORDER BY injection-safe.
func vendorOrderClause(orderBy string) string {
	switch orderBy {
	case "name":
		return "name ASC"
	case "updated_at":
		return "updated_at DESC"
	default:
		return "created_at DESC"
	}
}

func (r *vendorRepo) ListActiveWithActiveServices(ctx context.Context) ([]*models.Vendor, error) {
	query := `
		SELECT DISTINCT v.id, v.name, v.contact_person, v.email, v.phone, v.status, v.created_at, v.updated_at, v.created_by
		FROM vendors v
		JOIN services s ON s.vendor_id = v.id
		WHERE v.status = 'active' AND s.status = 'active'
		ORDER BY v.name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

func (r *vendorRepo) Count(ctx context.Context, status *models.VendorStatus) (int, error) {
	var count int
	if status == nil {
		err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&count)
		return count, err
	}
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vendors WHERE status = $1`, *status).Scan(&count)
	return count, err
}
