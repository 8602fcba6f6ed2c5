package handlers

import (
	"net/http"

	"vendortrack/internal/common"
	"vendortrack/internal/models"
	"vendortrack/internal/services"

	"github.com/labstack/echo/v4"
)

// VendorHandlers handles vendor-related HTTP requests
type VendorHandlers struct {
	vendorService  services.VendorService
	serviceService services.ServiceService
}

// NewVendorHandlers creates a new vendor handlers instance
func NewVendorHandlers(vendorService services.VendorService, serviceService services.ServiceService) *VendorHandlers {
	return &VendorHandlers{
		vendorService:  vendorService,
		serviceService: serviceService,
	}
}

// CreateVendorRequest represents the vendor creation request payload
type CreateVendorRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CreateVendor handles creating a new vendor
// @Summary Create a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor body CreateVendorRequest true "Vendor payload"
// @Success 201 {object} models.Vendor
// @Router /v1/vendors [post]
func (h *VendorHandlers) CreateVendor(c echo.Context) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	var req CreateVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	vendor := &models.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        models.VendorStatus(req.Status),
	}

	if err := h.vendorService.Create(c.Request().Context(), userID, vendor); err != nil {
		return writeServiceError(c, err, "vendor")
	}

	return c.JSON(http.StatusCreated, vendor)
}

// ListVendorsRequest represents query parameters for listing vendors
type ListVendorsRequest struct {
	Status  string `query:"status"`
	Search  string `query:"search"`
	OrderBy string `query:"order_by"`
	Limit   int    `query:"limit"`
	Offset  int    `query:"offset"`
}

// ListVendors handles getting a filtered list of vendors
// @Summary List vendors
// @Tags vendors
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search in name and contact person"
// @Success 200 {array} models.Vendor
// @Router /v1/vendors [get]
func (h *VendorHandlers) ListVendors(c echo.Context) error {
	var req ListVendorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := models.VendorFilter{
		Search:  common.SanitizeSearchQuery(req.Search),
		OrderBy: req.OrderBy,
		Limit:   limit,
		Offset:  offset,
	}
	if req.Status != "" {
		status := models.VendorStatus(req.Status)
		if status != models.VendorStatusActive && status != models.VendorStatusInactive {
			return common.SendValidationError(c, "status", "must be active or inactive")
		}
		filter.Status = &status
	}

	vendors, err := h.vendorService.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err, "vendor")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendors": vendors,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetVendor handles getting a single vendor with its aggregates
// @Summary Get a vendor
// @Tags vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} models.VendorSummary
// @Router /v1/vendors/{id} [get]
func (h *VendorHandlers) GetVendor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "vendor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	summary, err := h.vendorService.GetSummary(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err, "vendor")
	}

	return c.JSON(http.StatusOK, summary)
}

// UpdateVendorRequest represents the vendor update request payload
type UpdateVendorRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Status        string `json:"status" validate:"required,oneof=active inactive"`
}

// UpdateVendor handles updating a vendor
// @Summary Update a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param vendor body UpdateVendorRequest true "Vendor payload"
// @Success 200 {object} models.Vendor
// @Router /v1/vendors/{id} [put]
func (h *VendorHandlers) UpdateVendor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "vendor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	ctx := c.Request().Context()

	existing, err := h.vendorService.GetByID(ctx, id)
	if err != nil {
		return writeServiceError(c, err, "vendor")
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Status = models.VendorStatus(req.Status)

	if err := h.vendorService.Update(ctx, existing); err != nil {
		return writeServiceError(c, err, "vendor")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeleteVendor handles deleting a vendor and its services
// @Summary Delete a vendor
// @Tags vendors
// @Param id path string true "Vendor ID"
// @Success 204
// @Router /v1/vendors/{id} [delete]
func (h *VendorHandlers) DeleteVendor(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "vendor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.vendorService.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err, "vendor")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListVendorServices handles listing all services of one vendor
// @Summary List a vendor's services
// @Tags vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {array} models.ServiceView
// @Router /v1/vendors/{id}/services [get]
func (h *VendorHandlers) ListVendorServices(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "vendor id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	servicesList, err := h.serviceService.ListByVendor(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err, "vendor")
	}

	views := make([]*models.ServiceView, 0, len(servicesList))
	for _, svc := range servicesList {
		views = append(views, svc.View(asOf))
	}
	return c.JSON(http.StatusOK, views)
}

// ListActiveVendorsWithServices handles the active-vendor roll-up
// @Summary List active vendors that have at least one active service
// @Tags vendors
// @Produce json
// @Success 200 {array} models.Vendor
// @Router /v1/vendors/active-with-services [get]
func (h *VendorHandlers) ListActiveVendorsWithServices(c echo.Context) error {
	vendors, err := h.vendorService.ListActiveWithActiveServices(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err, "vendor")
	}
	return c.JSON(http.StatusOK, vendors)
}
