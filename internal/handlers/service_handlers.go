package handlers

import (
	"net/http"
	"time"

	"vendortrack/internal/common"
	"vendortrack/internal/models"
	"vendortrack/internal/services"

	"github.com/labstack/echo/v4"
)

// ServiceHandlers handles contract/service HTTP requests
type ServiceHandlers struct {
	serviceService  services.ServiceService
	documentService services.DocumentService
}

// NewServiceHandlers creates a new service handlers instance
func NewServiceHandlers(serviceService services.ServiceService, documentService services.DocumentService) *ServiceHandlers {
	return &ServiceHandlers{
		serviceService:  serviceService,
		documentService: documentService,
	}
}

// CreateServiceRequest represents the service creation request payload
type CreateServiceRequest struct {
	VendorID       string  `json:"vendor_id" validate:"required,uuid"`
	ServiceName    string  `json:"service_name" validate:"required"`
	StartDate      string  `json:"start_date" validate:"required"`
	ExpiryDate     string  `json:"expiry_date" validate:"required"`
	PaymentDueDate string  `json:"payment_due_date" validate:"required"`
	Amount         float64 `json:"amount" validate:"gte=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=active expired payment_pending completed"`
}

func (r *CreateServiceRequest) toModel() (*models.Service, error) {
	vendorID, err := common.ValidateUUID(r.VendorID, "vendor_id")
	if err != nil {
		return nil, err
	}
	startDate, err := common.ParseDate(r.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	expiryDate, err := common.ParseDate(r.ExpiryDate, "expiry_date")
	if err != nil {
		return nil, err
	}
	paymentDueDate, err := common.ParseDate(r.PaymentDueDate, "payment_due_date")
	if err != nil {
		return nil, err
	}

	return &models.Service{
		VendorID:       vendorID,
		ServiceName:    r.ServiceName,
		StartDate:      startDate,
		ExpiryDate:     expiryDate,
		PaymentDueDate: paymentDueDate,
		Amount:         r.Amount,
		Status:         models.ServiceStatus(r.Status),
	}, nil
}

// CreateService handles creating a new service contract
// @Summary Create a service
// @Tags services
// @Accept json
// @Produce json
// @Param service body CreateServiceRequest true "Service payload"
// @Success 201 {object} models.ServiceView
// @Router /v1/services [post]
func (h *ServiceHandlers) CreateService(c echo.Context) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	service, err := req.toModel()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.serviceService.Create(c.Request().Context(), userID, service); err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.JSON(http.StatusCreated, service.View(time.Now()))
}

// ListServicesRequest represents query parameters for listing services
type ListServicesRequest struct {
	Status   string `query:"status"`
	VendorID string `query:"vendor_id"`
	Search   string `query:"search"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// ListServices handles getting a filtered list of services
// @Summary List services
// @Tags services
// @Produce json
// @Param status query string false "Filter by status"
// @Param vendor_id query string false "Filter by vendor"
// @Success 200 {array} models.ServiceView
// @Router /v1/services [get]
func (h *ServiceHandlers) ListServices(c echo.Context) error {
	var req ListServicesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	filter := models.ServiceFilter{
		Search: common.SanitizeSearchQuery(req.Search),
		Limit:  limit,
		Offset: offset,
	}
	if req.Status != "" {
		status := models.ServiceStatus(req.Status)
		filter.Status = &status
	}
	if req.VendorID != "" {
		vendorID, err := common.ValidateUUID(req.VendorID, "vendor_id")
		if err != nil {
			return common.SendValidationError(c, "vendor_id", err.Error())
		}
		filter.VendorID = &vendorID
	}

	servicesList, err := h.serviceService.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	views := make([]*models.ServiceView, 0, len(servicesList))
	for _, svc := range servicesList {
		views = append(views, svc.View(asOf))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"services": views,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetService handles getting a single service
// @Summary Get a service
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} models.ServiceView
// @Router /v1/services/{id} [get]
func (h *ServiceHandlers) GetService(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	service, err := h.serviceService.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.JSON(http.StatusOK, service.View(asOf))
}

// UpdateService handles a full update of a service contract
// @Summary Update a service
// @Tags services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param service body CreateServiceRequest true "Service payload"
// @Success 200 {object} models.ServiceView
// @Router /v1/services/{id} [put]
func (h *ServiceHandlers) UpdateService(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	updated, err := req.toModel()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	ctx := c.Request().Context()

	existing, err := h.serviceService.GetByID(ctx, id)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	existing.VendorID = updated.VendorID
	existing.ServiceName = updated.ServiceName
	existing.StartDate = updated.StartDate
	existing.ExpiryDate = updated.ExpiryDate
	existing.PaymentDueDate = updated.PaymentDueDate
	existing.Amount = updated.Amount
	if updated.Status != "" {
		existing.Status = updated.Status
	}

	if err := h.serviceService.Update(ctx, existing); err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.JSON(http.StatusOK, existing.View(time.Now()))
}

// UpdateServiceStatusRequest represents the partial status update payload
type UpdateServiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active expired payment_pending completed"`
}

// UpdateServiceStatus handles the partial status update
// @Summary Update a service's status
// @Tags services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param status body UpdateServiceStatusRequest true "New status"
// @Success 200 {object} models.ServiceView
// @Router /v1/services/{id}/status [patch]
func (h *ServiceHandlers) UpdateServiceStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateServiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	service, err := h.serviceService.UpdateStatus(c.Request().Context(), id, models.ServiceStatus(req.Status))
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.JSON(http.StatusOK, service.View(time.Now()))
}

// DeleteService handles deleting a service contract
// @Summary Delete a service
// @Tags services
// @Param id path string true "Service ID"
// @Success 204
// @Router /v1/services/{id} [delete]
func (h *ServiceHandlers) DeleteService(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.serviceService.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListExpiringSoon handles the expiring-soon window listing
// @Summary List services expiring within the reminder window
// @Tags services
// @Produce json
// @Param as_of query string false "Window start date (YYYY-MM-DD)"
// @Success 200 {array} models.ServiceView
// @Router /v1/services/expiring-soon [get]
func (h *ServiceHandlers) ListExpiringSoon(c echo.Context) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	servicesList, err := h.serviceService.ListExpiringSoon(c.Request().Context(), asOf)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	views := make([]*models.ServiceView, 0, len(servicesList))
	for _, svc := range servicesList {
		views = append(views, svc.View(asOf))
	}
	return c.JSON(http.StatusOK, views)
}

// ListPaymentDueSoon handles the payment-due window listing
// @Summary List services with payment due within the reminder window
// @Tags services
// @Produce json
// @Param as_of query string false "Window start date (YYYY-MM-DD)"
// @Success 200 {array} models.ServiceView
// @Router /v1/services/payment-due-soon [get]
func (h *ServiceHandlers) ListPaymentDueSoon(c echo.Context) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	servicesList, err := h.serviceService.ListPaymentDueSoon(c.Request().Context(), asOf)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	views := make([]*models.ServiceView, 0, len(servicesList))
	for _, svc := range servicesList {
		views = append(views, svc.View(asOf))
	}
	return c.JSON(http.StatusOK, views)
}

// UploadServiceDocument handles attaching a contract document
// @Summary Attach a contract document to a service
// @Tags services
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Service ID"
// @Param document formData file true "Contract document"
// @Success 200 {object} map[string]string
// @Router /v1/services/{id}/document [post]
func (h *ServiceHandlers) UploadServiceDocument(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return common.SendClientError(c, "document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "could not read uploaded file")
	}
	defer file.Close()

	objectName, err := h.documentService.AttachDocument(
		c.Request().Context(), id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file, fileHeader.Size,
	)
	if err != nil {
		return writeServiceError(c, err, "service")
	}

	return c.JSON(http.StatusOK, map[string]string{"document_object": objectName})
}

// GetServiceDocument handles fetching a presigned document link
// @Summary Get a time-limited link to the contract document
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} map[string]string
// @Router /v1/services/{id}/document [get]
func (h *ServiceHandlers) GetServiceDocument(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	url, err := h.documentService.GetDocumentURL(c.Request().Context(), id, 15*time.Minute)
	if err != nil {
		return writeServiceError(c, err, "service document")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DeleteServiceDocument handles removing the contract document
// @Summary Remove the contract document from a service
// @Tags services
// @Param id path string true "Service ID"
// @Success 204
// @Router /v1/services/{id}/document [delete]
func (h *ServiceHandlers) DeleteServiceDocument(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "service id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.documentService.RemoveDocument(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err, "service document")
	}

	return c.NoContent(http.StatusNoContent)
}
