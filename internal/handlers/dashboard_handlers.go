package handlers

import (
	"net/http"

	"vendortrack/internal/analytics"
	"vendortrack/internal/common"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers handles dashboard HTTP requests
type DashboardHandlers struct {
	dashboardService *analytics.DashboardService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboardService *analytics.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetStats handles the dashboard snapshot
// @Summary Get dashboard counters
// @Tags dashboard
// @Produce json
// @Param as_of query string false "Snapshot date (YYYY-MM-DD)"
// @Success 200 {object} models.DashboardStats
// @Router /v1/dashboard/stats [get]
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	stats, err := h.dashboardService.Stats(c.Request().Context(), asOf)
	if err != nil {
		return writeServiceError(c, err, "dashboard")
	}

	return c.JSON(http.StatusOK, stats)
}
