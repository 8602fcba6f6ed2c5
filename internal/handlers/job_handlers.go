package handlers

import (
	"net/http"

	"vendortrack/internal/common"
	"vendortrack/internal/services"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes manual triggers for background jobs
type JobHandlers struct {
	reminderService services.ReminderService
}

// NewJobHandlers creates a new job handlers instance
func NewJobHandlers(reminderService services.ReminderService) *JobHandlers {
	return &JobHandlers{reminderService: reminderService}
}

// RunSweeps handles a manual reminder sweep run. Reruns for the same day
// are safe; already-sent reminders are skipped.
// @Summary Run the reminder sweeps now
// @Tags jobs
// @Produce json
// @Param as_of query string false "Sweep date (YYYY-MM-DD)"
// @Success 200 {object} models.SweepResult
// @Router /v1/jobs/sweeps/run [post]
func (h *JobHandlers) RunSweeps(c echo.Context) error {
	asOf, err := asOfParam(c)
	if err != nil {
		return common.SendValidationError(c, "as_of", err.Error())
	}

	result, err := h.reminderService.RunSweeps(c.Request().Context(), asOf)
	if err != nil {
		return writeServiceError(c, err, "sweep")
	}

	return c.JSON(http.StatusOK, result)
}
