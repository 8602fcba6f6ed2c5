package handlers

import (
	"net/http"

	"vendortrack/internal/common"
	"vendortrack/internal/services"

	"github.com/labstack/echo/v4"
)

// ReminderHandlers handles reminder log HTTP requests
type ReminderHandlers struct {
	reminderService services.ReminderService
}

// NewReminderHandlers creates a new reminder handlers instance
func NewReminderHandlers(reminderService services.ReminderService) *ReminderHandlers {
	return &ReminderHandlers{reminderService: reminderService}
}

// ListRemindersRequest represents query parameters for the reminder log
type ListRemindersRequest struct {
	ServiceID string `query:"service_id"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// ListReminders handles listing the reminder log
// @Summary List sent and pending reminders
// @Tags reminders
// @Produce json
// @Param service_id query string false "Filter by service"
// @Success 200 {array} models.ServiceReminder
// @Router /v1/reminders [get]
func (h *ReminderHandlers) ListReminders(c echo.Context) error {
	var req ListRemindersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	ctx := c.Request().Context()

	if req.ServiceID != "" {
		serviceID, err := common.ValidateUUID(req.ServiceID, "service_id")
		if err != nil {
			return common.SendValidationError(c, "service_id", err.Error())
		}
		reminders, err := h.reminderService.ListByService(ctx, serviceID)
		if err != nil {
			return writeServiceError(c, err, "reminder")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"reminders": reminders})
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	reminders, err := h.reminderService.List(ctx, limit, offset)
	if err != nil {
		return writeServiceError(c, err, "reminder")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reminders": reminders,
		"limit":     limit,
		"offset":    offset,
	})
}
