package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ReminderHandler exposes the bills that currently need attention
type ReminderHandler struct {
	reminderService *service.ReminderService
	now             func() time.Time
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, now: time.Now}
}

type ReminderResponse struct {
	BillID       int32  `json:"billId"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	DueDate      string `json:"dueDate"`
	Kind         string `json:"kind"`
	DaysUntilDue int    `json:"daysUntilDue"`
}

// GetReminders handles GET /api/v1/reminders, optionally evaluated at ?date=
func (h *ReminderHandler) GetReminders(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	today := h.now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := parseDateParam("date", raw)
		if err != nil {
			return invalidParam(c, err)
		}
		today = parsed
	}

	reminders, err := h.reminderService.DueReminders(profileID, today)
	if err != nil {
		return handleServiceError(c, err, profileID, "get reminders")
	}

	resp := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		resp[i] = toReminderResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

func toReminderResponse(r domain.Reminder) ReminderResponse {
	return ReminderResponse{
		BillID:       r.BillID,
		Name:         r.Name,
		Amount:       r.Amount.StringFixed(2),
		DueDate:      r.DueDate,
		Kind:         string(r.Kind),
		DaysUntilDue: r.DaysUntilDue,
	}
}
