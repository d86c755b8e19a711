package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TemplateHandler handles template HTTP requests
type TemplateHandler struct {
	templateService *service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// SaveTemplateRequest names the snapshot of the profile's current bills
type SaveTemplateRequest struct {
	Name string `json:"name"`
}

type TemplateBillResponse struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Frequency    string `json:"frequency"`
	Category     string `json:"category"`
	Notes        string `json:"notes"`
	ReminderDays int32  `json:"reminderDays"`
	DayOfMonth   int    `json:"dayOfMonth"`
	IsCredit     bool   `json:"isCredit"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID          int32                  `json:"id"`
	ProfileID   int32                  `json:"profileId"`
	Name        string                 `json:"name"`
	Bills       []TemplateBillResponse `json:"bills"`
	CreatedDate string                 `json:"createdDate"`
}

// ApplyMonthResponse lists the bills created in one month
type ApplyMonthResponse struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Added   int     `json:"added"`
	BillIDs []int32 `json:"billIds"`
}

// ApplyYearResponse reports the per-month results of a year application
type ApplyYearResponse struct {
	Year   int                       `json:"year"`
	Added  int                       `json:"added"`
	Months []domain.MonthApplyResult `json:"months"`
}

// SaveTemplate handles POST /api/v1/templates
func (h *TemplateHandler) SaveTemplate(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	var req SaveTemplateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	template, err := h.templateService.SaveTemplate(profileID, req.Name)
	if err != nil {
		return handleServiceError(c, err, profileID, "save template")
	}

	log.Info().Int32("profile_id", profileID).Int32("template_id", template.ID).Int("bills", len(template.Bills)).Msg("Template saved")
	return c.JSON(http.StatusCreated, toTemplateResponse(template))
}

// ListTemplates handles GET /api/v1/templates
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	templates, err := h.templateService.ListTemplates(profileID)
	if err != nil {
		return handleServiceError(c, err, profileID, "list templates")
	}

	resp := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		resp[i] = toTemplateResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTemplate handles GET /api/v1/templates/:id
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	template, err := h.templateService.GetTemplate(profileID, id)
	if err != nil {
		return handleServiceError(c, err, profileID, "get template")
	}
	return c.JSON(http.StatusOK, toTemplateResponse(template))
}

// DeleteTemplate handles DELETE /api/v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	if err := h.templateService.DeleteTemplate(profileID, id); err != nil {
		return handleServiceError(c, err, profileID, "delete template")
	}
	return c.NoContent(http.StatusNoContent)
}

// ApplyToMonth handles POST /api/v1/templates/:id/apply/:year/:month
func (h *TemplateHandler) ApplyToMonth(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return invalidParam(c, err)
	}

	ids, err := h.templateService.ApplyTemplateToMonth(profileID, id, year, month)
	if err != nil {
		return handleServiceError(c, err, profileID, "apply template")
	}

	log.Info().
		Int32("profile_id", profileID).
		Int32("template_id", id).
		Int("year", year).
		Int("month", month).
		Int("added", len(ids)).
		Msg("Template applied to month")

	if ids == nil {
		ids = []int32{}
	}
	return c.JSON(http.StatusOK, ApplyMonthResponse{Year: year, Month: month, Added: len(ids), BillIDs: ids})
}

// ApplyToYear handles POST /api/v1/templates/:id/apply/:year
func (h *TemplateHandler) ApplyToYear(c echo.Context) error {
	profileID := middleware.GetProfileID(c)

	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}
	year, err := parseYear(c)
	if err != nil {
		return invalidParam(c, err)
	}

	results, err := h.templateService.ApplyTemplateToYear(profileID, id, year)
	if err != nil {
		return handleServiceError(c, err, profileID, "apply template")
	}

	total := 0
	for _, r := range results {
		total += r.Added
	}

	log.Info().Int32("profile_id", profileID).Int32("template_id", id).Int("year", year).Int("added", total).Msg("Template applied to year")
	return c.JSON(http.StatusOK, ApplyYearResponse{Year: year, Added: total, Months: results})
}

func toTemplateResponse(t *domain.Template) TemplateResponse {
	bills := make([]TemplateBillResponse, len(t.Bills))
	for i, b := range t.Bills {
		bills[i] = TemplateBillResponse{
			Name:         b.Name,
			Amount:       b.Amount.StringFixed(2),
			Frequency:    string(b.Frequency),
			Category:     b.Category,
			Notes:        b.Notes,
			ReminderDays: b.ReminderDays,
			DayOfMonth:   b.DayOfMonth,
			IsCredit:     b.IsCredit,
		}
	}
	return TemplateResponse{
		ID:          t.ID,
		ProfileID:   t.ProfileID,
		Name:        t.Name,
		Bills:       bills,
		CreatedDate: t.CreatedDate.Format(time.RFC3339),
	}
}
