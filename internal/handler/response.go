package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://billkeeper.app/errors/validation"
	ErrorTypeNotFound   = "https://billkeeper.app/errors/not-found"
	ErrorTypeConflict   = "https://billkeeper.app/errors/conflict"
	ErrorTypeInternal   = "https://billkeeper.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// handleServiceError maps domain errors onto problem responses. Anything
// unrecognised is logged and reported as a 500.
func handleServiceError(c echo.Context, err error, profileID int32, operation string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		return NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return NewValidationError(c, err.Error(), fieldErrors(err))
	}

	log.Error().Err(err).Int32("profile_id", profileID).Str("operation", operation).Msg("Request failed")
	return NewInternalError(c, "Failed to "+operation)
}

// fieldErrors points validation failures at the offending request field
func fieldErrors(err error) []ValidationError {
	fields := []struct {
		target error
		field  string
	}{
		{domain.ErrNameRequired, "name"},
		{domain.ErrNameTooLong, "name"},
		{domain.ErrNotesTooLong, "notes"},
		{domain.ErrInvalidAmount, "amount"},
		{domain.ErrInvalidDate, "dueDate"},
		{domain.ErrInvalidFrequency, "frequency"},
		{domain.ErrInvalidReminderDays, "reminderDays"},
		{domain.ErrInvalidCredit, "credit"},
	}
	for _, f := range fields {
		if errors.Is(err, f.target) {
			return []ValidationError{{Field: f.field, Message: f.target.Error()}}
		}
	}
	return nil
}

// paramError describes an invalid path or query parameter
type paramError struct {
	Field   string
	Message string
}

func (e *paramError) Error() string {
	return e.Field + ": " + e.Message
}

// invalidParam renders a paramError as a validation problem
func invalidParam(c echo.Context, err error) error {
	var pe *paramError
	if errors.As(err, &pe) {
		return NewValidationError(c, "Invalid "+pe.Field, []ValidationError{{Field: pe.Field, Message: pe.Message}})
	}
	return NewValidationError(c, err.Error(), nil)
}

func parseID(c echo.Context, param string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 32)
	if err != nil || id <= 0 {
		return 0, &paramError{Field: param, Message: "Must be a positive integer"}
	}
	return int32(id), nil
}

func parseYear(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < domain.MinYear || year > domain.MaxYear {
		return 0, &paramError{Field: "year", Message: "Year must be between 2000 and 2100"}
	}
	return year, nil
}

func parseYearMonth(c echo.Context) (int, int, error) {
	year, err := parseYear(c)
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, &paramError{Field: "month", Message: "Month must be between 1 and 12"}
	}
	return year, month, nil
}

func parseDateParam(field, value string) (time.Time, error) {
	t, err := util.ParseDate(value)
	if err != nil {
		return time.Time{}, &paramError{Field: field, Message: "Must be in YYYY-MM-DD format"}
	}
	return t, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &paramError{Field: field, Message: "Must be a valid decimal number"}
	}
	return d, nil
}
