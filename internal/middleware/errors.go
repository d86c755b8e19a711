package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error types
const (
	errorTypeProfile   = "https://billkeeper.app/errors/profile"
	errorTypeRateLimit = "https://billkeeper.app/errors/rate-limit"
)

func problem(c echo.Context, status int, title, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     errorTypeProfile,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func badRequestError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadRequest, "Bad Request", detail)
}

func profileNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, "Profile Not Found", detail)
}
