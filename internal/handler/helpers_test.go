package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// newContext builds an echo context for a JSON request
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// setProfile stores the active profile the way ProfileMiddleware does
func setProfile(c echo.Context, profileID int32) {
	ctx := context.WithValue(c.Request().Context(), middleware.ProfileIDKey, profileID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func setParams(c echo.Context, pairs ...string) {
	var names, values []string
	for i := 0; i+1 < len(pairs); i += 2 {
		names = append(names, pairs[i])
		values = append(values, pairs[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}
