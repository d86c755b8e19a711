package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// ProfileIDKey is the context key for the active profile ID
	ProfileIDKey contextKey = "profile_id"

	// ProfileHeader selects the active profile on profile-scoped routes
	ProfileHeader = "X-Profile-ID"
)

// ProfileProvider looks up profiles by ID
type ProfileProvider interface {
	GetProfile(id int32) (*domain.Profile, error)
}

// ProfileMiddleware resolves the active profile from the X-Profile-ID header
// (or the profileId query parameter) and stores its ID in the request context.
func ProfileMiddleware(profiles ProfileProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(ProfileHeader)
			if raw == "" {
				raw = c.QueryParam("profileId")
			}
			if raw == "" {
				return badRequestError(c, "X-Profile-ID header is required")
			}

			id, err := strconv.ParseInt(raw, 10, 32)
			if err != nil || id <= 0 {
				return badRequestError(c, "X-Profile-ID must be a positive integer")
			}

			if _, err := profiles.GetProfile(int32(id)); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return profileNotFoundError(c, "Profile does not exist")
				}
				log.Error().Err(err).Int64("profile_id", id).Msg("Failed to resolve profile")
				return err
			}

			ctx := context.WithValue(c.Request().Context(), ProfileIDKey, int32(id))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetProfileID extracts the active profile ID from the request context
func GetProfileID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(ProfileIDKey).(int32); ok {
		return id
	}
	return 0
}
