package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile HTTP requests. These routes are not
// scoped to an active profile.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest carries a profile name for create and rename
type ProfileRequest struct {
	Name string `json:"name"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID          int32                `json:"id"`
	Name        string               `json:"name"`
	CreatedDate string               `json:"createdDate"`
	Stats       *domain.ProfileStats `json:"stats,omitempty"`
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.profileService.ListProfiles()
	if err != nil {
		return handleServiceError(c, err, 0, "list profiles")
	}

	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		stats := p.Stats
		resp[i] = toProfileResponse(&p.Profile)
		resp[i].Stats = &stats
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateProfile handles POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.CreateProfile(req.Name)
	if err != nil {
		return handleServiceError(c, err, 0, "create profile")
	}

	log.Info().Int32("profile_id", profile.ID).Str("name", profile.Name).Msg("Profile created")
	return c.JSON(http.StatusCreated, toProfileResponse(profile))
}

// RenameProfile handles PUT /api/v1/profiles/:id
func (h *ProfileHandler) RenameProfile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.RenameProfile(id, req.Name)
	if err != nil {
		return handleServiceError(c, err, id, "rename profile")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// DeleteProfile handles DELETE /api/v1/profiles/:id
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidParam(c, err)
	}

	if err := h.profileService.DeleteProfile(id); err != nil {
		return handleServiceError(c, err, id, "delete profile")
	}

	log.Info().Int32("profile_id", id).Msg("Profile deleted")
	return c.NoContent(http.StatusNoContent)
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		CreatedDate: p.CreatedDate.Format(time.RFC3339),
	}
}
