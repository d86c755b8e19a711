package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/middleware"
	"github.com/dafibh/billkeeper/billkeeper-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReminderSource lists the reminders due for a profile on a given day
type ReminderSource interface {
	DueReminders(profileID int32, today time.Time) ([]domain.Reminder, error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	profiles       middleware.ProfileProvider
	reminders      ReminderSource
	now            func() time.Time
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
// reminders may be nil, in which case session.ready carries no reminders.
func NewWebSocketHandler(hub *websocket.Hub, profiles middleware.ProfileProvider, reminders ReminderSource, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		profiles:       profiles,
		reminders:      reminders,
		now:            time.Now,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws?profileId=
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.QueryParam("profileId")
	if raw == "" {
		log.Debug().Msg("WebSocket connection rejected: missing profileId")
		return echo.NewHTTPError(http.StatusBadRequest, "missing profileId")
	}

	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profileId")
	}
	profileID := int32(id)

	if _, err := h.profiles.GetProfile(profileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		log.Error().Err(err).Int32("profile_id", profileID).Msg("WebSocket profile lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "profile lookup failed")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, profileID, h.hub)
	client.OnResync(func() { h.greet(client, profileID) })
	h.hub.Register(client)

	log.Info().
		Int32("profile_id", profileID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	h.greet(client, profileID)

	go client.WritePump()
	go client.ReadPump()

	return nil
}

// greet queues the session.ready event before the pumps start
func (h *WebSocketHandler) greet(client websocket.ClientInterface, profileID int32) {
	due := []ReminderResponse{}
	if h.reminders != nil {
		reminders, err := h.reminders.DueReminders(profileID, h.now())
		if err != nil {
			log.Warn().Err(err).Int32("profile_id", profileID).Msg("Failed to load reminders for session")
		}
		for _, r := range reminders {
			due = append(due, toReminderResponse(r))
		}
	}

	event := websocket.SessionReady(websocket.SessionReadyPayload{
		ProfileID: profileID,
		ClientID:  client.ID(),
		Reminders: due,
	})
	if err := websocket.SendEvent(client, event); err != nil {
		log.Warn().Err(err).Str("client_id", client.ID()).Msg("Failed to send session.ready")
	}
}
