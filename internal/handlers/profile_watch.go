package handlers

import (
	"log/slog"

	"github.com/Leeseryong88/logbook/internal/config"
	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ProfileWatchHandler streams profile updates over a websocket.
// Browsers cannot set an Authorization header on the upgrade request,
// so the access token travels as a query parameter.
type ProfileWatchHandler struct {
	cfg            *config.Config
	hub            *services.ProfileHub
	profileService *services.ProfileService
}

func NewProfileWatchHandler(cfg *config.Config, hub *services.ProfileHub, profileService *services.ProfileService) *ProfileWatchHandler {
	return &ProfileWatchHandler{cfg: cfg, hub: hub, profileService: profileService}
}

// Upgrade gates the route on a valid websocket handshake and token.
func (h *ProfileWatchHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, err := h.verifyToken(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}
	c.Locals("watch_user_id", userID)
	return c.Next()
}

// Stream sends the current profile, then every published update, until
// the client disconnects. The subscription handle is released on exit.
func (h *ProfileWatchHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("watch_user_id").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}

		ch, cancel := h.hub.Subscribe(userID)
		defer cancel()

		if user, err := h.profileService.Get(userID); err == nil {
			if err := conn.WriteJSON(dto.NewProfileResponse(user)); err != nil {
				return
			}
		}

		// Reader goroutine detects disconnect; the hub channel closing
		// (logout, account deletion) also ends the stream.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case profile, open := <-ch:
				if !open {
					return
				}
				if err := conn.WriteJSON(profile); err != nil {
					slog.Info("profile watch write failed", "user_id", userID.String(), "error", err)
					return
				}
			case <-done:
				return
			}
		}
	})
}

func (h *ProfileWatchHandler) verifyToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(sub)
}
