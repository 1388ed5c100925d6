package server

import (
	"log/slog"

	"ideahub/internal/featureflags"
	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler upgrades GET /api/ws and streams idea events to the caller.
// @Summary Realtime events
// @Description Upgrade to a websocket using ?ticket= from POST /ws/ticket
// @Tags realtime
// @Param ticket query string true "Single-use ticket"
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket rejected",
				slog.Any("user_id", userID), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			_ = conn.Close()
			return
		}

		middleware.ActiveWebSockets.Inc()
		defer func() {
			middleware.ActiveWebSockets.Dec()
			s.hub.UnregisterClient(client)
		}()

		if hello, err := notifications.EncodeEvent("connected", map[string]any{"user_id": userID}); err == nil {
			client.TrySend([]byte(hello))
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		id, err := currentIdentity(c)
		if err != nil {
			return nil
		}
		if !s.featureFlags.Enabled(featureflags.LiveEvents, id.UserID) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Live events are not enabled for this account"))
		}
		return upgrade(c)
	}
}
