package websockets

import (
	"context"
	"errors"
	"time"

	"showroom/internal/events"
	"showroom/internal/types"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// startAuthTimeout drops the client if no valid auth_response arrives in time.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.Manager.statusOf(c) != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", AUTH_HANDSHAKE_TIMEOUT)

		c.sendAuthFailure("Authentication timeout")
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Manager.statusOf(c) != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	claims, err := c.Manager.tokens.Validate(token)
	if errors.Is(err, types.ErrConfiguration) {
		log.Er("WebSocket token validator not configured", err, "clientID", c.ID)
		c.sendAuthFailure("server configuration error")
		return
	}
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.users.GetByID(context.Background(), c.Manager.db, userID)
	if err != nil || !user.IsActive {
		log.Info("WebSocket user rejected", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("User not found")
		return
	}

	c.Manager.promoteClientToAuthenticated(c, user.ID)

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      string(events.AUTH_SUCCESS),
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticated",
		UserID:    user.ID.String(),
		Data:      map[string]any{"userId": user.ID.String(), "role": user.Role},
		Timestamp: time.Now(),
	})
}

// sendAuthFailure queues the failure frame and closes the connection shortly after.
func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      string(events.AUTH_FAILURE),
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	})

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	if c.Connection == nil {
		return
	}
	time.AfterFunc(100*time.Millisecond, func() {
		_ = c.Connection.Close()
	})
}

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      string(events.AUTH_REQUEST),
		Channel:   SYSTEM_CHANNEL,
		Action:    "authenticate",
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	log := c.Manager.log.Function("handleUnauthenticatedMessage")

	log.Warn("Blocking message from unauthenticated client", "clientID", c.ID, "messageType", message.Type)

	c.enqueue(Message{
		ID:        uuid.New().String(),
		Type:      string(events.AUTH_FAILURE),
		Channel:   SYSTEM_CHANNEL,
		Action:    "authentication_required",
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	})
}
