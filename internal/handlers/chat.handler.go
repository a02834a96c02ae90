package handlers

import (
	"time"

	"showroom/internal/app"
	chatController "showroom/internal/controllers/chat"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Handler
	controller chatController.ChatControllerInterface
}

func NewChatHandler(app app.App, router fiber.Router) *ChatHandler {
	return &ChatHandler{
		controller: app.Controllers.Chat,
		Handler:    newHandler(app, router, "chat_handler"),
	}
}

func (h *ChatHandler) Register() {
	chat := h.router.Group("/chat", h.middleware.RequireAuth())
	chat.Post("/messages", h.sendMessage)
	chat.Get("/conversations", h.listConversations)
	chat.Get("/conversations/:peerId", h.getConversation)
}

func (h *ChatHandler) sendMessage(c *fiber.Ctx) error {
	log := h.log.Function("sendMessage")

	var req chatController.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := h.controller.Send(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (h *ChatHandler) listConversations(c *fiber.Ctx) error {
	log := h.log.Function("listConversations")

	conversations, err := h.controller.Conversations(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

// getConversation accepts an optional RFC 3339 since cursor for polling.
func (h *ChatHandler) getConversation(c *fiber.Ctx) error {
	log := h.log.Function("getConversation")

	peerID, err := parseID(c, "peerId")
	if err != nil {
		return respondError(c, log, err)
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "since must be an RFC 3339 timestamp")
		}
		since = &parsed
	}

	messages, err := h.controller.Conversation(c.UserContext(), middleware.GetUser(c), peerID, since)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}
