package handlers

import (
	"showroom/internal/app"
	roomController "showroom/internal/controllers/rooms"
	"showroom/internal/handlers/middleware"
	"showroom/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

type RoomHandler struct {
	Handler
	controller roomController.RoomControllerInterface
}

func NewRoomHandler(app app.App, router fiber.Router) *RoomHandler {
	return &RoomHandler{
		controller: app.Controllers.Room,
		Handler:    newHandler(app, router, "room_handler"),
	}
}

func (h *RoomHandler) Register() {
	rooms := h.router.Group("/rooms")
	staff := []fiber.Handler{h.middleware.RequireAuth(), h.middleware.RequireStaff()}

	rooms.Get("/", h.listRooms)
	rooms.Get("/:id", h.getRoom)
	rooms.Get("/:id/videos", h.getVideos)
	rooms.Post("/", append(staff, h.createRoom)...)
	rooms.Put("/:id", append(staff, h.updateRoom)...)
	rooms.Delete("/:id", append(staff, h.deleteRoom)...)
}

func (h *RoomHandler) listRooms(c *fiber.Ctx) error {
	log := h.log.Function("listRooms")

	params := pagination.GetParams(c)

	rooms, total, err := h.controller.List(c.UserContext(), pageOf(params))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(pagination.NewResponse(rooms, params, total))
}

func (h *RoomHandler) getRoom(c *fiber.Ctx) error {
	log := h.log.Function("getRoom")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	room, err := h.controller.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"room": room})
}

func (h *RoomHandler) getVideos(c *fiber.Ctx) error {
	log := h.log.Function("getVideos")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	videos, err := h.controller.Videos(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"videos": videos})
}

func (h *RoomHandler) createRoom(c *fiber.Ctx) error {
	log := h.log.Function("createRoom")

	var req roomController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	room, err := h.controller.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"room": room})
}

func (h *RoomHandler) updateRoom(c *fiber.Ctx) error {
	log := h.log.Function("updateRoom")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req roomController.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	room, err := h.controller.Update(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"room": room})
}

func (h *RoomHandler) deleteRoom(c *fiber.Ctx) error {
	log := h.log.Function("deleteRoom")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.controller.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
