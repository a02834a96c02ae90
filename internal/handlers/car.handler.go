package handlers

import (
	"strconv"

	"showroom/internal/app"
	carController "showroom/internal/controllers/cars"
	"showroom/internal/handlers/middleware"
	"showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/types"
	"showroom/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CarHandler struct {
	Handler
	controller carController.CarControllerInterface
}

func NewCarHandler(app app.App, router fiber.Router) *CarHandler {
	return &CarHandler{
		controller: app.Controllers.Car,
		Handler:    newHandler(app, router, "car_handler"),
	}
}

func (h *CarHandler) Register() {
	cars := h.router.Group("/cars")
	staff := []fiber.Handler{h.middleware.RequireAuth(), h.middleware.RequireStaff()}

	cars.Get("/", h.listCars)
	cars.Get("/:id", h.getCar)
	cars.Post("/", append(staff, h.createCar)...)
	cars.Put("/:id", append(staff, h.updateCar)...)
	cars.Delete("/:id", append(staff, h.deleteCar)...)
}

// carFilter reads the catalogue query string. Unknown enum values are rejected rather than ignored.
func carFilter(c *fiber.Ctx) (repositories.CarFilter, error) {
	filter := repositories.CarFilter{
		Brand:  c.Query("brand"),
		Search: c.Query("search"),
	}

	if raw := c.Query("roomId"); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			return filter, types.Validation("invalid roomId")
		}
		filter.RoomID = &roomID
	}

	if raw := c.Query("fuelType"); raw != "" {
		filter.FuelType = models.FuelType(raw)
		if !filter.FuelType.Valid() {
			return filter, types.Validation("invalid fuelType %q", raw)
		}
	}
	if raw := c.Query("transmission"); raw != "" {
		filter.Transmission = models.Transmission(raw)
		if !filter.Transmission.Valid() {
			return filter, types.Validation("invalid transmission %q", raw)
		}
	}
	if raw := c.Query("availability"); raw != "" {
		filter.Availability = models.Availability(raw)
		if !filter.Availability.Valid() {
			return filter, types.Validation("invalid availability %q", raw)
		}
	}

	for key, target := range map[string]**decimal.Decimal{
		"minPrice": &filter.MinPrice,
		"maxPrice": &filter.MaxPrice,
	} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, types.Validation("invalid %s", key)
		}
		*target = &value
	}

	for key, target := range map[string]*int{
		"minYear": &filter.MinYear,
		"maxYear": &filter.MaxYear,
	} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filter, types.Validation("invalid %s", key)
		}
		*target = value
	}

	return filter, nil
}

func (h *CarHandler) listCars(c *fiber.Ctx) error {
	log := h.log.Function("listCars")

	filter, err := carFilter(c)
	if err != nil {
		return respondError(c, log, err)
	}
	params := pagination.GetParams(c)

	cars, total, err := h.controller.List(c.UserContext(), filter, pageOf(params))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(pagination.NewResponse(cars, params, total))
}

func (h *CarHandler) getCar(c *fiber.Ctx) error {
	log := h.log.Function("getCar")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	car, err := h.controller.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"car": car})
}

func (h *CarHandler) createCar(c *fiber.Ctx) error {
	log := h.log.Function("createCar")

	var req carController.CarRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	car, err := h.controller.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"car": car})
}

func (h *CarHandler) updateCar(c *fiber.Ctx) error {
	log := h.log.Function("updateCar")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req carController.CarRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	car, err := h.controller.Update(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"car": car})
}

func (h *CarHandler) deleteCar(c *fiber.Ctx) error {
	log := h.log.Function("deleteCar")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.controller.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
