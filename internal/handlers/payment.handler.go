package handlers

import (
	"showroom/internal/app"
	paymentController "showroom/internal/controllers/payments"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	Handler
	controller paymentController.PaymentControllerInterface
}

func NewPaymentHandler(app app.App, router fiber.Router) *PaymentHandler {
	return &PaymentHandler{
		controller: app.Controllers.Payment,
		Handler:    newHandler(app, router, "payment_handler"),
	}
}

func (h *PaymentHandler) Register() {
	auth := h.middleware.RequireAuth()
	staff := h.middleware.RequireStaff()

	h.router.Post("/payments", auth, h.submitPayment)
	h.router.Get("/payments/mine", auth, h.listMine)
	h.router.Get("/payments/:id", auth, h.getPayment)

	h.router.Get("/admin/payments", auth, staff, h.listForAdmin)
	h.router.Put("/admin/payments/:id/approve", auth, staff, h.approvePayment)
	h.router.Put("/admin/payments/:id/reject", auth, staff, h.rejectPayment)
}

func (h *PaymentHandler) submitPayment(c *fiber.Ctx) error {
	log := h.log.Function("submitPayment")

	var req paymentController.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	payment, err := h.controller.Submit(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) listMine(c *fiber.Ctx) error {
	log := h.log.Function("listMine")

	payments, err := h.controller.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}

func (h *PaymentHandler) getPayment(c *fiber.Ctx) error {
	log := h.log.Function("getPayment")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	detail, err := h.controller.Get(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"payment": detail})
}

func (h *PaymentHandler) listForAdmin(c *fiber.Ctx) error {
	log := h.log.Function("listForAdmin")

	payments, err := h.controller.ListForAdmin(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}

func (h *PaymentHandler) approvePayment(c *fiber.Ctx) error {
	log := h.log.Function("approvePayment")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req paymentController.ApprovePaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	payment, err := h.controller.Approve(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}

func (h *PaymentHandler) rejectPayment(c *fiber.Ctx) error {
	log := h.log.Function("rejectPayment")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req paymentController.RejectPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	payment, err := h.controller.Reject(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}
