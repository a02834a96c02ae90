package handlers

import (
	"showroom/internal/app"
	uploadController "showroom/internal/controllers/uploads"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Handler
	controller uploadController.UploadControllerInterface
}

func NewUploadHandler(app app.App, router fiber.Router) *UploadHandler {
	return &UploadHandler{
		controller: app.Controllers.Upload,
		Handler:    newHandler(app, router, "upload_handler"),
	}
}

func (h *UploadHandler) Register() {
	auth := h.middleware.RequireAuth()
	staff := h.middleware.RequireStaff()

	h.router.Post("/admin/scanner", auth, staff, h.uploadScanner)
	h.router.Post("/upload", auth, h.upload)
	h.router.Post("/upload-car-images", auth, staff, h.uploadCarImages)
}

// uploadScanner expects multipart fields image and target; target is "general" or a payment id.
func (h *UploadHandler) uploadScanner(c *fiber.Ctx) error {
	log := h.log.Function("uploadScanner")

	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	target := c.FormValue("target", uploadController.SCANNER_TARGET_GENERAL)

	result, err := h.controller.Scanner(c.UserContext(), middleware.GetUser(c), target, file)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *UploadHandler) upload(c *fiber.Ctx) error {
	log := h.log.Function("upload")

	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	url, err := h.controller.Upload(c.UserContext(), middleware.GetUser(c), file)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

func (h *UploadHandler) uploadCarImages(c *fiber.Ctx) error {
	log := h.log.Function("uploadCarImages")

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form is required")
	}

	urls, err := h.controller.UploadCarImages(c.UserContext(), middleware.GetUser(c), form.File["images"])
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"urls": urls})
}
