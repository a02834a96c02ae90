package handlers

import (
	"showroom/internal/app"
	"showroom/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		middleware: app.Middleware,
		log:        logger.New("handlers").File(file),
		router:     router,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	WebSocketHandler(router, app.Websocket)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewRoomHandler(*app, api).Register()
	NewCarHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewPaymentHandler(*app, api).Register()
	NewUploadHandler(*app, api).Register()
	NewNotificationHandler(*app, api).Register()
	NewChatHandler(*app, api).Register()
	NewDashboardHandler(*app, api).Register()

	return nil
}
