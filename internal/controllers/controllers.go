package controllers

import (
	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/events"
	"showroom/internal/repositories"
	"showroom/internal/services"

	authController "showroom/internal/controllers/auth"
	bookingController "showroom/internal/controllers/bookings"
	carController "showroom/internal/controllers/cars"
	chatController "showroom/internal/controllers/chat"
	dashboardController "showroom/internal/controllers/dashboard"
	notificationController "showroom/internal/controllers/notifications"
	paymentController "showroom/internal/controllers/payments"
	roomController "showroom/internal/controllers/rooms"
	uploadController "showroom/internal/controllers/uploads"
	userController "showroom/internal/controllers/users"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	User         userController.UserControllerInterface
	Room         roomController.RoomControllerInterface
	Car          carController.CarControllerInterface
	Booking      bookingController.BookingControllerInterface
	Payment      paymentController.PaymentControllerInterface
	Upload       uploadController.UploadControllerInterface
	Notification notificationController.NotificationControllerInterface
	Chat         chatController.ChatControllerInterface
	Dashboard    dashboardController.DashboardControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:         authController.New(repos, services, config, db),
		User:         userController.New(repos, services, eventBus, config, db),
		Room:         roomController.New(repos, services, config, db),
		Car:          carController.New(repos, services, config, db),
		Booking:      bookingController.New(repos, services, config, db),
		Payment:      paymentController.New(repos, services, config, db),
		Upload:       uploadController.New(repos, services, config, db),
		Notification: notificationController.New(repos, services, config, db),
		Chat:         chatController.New(repos, services, eventBus, config, db),
		Dashboard:    dashboardController.New(repos, services, config, db),
	}
}
