package services

import (
	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/events"
	"showroom/internal/repositories"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Token        *TokenService
	Ownership    *OwnershipService
	Mail         *MailService
	Storage      *StorageService
	Notification *NotificationService
	Video        *VideoService
}

func New(
	db database.DB,
	config config.Config,
	eventBus *events.EventBus,
	repos repositories.Repository,
) Service {
	var publisher events.Publisher
	if eventBus != nil {
		publisher = eventBus
	}

	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
		Token:       NewTokenService(config),
		Ownership: NewOwnershipService(
			db.SQL,
			repos.Room,
			repos.Car,
			repos.Booking,
			repos.Payment,
		),
		Mail:         NewMailService(config),
		Storage:      NewStorageService(config),
		Notification: NewNotificationService(db.SQL, repos.Notification, publisher),
		Video:        NewVideoService(config, NewValkeyVideoCache(db.Cache.ClientAPI)),
	}
}

func (s Service) Close() error {
	if s.Mail != nil {
		return s.Mail.Close()
	}
	return nil
}
