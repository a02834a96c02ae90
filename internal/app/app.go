package app

import (
	"context"

	"showroom/config"
	"showroom/internal/controllers"
	"showroom/internal/database"
	"showroom/internal/events"
	"showroom/internal/handlers/middleware"
	"showroom/internal/jobs"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Build(config, db)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	if err := app.Services.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	return app, nil
}

// Build wires every layer on top of an opened database. Nil caches degrade to in-process delivery and always-miss lookups.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events, config)
	repos := repositories.New(db)
	services := services.New(db, config, eventBus, repos)

	websocket, err := websockets.New(db.SQL, eventBus, config, services.Token, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(services.Scheduler, config, repos, db); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers.New(services, repos, eventBus, config, db),
		Middleware:  middleware.New(db, config, repos, services.Token),
		Websocket:   websocket,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	switch {
	case a.Database.SQL == nil:
		return log.ErrMsg("database is nil")
	case a.Websocket == nil:
		return log.ErrMsg("websocket manager is nil")
	case a.EventBus == nil:
		return log.ErrMsg("event bus is nil")
	case a.Services.Transaction == nil,
		a.Services.Scheduler == nil,
		a.Services.Token == nil,
		a.Services.Ownership == nil,
		a.Services.Storage == nil,
		a.Services.Notification == nil,
		a.Services.Video == nil:
		return log.ErrMsg("service is nil")
	case a.Repos.User == nil:
		return log.ErrMsg("user repository is nil")
	case a.Controllers.Auth == nil,
		a.Controllers.Booking == nil,
		a.Controllers.Payment == nil:
		return log.ErrMsg("controller is nil")
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if closeErr := a.Services.Close(); closeErr != nil {
		err = closeErr
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
