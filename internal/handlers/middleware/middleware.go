package middleware

import (
	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/repositories"
	"showroom/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	tokens   services.TokenValidator
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	tokens services.TokenValidator,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		tokens:   tokens,
		Config:   config,
		log:      log,
	}
}
