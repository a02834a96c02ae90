package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion            string `mapstructure:"GENERAL_VERSION"`
	Environment               string `mapstructure:"ENVIRONMENT"`
	ServerPort                int    `mapstructure:"SERVER_PORT"`
	DatabaseHost              string `mapstructure:"DB_HOST"`
	DatabasePort              int    `mapstructure:"DB_PORT"`
	DatabaseName              string `mapstructure:"DB_NAME"`
	DatabaseUser              string `mapstructure:"DB_USER"`
	DatabasePassword          string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress      string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort         int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset        int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins          string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret                 string `mapstructure:"JWT_SECRET"`
	JWTTTLMinutes             int    `mapstructure:"JWT_TTL_MINUTES"`
	EnforceStatusTransitions  bool   `mapstructure:"ENFORCE_STATUS_TRANSITIONS"`
	AMQPURL                   string `mapstructure:"AMQP_URL"`
	MailQueue                 string `mapstructure:"MAIL_QUEUE"`
	MailFrom                  string `mapstructure:"MAIL_FROM"`
	AppBaseURL                string `mapstructure:"APP_BASE_URL"`
	UploadDir                 string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL             string `mapstructure:"PUBLIC_BASE_URL"`
	YouTubeAPIKey             string `mapstructure:"YOUTUBE_API_KEY"`
	YouTubeAPIURL             string `mapstructure:"YOUTUBE_API_URL"`
	VideoCacheTTLMinutes      int    `mapstructure:"VIDEO_CACHE_TTL_MINUTES"`
	SchedulerEnabled          bool   `mapstructure:"SCHEDULER_ENABLED"`
	NotificationRetentionDays int    `mapstructure:"NOTIFICATION_RETENTION_DAYS"`
	SuperadminEmail           string `mapstructure:"SUPERADMIN_EMAIL"`
	SuperadminPassword        string `mapstructure:"SUPERADMIN_PASSWORD"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_TTL_MINUTES", "ENFORCE_STATUS_TRANSITIONS",
	"AMQP_URL", "MAIL_QUEUE", "MAIL_FROM", "APP_BASE_URL",
	"UPLOAD_DIR", "PUBLIC_BASE_URL",
	"YOUTUBE_API_KEY", "YOUTUBE_API_URL", "VIDEO_CACHE_TTL_MINUTES",
	"SCHEDULER_ENABLED", "NOTIFICATION_RETENTION_DAYS",
	"SUPERADMIN_EMAIL", "SUPERADMIN_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("JWT_TTL_MINUTES", 24*60)
	v.SetDefault("ENFORCE_STATUS_TRANSITIONS", true)
	v.SetDefault("MAIL_QUEUE", "mail.outbound")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3/search")
	v.SetDefault("VIDEO_CACHE_TTL_MINUTES", 60)
	v.SetDefault("NOTIFICATION_RETENTION_DAYS", 90)
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"enforceStatusTransitions", config.EnforceStatusTransitions,
	)
	return config, nil
}

// validateConfig only fails on settings the process cannot start without.
// Missing secrets surface as configuration errors on the endpoints that need them.
func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTTTLMinutes <= 0 {
		return log.Error(
			"Fatal error: invalid JWT ttl",
			"minutes", config.JWTTTLMinutes,
		)
	}

	if config.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, login and authenticated routes will fail")
	}

	if config.AMQPURL == "" {
		log.Warn("AMQP_URL is not set, password reset mail is disabled")
	}

	return nil
}
