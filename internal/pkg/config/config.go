package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the externally reachable address, used to build the
	// decision links embedded in admin emails.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	// TrustedAdminDomain is the corporate email domain whose addresses
	// are granted the admin role at registration.
	TrustedAdminDomain string `env:"TRUSTED_ADMIN_DOMAIN, default=fleetgate.example"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig

	// DecisionLinkTTLHours bounds how long an emailed approve/reject link
	// stays usable.
	DecisionLinkTTLHours int `env:"DECISION_LINK_TTL_HOURS, default=72"`
}

type JWTConfig struct {
	Secret      string `env:"JWT_SECRET"`
	Issuer      string `env:"JWT_ISSUER,   default=reservation-api"`
	Audience    string `env:"JWT_AUDIENCE, default=reservation-clients"`
	ExpiryHours int    `env:"JWT_EXPIRY_HOURS, default=8"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fleet_reservation"`
	// TimeoutSeconds bounds the initial dial and ping.
	TimeoutSeconds int `env:"MONGO_TIMEOUT_SECONDS, default=10"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// TimeoutSeconds bounds the connection ping.
	TimeoutSeconds int `env:"REDIS_TIMEOUT_SECONDS, default=5"`
}

type SMTPConfig struct {
	Host        string `env:"SMTP_HOST, default=localhost"`
	Port        int    `env:"SMTP_PORT, default=587"`
	Username    string `env:"SMTP_USER"`
	Password    string `env:"SMTP_PASS"`
	SenderEmail string `env:"SMTP_SENDER_EMAIL, default=noreply@fleetgate.example"`
	SenderName  string `env:"SMTP_SENDER_NAME,  default=Fleet Reservations"`
	Workers     int    `env:"SMTP_WORKERS, default=4"`
}

type RateLimitConfig struct {
	// RPS is the sustained per-client request rate on the auth endpoints.
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=10"`
	Burst int     `env:"RATE_LIMIT_BURST, default=30"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
