package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// JWTConfig holds the shared token trust material. Both services load
// the same key so either side can verify assertions issued by the auth
// service.
type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
	// Issuer is the auth service's identity, stamped into every token.
	Issuer string `env:"JWT_ISSUER,   default=hcm-auth-api"`
	// Audience is the service identity tokens are issued for. The
	// verifier accepts a token when any of its audiences matches the
	// local audience or the issuer itself.
	Audience      string `env:"JWT_AUDIENCE, default=hcm-people-api"`
	ExpiryMinutes int    `env:"JWT_EXPIRY_MINUTES, default=60"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hcm"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// PeopleConfig configures the people service.
type PeopleConfig struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthAPIURL is the base URL of the auth service for companion
	// credential calls.
	AuthAPIURL string `env:"AUTH_API_URL, default=http://localhost:8081"`

	// BestEffortCreate keeps a staged person record when its companion
	// credential creation fails, instead of removing it.
	BestEffortCreate bool `env:"BEST_EFFORT_CREATE, default=false"`

	JWT   JWTConfig
	Mongo MongoConfig
}

// AuthConfig configures the auth service.
type AuthConfig struct {
	Port     string `env:"PORT,      default=8081"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// LoadPeople reads the people service configuration from environment
// variables using go-envconfig.
func LoadPeople(ctx context.Context) (*PeopleConfig, error) {
	var cfg PeopleConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadAuth reads the auth service configuration from environment
// variables using go-envconfig.
func LoadAuth(ctx context.Context) (*AuthConfig, error) {
	var cfg AuthConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
