package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig carries the signing secrets and lockout policy. Loaded once
// at startup and passed to constructors; nothing reads it ambiently.
type AuthConfig struct {
	AdminSecret  string `env:"JWT_ADMIN_SECRET"`
	DeviceSecret string `env:"JWT_DEVICE_SECRET"`
	ClientSecret string `env:"JWT_CLIENT_SECRET"`

	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	// LockoutThreshold is the number of consecutive failed logins that
	// locks an account. LockoutDuration is how long the lock holds
	// before it self-heals; 0 locks until operator intervention.
	LockoutThreshold int           `env:"LOCKOUT_THRESHOLD, default=5"`
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION,  default=15m"`

	// PolicyCacheTTL bounds how stale the role→route table may be.
	PolicyCacheTTL time.Duration `env:"POLICY_CACHE_TTL, default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
