// Package config loads application configuration from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr   string `env:"ADDR" env-default:":3030"`
	WebDir string `env:"WEB_DIR" env-default:"web"`
	LogDir string `env:"LOG_DIR" env-default:"logs"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	MongoURI string `env:"MONGO_URI" env-required:"true"`
	MongoDB  string `env:"MONGO_DB" env-default:"sample_mflix"`

	// RedisAddr selects the session store: empty means in-memory.
	RedisAddr     string `env:"REDIS_ADDR" env-default:""`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"15m"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}
