package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Persistence backends selectable with STORE.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	// Store selects the persistence backend: "mongo" (with Redis) or
	// "memory" for local runs.
	Store string `env:"STORE, default=mongo"`
	// SeedAreas preloads area names into the memory store.
	SeedAreas []string `env:"SEED_AREAS"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=komunidad"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,   default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,     default=0"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL, default=168h"`
}

// LoginConfig throttles failed sign-ins per email.
type LoginConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIURL   string        `env:"KOMUNIDAD_API_URL, default=http://localhost:8080"`
	Timeout  time.Duration `env:"KOMUNIDAD_TIMEOUT, default=10s"`
	LogLevel string        `env:"LOG_LEVEL,         default=warn"`
}

// Load reads the server configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the server configuration through l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" && cfg.Env != "development" {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.Store != StoreMongo && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("config: unknown STORE %q", cfg.Store)
	}
	return &cfg, nil
}

// LoadClient reads the client configuration from environment variables.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return LoadClientWith(ctx, envconfig.OsLookuper())
}

func LoadClientWith(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
