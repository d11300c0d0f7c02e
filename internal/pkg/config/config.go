package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Token store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Poll    PollConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL              string        `env:"BACKEND_URL,       default=https://localhost:7199/api"`
	AssetURL         string        `env:"ASSET_URL,         default=https://localhost:7199"`
	PlaceholderImage string        `env:"PLACEHOLDER_IMAGE, default=/placeholder-image.jpg"`
	Timeout          time.Duration `env:"BACKEND_TIMEOUT,   default=15s"`
	InsecureTLS      bool          `env:"BACKEND_INSECURE_TLS, default=false"`
}

// SessionConfig tunes browser sessions. A zero TokenTTL keeps redis/mongo
// tokens until deleted, leaving expiry to the backend's own token lifetime.
type SessionConfig struct {
	CookieName    string        `env:"SESSION_COOKIE,    default=sb_session"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	BootstrapWait time.Duration `env:"BOOTSTRAP_WAIT,    default=2s"`
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL,  default=30m"`
	SweepEvery    time.Duration `env:"SESSION_SWEEP_EVERY, default=5m"`
	LoginPath     string        `env:"LOGIN_PATH,        default=/login"`
	HomePath      string        `env:"HOME_PATH,         default=/"`
	TokenStore    string        `env:"TOKEN_STORE,       default=memory"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,         default=0s"`
}

type PollConfig struct {
	Interval time.Duration `env:"UNREAD_POLL_INTERVAL, default=30s"`
	Workers  int           `env:"UNREAD_POLL_WORKERS,  default=4"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=snapboard_web"`
	Collection string `env:"MONGO_COLLECTION, default=session_tokens"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations envconfig cannot catch on its own.
func (c *Config) Validate() error {
	var errs []error
	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		errs = append(errs, fmt.Errorf("BACKEND_URL: %w", err))
	}
	switch c.Session.TokenStore {
	case StoreMemory, StoreRedis, StoreMongo:
	default:
		errs = append(errs, fmt.Errorf("TOKEN_STORE: unknown driver %q", c.Session.TokenStore))
	}
	if c.Session.BootstrapWait < 0 {
		errs = append(errs, errors.New("BOOTSTRAP_WAIT must not be negative"))
	}
	if c.Session.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, errors.New("UNREAD_POLL_INTERVAL must be positive"))
	}
	if c.Poll.Workers <= 0 {
		errs = append(errs, errors.New("UNREAD_POLL_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads a .env file when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
