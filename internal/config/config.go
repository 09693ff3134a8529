package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ecommerce-admin/server/internal/core"
	pkgmongo "github.com/ecommerce-admin/server/pkg/mongo"
	pkgredis "github.com/ecommerce-admin/server/pkg/redis"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// HTTPConfig holds listener timeouts in seconds.
type HTTPConfig struct {
	ReadTimeout     int `split_words:"true" default:"15"`
	WriteTimeout    int `split_words:"true" default:"15"`
	ShutdownTimeout int `split_words:"true" default:"10"`
}

func (h HTTPConfig) Read() time.Duration     { return time.Duration(h.ReadTimeout) * time.Second }
func (h HTTPConfig) Write() time.Duration    { return time.Duration(h.WriteTimeout) * time.Second }
func (h HTTPConfig) Shutdown() time.Duration { return time.Duration(h.ShutdownTimeout) * time.Second }

// AppConfig defines all configurable parameters of the admin backend,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	Port        int              `envconfig:"PORT" default:"8000"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`
	Backend     string           `envconfig:"STORE_BACKEND" default:"mongo"`

	// Infrastructure
	Database pkgmongo.Config
	Redis    pkgredis.Config
	HTTP     HTTPConfig
}

// LoadEnvFiles loads variables from the given files (default ".env") into the
// process environment without overriding values that are already set. A
// missing file is reported as an error wrapping fs.ErrNotExist.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	return godotenv.Load(files...)
}

// IsMissingEnvFile reports whether err only says that an env file was absent.
func IsMissingEnvFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Load binds the process environment into an AppConfig and validates it.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and the settings required by the selected backend.
func (c AppConfig) Validate() error {
	return validation.Errors{
		"PORT": validation.Validate(c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		"STORE_BACKEND": validation.Validate(c.Backend,
			validation.Required,
			validation.In(BackendMongo, BackendRedis, BackendMemory),
		),
		"DATABASE_URL":  validation.Validate(c.Database.URL, validation.When(c.Backend == BackendMongo, validation.Required)),
		"DATABASE_NAME": validation.Validate(c.Database.Name, validation.When(c.Backend == BackendMongo, validation.Required)),
		"DATABASE_OPERATION_TIMEOUT": validation.Validate(c.Database.OperationTimeout,
			validation.When(c.Backend == BackendMongo, validation.Required, validation.Min(1)),
		),
		"REDIS_URL": validation.Validate(c.Redis.URL, validation.When(c.Backend == BackendRedis, validation.Required)),
		"REDIS_KEY_PREFIX": validation.Validate(c.Redis.KeyPrefix,
			validation.When(c.Backend == BackendRedis, validation.Required),
		),
	}.Filter()
}
