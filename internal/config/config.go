// Package config loads process configuration from the environment.
//
// Each binary has its own root struct (API, Web). Infrastructure packages keep
// their own envconfig-tagged Config types, which are loaded alongside and then
// aligned with the root values.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/postgres"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// API is the configuration of the REST API process.
type API struct {
	AppEnv               string `envconfig:"APP_ENV" required:"true" validate:"oneof=development production test"`
	Port                 int    `envconfig:"PORT" required:"true" validate:"min=1,max=65535"`
	DatabaseURL          string `envconfig:"DATABASE_URL" required:"true" validate:"url"`
	CORSOrigin           string `envconfig:"CORS_ORIGIN" required:"true" validate:"url"`
	RateLimitWindowMS    int    `envconfig:"RATE_LIMIT_WINDOW_MS" default:"900000" validate:"min=1"`
	RateLimitMaxRequests int    `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100" validate:"min=1"`
	APIKey               string `envconfig:"API_KEY" required:"true" validate:"min=1"`

	Database postgres.Config `ignored:"true"`
	Logger   logger.Config   `ignored:"true"`
	Metrics  metrics.Config  `ignored:"true"`
	Tracer   tracer.Config   `ignored:"true"`
}

// Web is the configuration of the frontend process.
type Web struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development" validate:"oneof=development production test"`
	Port       int    `envconfig:"WEB_PORT" default:"3000" validate:"min=1,max=65535"`
	BackendURL string `envconfig:"BACKEND_URL" required:"true" validate:"url"`
	APIKey     string `envconfig:"API_KEY" required:"true" validate:"min=1"`

	Logger logger.Config `ignored:"true"`
	Tracer tracer.Config `ignored:"true"`
}

// Database is the configuration of the one-shot migrate and seed commands.
type Database struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development" validate:"oneof=development production test"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true" validate:"url"`

	Database postgres.Config `ignored:"true"`
	Logger   logger.Config   `ignored:"true"`
}

// LoadAPI reads and validates the API configuration.
func LoadAPI() (*API, error) {
	var cfg API
	if err := load(&cfg, &cfg.Database, &cfg.Logger, &cfg.Metrics, &cfg.Tracer); err != nil {
		return nil, err
	}

	cfg.Database.URL = cfg.DatabaseURL
	cfg.Logger.Development = cfg.AppEnv != EnvProduction
	cfg.Tracer.AppEnv = cfg.AppEnv
	return &cfg, nil
}

// LoadWeb reads and validates the frontend configuration.
func LoadWeb() (*Web, error) {
	var cfg Web
	if err := load(&cfg, &cfg.Logger, &cfg.Tracer); err != nil {
		return nil, err
	}

	cfg.Logger.Development = cfg.AppEnv != EnvProduction
	cfg.Tracer.AppEnv = cfg.AppEnv
	return &cfg, nil
}

// LoadDatabase reads the configuration needed to reach the database only.
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := load(&cfg, &cfg.Database, &cfg.Logger); err != nil {
		return nil, err
	}

	cfg.Database.URL = cfg.DatabaseURL
	cfg.Logger.Development = cfg.AppEnv != EnvProduction
	return &cfg, nil
}

// IsProduction reports whether error responses must hide internal details.
func (c *API) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// RateLimitWindow is RATE_LIMIT_WINDOW_MS as a duration.
func (c *API) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

// Address is the listen address of the API server.
func (c *API) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Address is the listen address of the frontend server.
func (c *Web) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// load processes root and every part from the environment, then validates root.
func load(root interface{}, parts ...interface{}) error {
	if err := envconfig.Process("", root); err != nil {
		return fmt.Errorf("missing or invalid environment variables: %w", err)
	}
	for _, part := range parts {
		if err := envconfig.Process("", part); err != nil {
			return fmt.Errorf("missing or invalid environment variables: %w", err)
		}
	}
	if err := validate(root); err != nil {
		return describe(err)
	}
	return nil
}

var validate = newValidator().Struct

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("envconfig")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError lists the variables whose values failed validation.
type ValidationError struct {
	Variables []string
	Err       error
}

func (e *ValidationError) Error() string {
	return "missing or invalid environment variables: " + strings.Join(e.Variables, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	sort.Strings(names)
	return &ValidationError{Variables: names, Err: err}
}
