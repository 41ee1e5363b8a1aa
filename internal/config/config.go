// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every field can additionally be overridden by its env:"..." variable,
// which is how the shared secrets (salts, admin login) are injected in
// deployed environments. The loaded struct is range-checked with
// go-playground/validator before the process is allowed to start.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to run with a wrong secret.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	Auth    Auth    `yaml:"auth"`
	Storage Storage `yaml:"storage"`

	// HTTPServer is embedded so its fields are reachable directly on
	// Config after promotion: cfg.Addr.
	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true" validate:"required"`
}

// Auth holds the shared secrets of the digest scheme. The salts must be
// byte-for-byte identical between the token issuer and this verifier.
type Auth struct {
	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN" env-default:"admin" validate:"required"`
	Salt       string `yaml:"salt" env:"AUTH_SALT" env-required:"true" validate:"required"`
	AdminSalt  string `yaml:"admin_salt" env:"AUTH_ADMIN_SALT" env-required:"true" validate:"required"`
}

// Storage selects and configures the key-value engine. The retry budget
// bounds every store operation at attempts × (timeout + delay) in the
// worst case, so all four knobs are overridable.
type Storage struct {
	// Engine selects the backend: "redis" (production) or "sqlite"
	// (local runs without a Redis server).
	Engine string `yaml:"engine" env:"STORAGE_ENGINE" env-default:"redis" validate:"oneof=redis sqlite"`

	RetryAttempts int           `yaml:"retry_attempts" env:"STORE_RETRY_ATTEMPTS" env-default:"5" validate:"min=1"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"STORE_RETRY_DELAY" env-default:"1s"`

	Redis Redis `yaml:"redis"`

	// SQLitePath is the database file used when Engine is "sqlite".
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" validate:"required_if=Engine sqlite"`
}

// Redis holds the connection settings of the Redis engine.
type Redis struct {
	Host           string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SocketTimeout  time.Duration `yaml:"socket_timeout" env:"REDIS_SOCKET_TIMEOUT" env-default:"3s"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"REDIS_CONNECT_TIMEOUT" env-default:"3s"`
}

// MustLoad reads, validates, and returns the application config.
//
// The "Must" prefix follows the usual Go convention: the function fatals
// on failure, so if it returns, the config is guaranteed valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	// cleanenv only checks presence; range and cross-field rules run here.
	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %s", describeValidationErrors(err.(validator.ValidationErrors)))
	}

	return &cfg
}

// describeValidationErrors renders validator failures as one readable
// sentence naming every offending field.
func describeValidationErrors(errs validator.ValidationErrors) string {
	var msgs []string
	for _, e := range errs {
		switch e.ActualTag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
