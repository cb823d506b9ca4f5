// Package config reads the process configuration from the environment.
//
// A `.env` file in the working directory, if present, is loaded first and
// never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port       string        `koanf:"port" validate:"required,numeric"`
	AppEnv     string        `koanf:"app_env" validate:"required"`
	JWTSecret  string        `koanf:"jwt_secret" validate:"required"`
	JWTTTL     time.Duration `koanf:"jwt_ttl" validate:"gte=0"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"gte=4,lte=31"`

	StoreDriver   string `koanf:"store_driver" validate:"oneof=mongo memory"`
	MongoURI      string `koanf:"mongo_uri" validate:"required_if=StoreDriver mongo"`
	MongoDatabase string `koanf:"mongo_database" validate:"required_if=StoreDriver mongo"`

	RabbitMQ string `koanf:"rabbitmq_connstring"`

	MailgunDomain string `koanf:"mailgun_domain"`
	MailgunAPIKey string `koanf:"mailgun_api_key" validate:"required_with=MailgunDomain"`
	MailFrom      string `koanf:"mail_from" validate:"required_with=MailgunDomain"`

	CORSAllowOrigins string `koanf:"cors_allow_origins"`
}

func defaults() *Config {
	return &Config{
		Port:             "8080",
		AppEnv:           "development",
		JWTSecret:        "your_jwt_secret_key",
		BcryptCost:       10,
		StoreDriver:      DriverMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "test",
		CORSAllowOrigins: "*",
	}
}

// Load builds a Config from defaults overlaid with the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return FromEnv()
}

// FromEnv is Load without the .env step.
func FromEnv() (*Config, error) {
	k := koanf.New(".")
	// Empty variables count as unset so defaults survive.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) MailEnabled() bool {
	return c.MailgunDomain != ""
}

func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ != ""
}
