// Package config loads process settings from a .env file, the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	envDev = "dev"
)

type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	Env         string `mapstructure:"ENV"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFile     string `mapstructure:"LOG_FILE"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	RequireAuth        bool          `mapstructure:"REQUIRE_AUTH"`
	AutoApproveOnLogin bool          `mapstructure:"AUTO_APPROVE_ON_LOGIN"`

	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	PhoneRegion        string        `mapstructure:"PHONE_REGION"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVICE_NAME":          "beverage-os",
	"ENV":                   envDev,
	"PORT":                  "5000",
	"LOG_LEVEL":             "info",
	"LOG_FILE":              "",
	"STORE_DRIVER":          StoreMemory,
	"MONGO_URI":             "",
	"MONGO_DATABASE":        "beverage_os",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"JWT_SECRET":            "",
	"TOKEN_TTL":             "24h",
	"REQUIRE_AUTH":          false,
	"AUTO_APPROVE_ON_LOGIN": true,
	"CORS_ALLOWED_ORIGINS":  "http://localhost:3000",
	"PHONE_REGION":          "LK",
	"SHUTDOWN_TIMEOUT":      "10s",
}

// devSecret signs tokens in dev when JWT_SECRET is unset.
const devSecret = "beverage-os-dev-secret"

// Load reads .env (when present), CONFIG_FILE (when set) and the environment, in
// increasing order of precedence, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	c.CORSAllowedOrigins = origins
	if c.JWTSecret == "" && c.IsDev() {
		c.JWTSecret = devSecret
	}
}

// IsDev reports whether the process runs in the dev environment.
func (c *Config) IsDev() bool { return c.Env == envDev }

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// Validate checks that the settings are coherent.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("config: SERVICE_NAME must not be empty")
	}
	if c.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required when STORE_DRIVER=mongo")
		}
		if c.MongoDatabase == "" {
			return errors.New("config: MONGO_DATABASE must not be empty")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required outside dev")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if len(c.PhoneRegion) != 2 {
		return fmt.Errorf("config: PHONE_REGION %q is not a two-letter region", c.PhoneRegion)
	}
	return nil
}
