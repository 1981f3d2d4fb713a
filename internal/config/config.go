package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" validate:"required"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
	// BackendURL is the externally advertised base URL. Share links stay
	// relative paths; the value is only reported at startup.
	BackendURL  string   `mapstructure:"backend_url" validate:"omitempty,url"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// envBindings maps config keys to the environment variables the service has
// always read.
var envBindings = map[string]string{
	"database.url":        "DATABASE_URL",
	"database.name":       "DATABASE_NAME",
	"server.port":         "PORT",
	"server.backend_url":  "BACKEND_URL",
	"server.cors_origins": "CORS_ORIGINS",
	"logging.level":       "LOG_LEVEL",
}

func NewConfig() (*Configuration, error) {
	// .env is optional; the process environment wins either way
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("logging.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Configuration) Validate() error {
	return validator.New().Struct(c)
}

// GetDefaultConfig returns the configuration used before fx has loaded the
// real one, and by tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:  ServerConfig{Port: 8000, CORSOrigins: []string{"*"}},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Configured reports whether both the connection string and database name
// are present. The store is only opened when this holds.
func (c DatabaseConfig) Configured() bool {
	return c.URL != "" && c.Name != ""
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
