package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "COURT"

// NearbySearchStages is the number of store queries a nearby search may run
// in sequence before giving up.
const NearbySearchStages = 3

var sqlIdentRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// configKeys lists every key that may be supplied through the environment.
// Viper only unmarshals environment values for keys it knows about.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"server.env",
	"server.api_version",
	"server.cors_origins",
	"server.request_timeout_seconds",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.query_timeout_seconds",
	"database.migrate_on_start",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"search.default_radius_km",
	"search.max_radius_km",
	"search.nearby_function",
	"tracing.otlp_endpoint",
	"tracing.sample_ratio",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentRegex.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register validation: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Every nearby search stage may spend a full query timeout, and the last
	// stage must still start before the request deadline.
	if budget := NearbySearchStages * cfg.Database.QueryTimeoutSeconds; budget >= cfg.Server.RequestTimeoutSeconds {
		return fmt.Errorf(
			"config validation failed: server.request_timeout_seconds (%d) must exceed %d x database.query_timeout_seconds (%d)",
			cfg.Server.RequestTimeoutSeconds, NearbySearchStages, cfg.Database.QueryTimeoutSeconds,
		)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.env", "dev")
	v.SetDefault("server.api_version", "v1")
	v.SetDefault("server.cors_origins", []string{"http://localhost", "http://localhost:3000"})
	v.SetDefault("server.request_timeout_seconds", 20)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.query_timeout_seconds", 5)
	v.SetDefault("database.migrate_on_start", false)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("search.default_radius_km", 10.0)
	v.SetDefault("search.max_radius_km", 20000.0)
	v.SetDefault("search.nearby_function", "get_nearby_facilities")

	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.sample_ratio", 1.0)
}
