package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Search   SearchConfig   `mapstructure:"search"   validate:"required"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int      `mapstructure:"port"                    validate:"required,gt=0,lt=65536"`
	LogLevel              string   `mapstructure:"log_level"               validate:"required,oneof=debug info warn error"`
	Env                   string   `mapstructure:"env"                     validate:"required,oneof=dev test prod"`
	APIVersion            string   `mapstructure:"api_version"             validate:"required,alphanum"`
	CORSOrigins           []string `mapstructure:"cors_origins"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// RequestTimeout returns the per-request deadline as a duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// IsProduction reports whether the service runs in the prod environment.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "prod"
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                 string `mapstructure:"url"                   validate:"required,url"`
	MaxOpenConns        int    `mapstructure:"max_open_conns"        validate:"gt=0"`
	MaxIdleConns        int    `mapstructure:"max_idle_conns"        validate:"gte=0"`
	QueryTimeoutSeconds int    `mapstructure:"query_timeout_seconds" validate:"gt=0"`
	MigrateOnStart      bool   `mapstructure:"migrate_on_start"`
}

// QueryTimeout returns the per-query deadline as a duration.
func (c DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// AuthConfig contains bearer-token settings. An empty JWTSecret disables
// authentication on write routes.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// Enabled reports whether bearer authentication is configured.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// SearchConfig contains nearby-search settings.
type SearchConfig struct {
	DefaultRadiusKm float64 `mapstructure:"default_radius_km" validate:"gt=0,ltefield=MaxRadiusKm"`
	MaxRadiusKm     float64 `mapstructure:"max_radius_km"     validate:"gt=0,lte=20000"`
	NearbyFunction  string  `mapstructure:"nearby_function"   validate:"required,sqlident"`
}

// TracingConfig controls span export. With an empty OTLPEndpoint spans are
// recorded in-process but not exported.
type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" validate:"omitempty,hostname_port"`
	SampleRatio  float64 `mapstructure:"sample_ratio"  validate:"gte=0,lte=1"`
}
