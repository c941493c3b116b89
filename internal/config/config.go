// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one exists), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix DASHBOARD_.

	Keys are normalized: the prefix is removed, the rest is lowercased and
	a double underscore becomes the koanf "." delimiter, so nested struct
	fields can be addressed with ordinary shell-safe variable names:

	  DASHBOARD_SERVER__PORT                   -> server.port
	  DASHBOARD_DATABASE__SSL_MODE             -> database.ssl_mode
	  DASHBOARD_OBSERVABILITY__LOGGING__LEVEL  -> observability.logging.level
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "DASHBOARD_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the sustained requests per second allowed per client
	// IP on the API, with bursts up to RateLimitBurst.
	RateLimit      float64 `koanf:"rate_limit" validate:"gt=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"min=1"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// Either URL is set (a full postgres:// connection string, the way most
// hosted providers hand it out) or the discrete Host/User/Name fields are.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	Host            string `koanf:"host" validate:"required_without=URL"`
	Port            int    `koanf:"port" validate:"required_without=URL"`
	User            string `koanf:"user" validate:"required_without=URL"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_without=URL"`
	SSLMode         string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required,min=1"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required,min=1"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret used to verify session tokens.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds credentials for third-party delivery services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	ReportSender string `koanf:"report_sender" validate:"required,email"`
}

// secureSSLModes are the sslmode values that guarantee an encrypted
// transport. Production refuses anything else.
var secureSSLModes = map[string]bool{
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// RequiresEncryptedTransport reports whether the configured sslmode
// guarantees TLS between the service and PostgreSQL.
func (d DatabaseConfig) RequiresEncryptedTransport() bool {
	return secureSSLModes[d.SSLMode]
}

// defaultConfig returns a Config pre-populated with everything that has a
// reasonable default. koanf only overwrites keys present in the env, so
// whatever is not set keeps these values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			RateLimit:          20,
			RateLimitBurst:     40,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "require",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Integration: IntegrationConfig{
			ReportSender: "reports@resend.dev",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey converts a raw environment variable name into a koanf key path.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// listKeys are the only keys whose values are comma separated lists.
// Everything else is kept verbatim (passwords may contain commas).
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKeyValue maps an env variable to its koanf key and value.
func envKeyValue(key, value string) (string, any) {
	k := envKey(key)
	if !listKeys[k] {
		return k, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return k, items
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies observability defaults and returns it.
//
// Behavior summary:
//   - Loads env vars with prefix DASHBOARD_
//   - Converts env keys into koanf keys ("__" -> ".")
//   - Unmarshals into a Config pre-filled with defaults
//   - Validates required config blocks/fields
//   - Refuses unencrypted database transport in production
//   - Sets default observability if missing and validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	// Unmarshal from the root. koanf's default decode hook turns
	// "30s" into a time.Duration.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Primary.Env == "production" && !mainConfig.Database.RequiresEncryptedTransport() {
		return nil, fmt.Errorf("database ssl_mode %q is not allowed in production", mainConfig.Database.SSLMode)
	}

	// Observability is pre-filled above, but an explicit empty block in
	// a config source can still leave it nil.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so that logs and traces
	// always agree with the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
