package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DASHBOARD_PRIMARY__ENV", "development")
	t.Setenv("DASHBOARD_DATABASE__HOST", "db.internal")
	t.Setenv("DASHBOARD_DATABASE__USER", "dashboard")
	t.Setenv("DASHBOARD_DATABASE__PASSWORD", "p@ss:word")
	t.Setenv("DASHBOARD_DATABASE__NAME", "invoices")
	t.Setenv("DASHBOARD_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("DASHBOARD_AUTH__SECRET_KEY", "sk_test_123")
	t.Setenv("DASHBOARD_INTEGRATION__RESEND_API_KEY", "re_123")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"DASHBOARD_SERVER__PORT":                  "server.port",
		"DASHBOARD_DATABASE__SSL_MODE":            "database.ssl_mode",
		"DASHBOARD_OBSERVABILITY__LOGGING__LEVEL": "observability.logging.level",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.True(t, cfg.Database.RequiresEncryptedTransport())
	assert.Equal(t, "p@ss:word", cfg.Database.Password)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_SERVER__PORT", "9090")
	t.Setenv("DASHBOARD_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DASHBOARD_OBSERVABILITY__LOGGING__LEVEL", "debug")
	t.Setenv("DASHBOARD_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoadConfigDatabaseURLReplacesDiscreteFields(t *testing.T) {
	t.Setenv("DASHBOARD_PRIMARY__ENV", "staging")
	t.Setenv("DASHBOARD_DATABASE__URL", "postgres://u:p@host:5432/db?sslmode=require")
	t.Setenv("DASHBOARD_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("DASHBOARD_AUTH__SECRET_KEY", "sk_test_123")
	t.Setenv("DASHBOARD_INTEGRATION__RESEND_API_KEY", "re_123")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@host:5432/db?sslmode=require", cfg.Database.URL)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("DASHBOARD_PRIMARY__ENV", "development")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfigRejectsPlaintextInProduction(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DASHBOARD_PRIMARY__ENV", "production")
	t.Setenv("DASHBOARD_DATABASE__SSL_MODE", "disable")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed in production")
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestHealthChecksShouldCheck(t *testing.T) {
	hc := DefaultObservabilityConfig().HealthChecks
	assert.True(t, hc.ShouldCheck("database"))
	assert.False(t, hc.ShouldCheck("queue"))

	hc.Enabled = false
	assert.False(t, hc.ShouldCheck("database"))
}

func TestEnvKeyValueSplitsOnlyListKeys(t *testing.T) {
	k, v := envKeyValue("DASHBOARD_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	assert.Equal(t, "server.cors_allowed_origins", k)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, v)

	k, v = envKeyValue("DASHBOARD_DATABASE__PASSWORD", "a,b")
	assert.Equal(t, "database.password", k)
	assert.Equal(t, "a,b", v)
}
