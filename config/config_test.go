package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PAYMENT_SERVICE_URL", "https://payments.example.com/api/v1")
	t.Setenv("PAYMENT_API_KEY", "pk-test")
	t.Setenv("AGENT_IDENTIFIER", "agent-1")
	t.Setenv("SELLER_VKEY", "vkey-1")
	t.Setenv("NETWORK", "Preprod")
	t.Setenv("KODOSUMI_BASE_URL", "https://flows.example.com/")
	t.Setenv("KODOSUMI_USERNAME", "admin")
	t.Setenv("KODOSUMI_PASSWORD", "secret")
	t.Setenv("KODOSUMI_FLOW_NAME_CONTAINS", "research")
	t.Setenv("KODOSUMI_PAYLOAD_INPUT_KEY", "topic")
	t.Setenv("KODOSUMI_PRIMARY_FIELD_ID_FOR_PAYLOAD", "topic")
}

func TestAppConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(3000000), cfg.Payment.Amount)
	assert.Equal(t, "lovelace", cfg.Payment.Unit)
	assert.Equal(t, 10*time.Second, cfg.Payment.PollInterval)
	assert.Equal(t, 15*time.Minute, cfg.Payment.ConfirmationTimeout)

	assert.Equal(t, 10*time.Second, cfg.Flow.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Flow.PollTimeout)
	assert.Equal(t, []string{"finished", "completed"}, cfg.Flow.SuccessStatuses)
	assert.Equal(t, []string{"failed", "error", "cancelled", "timeout"}, cfg.Flow.ErrorStatuses)
	assert.Equal(t, "final.CrewOutput.raw", cfg.Flow.ResultExpression)

	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestSanitizeTrimsURLsAndStatuses(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KODOSUMI_TERMINAL_SUCCESS_STATUSES", " Finished , DONE ,")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "https://payments.example.com/api/v1", cfg.Payment.ServiceURL)
	assert.Equal(t, "https://flows.example.com", cfg.Flow.BaseURL)
	assert.Equal(t, []string{"finished", "done"}, cfg.Flow.SuccessStatuses)
}

func TestValidateMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KODOSUMI_FLOW_NAME_CONTAINS", "")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KODOSUMI_FLOW_NAME_CONTAINS")
}

func TestMetricsDisabledWithoutAddress(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "   ")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}
