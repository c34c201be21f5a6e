package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - payment.go: Masumi payment service configuration
//   - flow.go: Kodosumi flow execution configuration
//   - http.go: HTTP server configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, etc.)
	IsDev bool `env:"DEV" envDefault:"false"`

	// Payment service configuration
	Payment PaymentConfig

	// Flow execution service configuration
	Flow FlowConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Payment.Sanitize()
	c.Flow.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate checks that all settings required to reach the payment and flow
// collaborators are present. The server refuses to start without them.
func (c *AppConfig) Validate() error {
	if err := c.Payment.Validate(); err != nil {
		return err
	}
	return c.Flow.Validate()
}
