package config

import (
	"errors"
	"strings"
	"time"
)

// PaymentConfig contains settings for the Masumi payment service.
type PaymentConfig struct {
	// ServiceURL is the base URL of the payment service.
	ServiceURL string `env:"PAYMENT_SERVICE_URL"`

	// APIKey authenticates requests to the payment service.
	APIKey string `env:"PAYMENT_API_KEY"`

	// AgentIdentifier is the registered identifier of this agent on the
	// payment network.
	AgentIdentifier string `env:"AGENT_IDENTIFIER"`

	// SellerVKey is the seller verification key advertised to purchasers.
	SellerVKey string `env:"SELLER_VKEY"`

	// Network selects the payment network (e.g. "Preprod", "Mainnet").
	Network string `env:"NETWORK"`

	// Amount is the price of one job in the smallest unit of Unit.
	Amount int64 `env:"PAYMENT_AMOUNT" envDefault:"3000000"`

	// Unit is the currency unit for Amount.
	Unit string `env:"PAYMENT_UNIT" envDefault:"lovelace"`

	// PollInterval is how often the payment service is queried while a job
	// waits for confirmation.
	PollInterval time.Duration `env:"PAYMENT_POLL_INTERVAL" envDefault:"10s"`

	// ConfirmationTimeout bounds how long a job may wait for payment
	// confirmation before it fails.
	ConfirmationTimeout time.Duration `env:"PAYMENT_CONFIRMATION_TIMEOUT" envDefault:"15m"`
}

// Sanitize applies guardrails to payment configuration values.
func (c *PaymentConfig) Sanitize() {
	c.ServiceURL = strings.TrimRight(strings.TrimSpace(c.ServiceURL), "/")
	c.AgentIdentifier = strings.TrimSpace(c.AgentIdentifier)
	c.SellerVKey = strings.TrimSpace(c.SellerVKey)
	c.Network = strings.TrimSpace(c.Network)
	if c.Amount < 1 {
		c.Amount = 1
	}
	if c.Unit == "" {
		c.Unit = "lovelace"
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.ConfirmationTimeout <= 0 {
		c.ConfirmationTimeout = 15 * time.Minute
	}
}

// Validate checks the presence of required payment settings.
func (c *PaymentConfig) Validate() error {
	switch {
	case c.ServiceURL == "":
		return errors.New("PAYMENT_SERVICE_URL is required")
	case c.APIKey == "":
		return errors.New("PAYMENT_API_KEY is required")
	case c.AgentIdentifier == "":
		return errors.New("AGENT_IDENTIFIER is required")
	case c.SellerVKey == "":
		return errors.New("SELLER_VKEY is required")
	case c.Network == "":
		return errors.New("NETWORK is required")
	}
	return nil
}
