package config

import (
	"errors"
	"strings"
	"time"
)

// FlowConfig contains settings for the Kodosumi flow execution service.
type FlowConfig struct {
	// BaseURL is the base URL of the flow execution service.
	BaseURL string `env:"KODOSUMI_BASE_URL"`

	// Username and Password are the static login credentials.
	Username string `env:"KODOSUMI_USERNAME"`
	Password string `env:"KODOSUMI_PASSWORD"`

	// NameContains selects the target flow: the first flow (by name) whose
	// summary contains this fragment, case-insensitively, is triggered.
	NameContains string `env:"KODOSUMI_FLOW_NAME_CONTAINS"`

	// PayloadInputKey is the form field name the primary input is sent under
	// when triggering the flow.
	PayloadInputKey string `env:"KODOSUMI_PAYLOAD_INPUT_KEY"`

	// PrimaryFieldID names the submission input field whose value becomes the
	// flow payload. It must exist in the declared input schema.
	PrimaryFieldID string `env:"KODOSUMI_PRIMARY_FIELD_ID_FOR_PAYLOAD"`

	// PollInterval is the fixed delay between run status queries.
	PollInterval time.Duration `env:"KODOSUMI_POLL_INTERVAL" envDefault:"10s"`

	// PollTimeout bounds the total wall-clock time spent polling one run.
	PollTimeout time.Duration `env:"KODOSUMI_POLL_TIMEOUT" envDefault:"5m"`

	// SuccessStatuses and ErrorStatuses are the terminal status vocabularies
	// reported by the flow service, compared case-insensitively.
	SuccessStatuses []string `env:"KODOSUMI_TERMINAL_SUCCESS_STATUSES" envDefault:"finished,completed"`
	ErrorStatuses   []string `env:"KODOSUMI_TERMINAL_ERROR_STATUSES"   envDefault:"failed,error,cancelled,timeout"`

	// ResultExpression is a JMESPath expression evaluated over a completed
	// run's payload to produce the result string returned by /status.
	ResultExpression string `env:"KODOSUMI_RESULT_EXPRESSION" envDefault:"final.CrewOutput.raw"`
}

// Sanitize applies guardrails to flow configuration values.
func (c *FlowConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.NameContains = strings.TrimSpace(c.NameContains)
	c.PayloadInputKey = strings.TrimSpace(c.PayloadInputKey)
	c.PrimaryFieldID = strings.TrimSpace(c.PrimaryFieldID)
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 5 * time.Minute
	}
	c.SuccessStatuses = normalizeStatuses(c.SuccessStatuses, []string{"finished", "completed"})
	c.ErrorStatuses = normalizeStatuses(c.ErrorStatuses, []string{"failed", "error", "cancelled", "timeout"})
	c.ResultExpression = strings.TrimSpace(c.ResultExpression)
}

// Validate checks the presence of required flow settings.
func (c *FlowConfig) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("KODOSUMI_BASE_URL is required")
	case c.Username == "":
		return errors.New("KODOSUMI_USERNAME is required")
	case c.Password == "":
		return errors.New("KODOSUMI_PASSWORD is required")
	case c.NameContains == "":
		return errors.New("KODOSUMI_FLOW_NAME_CONTAINS is required")
	case c.PayloadInputKey == "":
		return errors.New("KODOSUMI_PAYLOAD_INPUT_KEY is required")
	case c.PrimaryFieldID == "":
		return errors.New("KODOSUMI_PRIMARY_FIELD_ID_FOR_PAYLOAD is required")
	}
	return nil
}

// normalizeStatuses lowercases and trims each status, dropping empties.
// Falls back to def when nothing usable remains.
func normalizeStatuses(in, def []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
