// Package masumi implements the payment-network client against the Masumi
// payment service HTTP API.
package masumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/masumi-network/kodosumi-bridge/config"
	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// On-chain states the payment service reports for a confirmed purchase.
var confirmedStates = map[string]struct{}{
	"fundslocked":     {},
	"confirmed":       {},
	"resultsubmitted": {},
}

// Config captures the settings the client needs from the payment section.
type Config struct {
	ServiceURL          string
	APIKey              string
	AgentIdentifier     string
	SellerVKey          string
	Network             string
	Amount              int64
	Unit                string
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	Logger              *slog.Logger
	Client              *http.Client
}

// FromPaymentConfig adapts the env-derived payment configuration.
func FromPaymentConfig(cfg config.PaymentConfig, logger *slog.Logger) Config {
	return Config{
		ServiceURL:          cfg.ServiceURL,
		APIKey:              cfg.APIKey,
		AgentIdentifier:     cfg.AgentIdentifier,
		SellerVKey:          cfg.SellerVKey,
		Network:             cfg.Network,
		Amount:              cfg.Amount,
		Unit:                cfg.Unit,
		PollInterval:        cfg.PollInterval,
		ConfirmationTimeout: cfg.ConfirmationTimeout,
		Logger:              logger,
	}
}

// Client talks to the Masumi payment service. It implements
// core.PaymentClient.
type Client struct {
	baseURL             string
	apiKey              string
	agentIdentifier     string
	sellerVKey          string
	network             string
	amount              int64
	unit                string
	pollInterval        time.Duration
	confirmationTimeout time.Duration
	logger              *slog.Logger
	client              *http.Client
}

var _ core.PaymentClient = (*Client)(nil)

// NewClient builds a Masumi payment client. Callers should pass a validated
// config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.ServiceURL), "/")
	if baseURL == "" {
		return nil, errors.New("payment service url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("payment api key is required")
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	confirmationTimeout := cfg.ConfirmationTimeout
	if confirmationTimeout <= 0 {
		confirmationTimeout = 15 * time.Minute
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	var logger *slog.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With("component", "masumi_client")
	}

	return &Client{
		baseURL:             baseURL,
		apiKey:              cfg.APIKey,
		agentIdentifier:     cfg.AgentIdentifier,
		sellerVKey:          cfg.SellerVKey,
		network:             cfg.Network,
		amount:              cfg.Amount,
		unit:                cfg.Unit,
		pollInterval:        pollInterval,
		confirmationTimeout: confirmationTimeout,
		logger:              logger,
		client:              hc,
	}, nil
}

type paymentEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type paymentDetails struct {
	BlockchainIdentifier      string `json:"blockchainIdentifier"`
	SubmitResultTime          string `json:"submitResultTime"`
	UnlockTime                string `json:"unlockTime"`
	ExternalDisputeUnlockTime string `json:"externalDisputeUnlockTime"`
	OnChainState              string `json:"onChainState"`
}

// CreateRequest registers a payment request for a job.
func (c *Client) CreateRequest(ctx context.Context, in core.PaymentRequestInput) (*model.PaymentRequest, error) {
	body := map[string]any{
		"agentIdentifier":         c.agentIdentifier,
		"network":                 c.network,
		"sellerVkey":              c.sellerVKey,
		"identifierFromPurchaser": in.PurchaserID,
		"inputHash":               in.InputHash,
		"metadata":                map[string]string{"job_id": in.JobID},
		"RequestedFunds":          []map[string]any{{"amount": fmt.Sprintf("%d", c.amount), "unit": c.unit}},
	}

	details, err := c.call(ctx, http.MethodPost, "/payment/", body)
	if err != nil {
		return nil, &model.PaymentServiceError{Op: "create payment request", Err: err}
	}
	if details.BlockchainIdentifier == "" {
		return nil, &model.PaymentServiceError{
			Op:  "create payment request",
			Err: errors.New("response carries no blockchainIdentifier"),
		}
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "payment request created",
			"job_id", in.JobID,
			"blockchain_identifier", details.BlockchainIdentifier,
		)
	}

	return &model.PaymentRequest{
		BlockchainIdentifier:      details.BlockchainIdentifier,
		SubmitResultTime:          details.SubmitResultTime,
		UnlockTime:                details.UnlockTime,
		ExternalDisputeUnlockTime: details.ExternalDisputeUnlockTime,
	}, nil
}

// AwaitConfirmation polls the payment service until the purchase reaches a
// confirmed on-chain state or the confirmation window elapses.
func (c *Client) AwaitConfirmation(ctx context.Context, blockchainIdentifier string) error {
	deadline := time.Now().Add(c.confirmationTimeout)

	for {
		if !time.Now().Before(deadline) {
			return &model.PaymentTimeoutError{Window: c.confirmationTimeout}
		}

		details, err := c.call(ctx, http.MethodGet, "/payment/"+blockchainIdentifier, nil)
		switch {
		case err != nil:
			// Transient service failures do not burn the purchaser's
			// payment; keep polling until the window closes.
			if c.logger != nil {
				c.logger.WarnContext(ctx, "payment status query failed, retrying",
					"blockchain_identifier", blockchainIdentifier,
					"error", err,
				)
			}
		case confirmed(details.OnChainState):
			if c.logger != nil {
				c.logger.InfoContext(ctx, "payment confirmed",
					"blockchain_identifier", blockchainIdentifier,
					"on_chain_state", details.OnChainState,
				)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// Complete reports the run result back to the payment service so locked funds
// can be released.
func (c *Client) Complete(ctx context.Context, blockchainIdentifier string, result json.RawMessage) error {
	body := map[string]any{
		"network":    c.network,
		"resultHash": resultHash(result),
	}
	if _, err := c.call(ctx, http.MethodPost, "/payment/"+blockchainIdentifier+"/complete", body); err != nil {
		return &model.PaymentServiceError{Op: "complete payment", Err: err}
	}
	return nil
}

// call performs one request against the payment service and decodes the
// `{"status": "success", "data": {...}}` envelope.
func (c *Client) call(ctx context.Context, method, path string, body any) (*paymentDetails, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment service request failed: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope paymentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if envelope.Status != "success" {
		return nil, fmt.Errorf("payment service reported status %q", envelope.Status)
	}

	details := &paymentDetails{}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, details); err != nil {
			return nil, fmt.Errorf("decode payment details: %w", err)
		}
	}
	return details, nil
}

func confirmed(state string) bool {
	_, ok := confirmedStates[strings.ToLower(strings.TrimSpace(state))]
	return ok
}

// resultHash condenses the run payload into the short digest the payment
// service stores on chain.
func resultHash(result json.RawMessage) string {
	hash, err := model.CanonicalRawHash(result)
	if err != nil {
		return ""
	}
	return hash
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
