// Package kodosumi implements the flow-service client against the Kodosumi
// HTTP API.
package kodosumi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/masumi-network/kodosumi-bridge/config"
	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// Config captures the settings the client needs from the flow section.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Logger   *slog.Logger
	Client   *http.Client
}

// FromFlowConfig adapts the env-derived flow configuration.
func FromFlowConfig(cfg config.FlowConfig, logger *slog.Logger) Config {
	return Config{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   logger,
	}
}

// Client talks to the Kodosumi flow execution service. It implements
// core.FlowClient.
type Client struct {
	baseURL  string
	username string
	password string
	logger   *slog.Logger
	client   *http.Client

	// login coalesces concurrent Authenticate calls into one request.
	login singleflight.Group
}

var _ core.FlowClient = (*Client)(nil)

// NewClient builds a Kodosumi client. The HTTP client never follows
// redirects: trigger responses carry the poll handle in their Location
// header, which auto-following would swallow.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("flow service base url is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("flow service credentials are required")
	}

	hc := &http.Client{Timeout: 60 * time.Second}
	if cfg.Client != nil {
		copied := *cfg.Client
		hc = &copied
	}
	hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var logger *slog.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With("component", "kodosumi_client")
	}

	return &Client{
		baseURL:  baseURL,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
		client:   hc,
	}, nil
}

// Authenticate logs in with the configured credentials and returns the
// session API key. Concurrent calls share one login request.
func (c *Client) Authenticate(ctx context.Context) (core.Session, error) {
	key, err, _ := c.login.Do("login", func() (any, error) {
		return c.doLogin(ctx)
	})
	if err != nil {
		return core.Session{}, err
	}
	return core.Session{APIKey: key.(string)}, nil
}

func (c *Client) doLogin(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("name", c.username)
	query.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/login?"+query.Encode(), nil)
	if err != nil {
		return "", &model.AuthenticationError{Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &model.AuthenticationError{Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &model.AuthenticationError{
			Err: fmt.Errorf("login returned %d", resp.StatusCode),
		}
	}

	var payload struct {
		APIKey string `json:"KODOSUMI_API_KEY"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &model.AuthenticationError{Err: fmt.Errorf("decode login response: %w", err)}
	}
	if payload.APIKey == "" {
		return "", &model.AuthenticationError{Err: errors.New("login response carries no API key")}
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "flow service login succeeded")
	}
	return payload.APIKey, nil
}

// ListFlows returns the flows discoverable in the session.
func (c *Client) ListFlows(ctx context.Context, s core.Session) ([]core.FlowDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flow", nil)
	if err != nil {
		return nil, fmt.Errorf("create flow list request: %w", err)
	}
	req.Header.Set("kodosumi_api_key", s.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flow list request failed: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("flow list returned %d", resp.StatusCode)
	}

	var payload struct {
		Items []core.FlowDescriptor `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode flow list: %w", err)
	}
	return payload.Items, nil
}

// Trigger starts a flow with the given form payload. A redirect response
// yields the poll handle; a JSON response carries an immediate run status for
// flows that finish inside the call.
func (c *Client) Trigger(ctx context.Context, s core.Session, flow core.FlowDescriptor, payload map[string]string) (*core.TriggerResult, error) {
	if flow.URL == "" {
		return nil, &model.TriggerError{Reason: "flow descriptor carries no url"}
	}

	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+flow.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &model.TriggerError{Reason: "create trigger request", Err: err}
	}
	req.Header.Set("kodosumi_api_key", s.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.TriggerError{Reason: "trigger request failed", Err: err}
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &model.TriggerError{
			Reason: fmt.Sprintf("trigger returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	case resp.StatusCode >= 300:
		handle := resp.Header.Get("Location")
		if handle == "" {
			return nil, &model.TriggerError{
				Reason: fmt.Sprintf("trigger redirected with %d but no Location header", resp.StatusCode),
			}
		}
		if c.logger != nil {
			c.logger.DebugContext(ctx, "flow triggered", "flow", flow.Summary, "handle", handle)
		}
		return &core.TriggerResult{Handle: handle}, nil
	case strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json"):
		status, err := decodeRunStatus(resp.Body)
		if err != nil {
			return nil, &model.TriggerError{Reason: "decode trigger response", Err: err}
		}
		return &core.TriggerResult{Immediate: status}, nil
	default:
		return nil, &model.TriggerError{
			Reason: fmt.Sprintf("trigger returned %d with no redirect or JSON body", resp.StatusCode),
		}
	}
}

// Poll fetches the current status of a run.
func (c *Client) Poll(ctx context.Context, s core.Session, handle string) (*core.RunStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+handle, nil)
	if err != nil {
		return nil, &model.PollError{Err: err}
	}
	req.Header.Set("kodosumi_api_key", s.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.PollError{Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.PollError{Err: fmt.Errorf("status query returned %d", resp.StatusCode)}
	}

	status, err := decodeRunStatus(resp.Body)
	if err != nil {
		return nil, &model.PollError{Err: err}
	}
	return status, nil
}

// decodeRunStatus reads the full body, keeping it as the run payload, and
// lowercases the status field for classification.
func decodeRunStatus(body io.Reader) (*core.RunStatus, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read run status: %w", err)
	}

	var envelope struct {
		Status any `json:"status"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode run status: %w", err)
	}

	status := ""
	if envelope.Status != nil {
		status = strings.ToLower(fmt.Sprint(envelope.Status))
	}

	return &core.RunStatus{Status: status, Payload: json.RawMessage(raw)}, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
