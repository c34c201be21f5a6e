// Package core defines the port interfaces between the orchestrator and its
// collaborators (job store, payment network, flow execution service).
// Service implementations depend on these interfaces, not concrete adapters.
package core

import (
	"context"
	"encoding/json"

	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// JobStore is the process-wide mapping from job identifier to job record.
// Implementations must serialize mutations to the same record; mutations to
// different records may proceed independently.
type JobStore interface {
	// Create inserts a new record. Fails with data.ErrDuplicateJob if the
	// identifier is already present.
	Create(ctx context.Context, job *model.Job) error
	// Get returns a copy of the record. Fails with data.ErrJobNotFound if
	// absent.
	Get(ctx context.Context, id string) (*model.Job, error)
	// Update applies one atomic mutation to a record and returns the updated
	// copy. The mutation is discarded entirely when mutate returns an error.
	Update(ctx context.Context, id string, mutate func(*model.Job) error) (*model.Job, error)
}

// PaymentRequestInput groups the submission details a payment request is
// created from.
type PaymentRequestInput struct {
	JobID       string
	PurchaserID string
	InputHash   string
}

// PaymentClient wraps calls to the payment network.
type PaymentClient interface {
	// CreateRequest registers a payment request for a job and returns its
	// on-chain details. Fails with *model.PaymentServiceError.
	CreateRequest(ctx context.Context, in PaymentRequestInput) (*model.PaymentRequest, error)
	// AwaitConfirmation blocks the calling goroutine (respecting ctx) until
	// the payment network confirms the request, or fails with
	// *model.PaymentTimeoutError when the configured window elapses.
	AwaitConfirmation(ctx context.Context, blockchainIdentifier string) error
	// Complete reports the finished run's result back to the payment network
	// so funds can be unlocked. Best-effort from the orchestrator's view.
	Complete(ctx context.Context, blockchainIdentifier string, result json.RawMessage) error
}

// Session is an authenticated flow-service session.
type Session struct {
	APIKey string
}

// FlowDescriptor identifies one discoverable flow.
type FlowDescriptor struct {
	// Summary is the flow's display name, matched against the configured
	// name fragment.
	Summary string `json:"summary"`
	// URL is the invocation target, relative to the service base URL.
	URL string `json:"url"`
}

// RunStatus is one observation of a triggered run.
type RunStatus struct {
	// Status is the remote status value, lowercased.
	Status string
	// Payload is the full response body the status was read from.
	Payload json.RawMessage
}

// TriggerResult is the outcome of starting a flow: either a handle to poll,
// or — for runs that finish inside the trigger call — an immediate status.
type TriggerResult struct {
	Handle    string
	Immediate *RunStatus
}

// FlowClient wraps calls to the remote flow execution service. Credentials
// are fixed at construction.
type FlowClient interface {
	// Authenticate obtains a session. Fails with *model.AuthenticationError.
	Authenticate(ctx context.Context) (Session, error)
	// ListFlows returns the flows discoverable in the session.
	ListFlows(ctx context.Context, s Session) ([]FlowDescriptor, error)
	// Trigger starts a flow with the given form payload. Fails with
	// *model.TriggerError.
	Trigger(ctx context.Context, s Session, flow FlowDescriptor, payload map[string]string) (*TriggerResult, error)
	// Poll fetches the current status of a run. Fails with *model.PollError,
	// which the orchestrator treats as transient.
	Poll(ctx context.Context, s Session, handle string) (*RunStatus, error)
}
