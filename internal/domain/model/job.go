// Package model defines the core data types used throughout the kodosumi-bridge job system.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus represents the current phase of a job's lifecycle.
type JobStatus string

const (
	// JobStatusSubmitted indicates the record exists but no payment request
	// has been issued yet.
	JobStatusSubmitted JobStatus = "submitted"
	// JobStatusAwaitingPayment indicates a payment request was created and
	// the job is waiting for on-chain confirmation.
	JobStatusAwaitingPayment JobStatus = "awaiting_payment"
	// JobStatusPaymentConfirmed indicates the payment network signalled
	// confirmation; remote orchestration may begin.
	JobStatusPaymentConfirmed JobStatus = "payment_confirmed"
	// JobStatusAuthenticating indicates a session with the flow execution
	// service is being established.
	JobStatusAuthenticating JobStatus = "authenticating"
	// JobStatusTriggering indicates the target flow is being resolved and
	// started.
	JobStatusTriggering JobStatus = "triggering"
	// JobStatusPolling indicates the triggered run is being polled for a
	// terminal status.
	JobStatusPolling JobStatus = "polling"
	// JobStatusCompleted is terminal: the run finished and Result is set.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed is terminal: a phase failed and Error is set.
	JobStatusFailed JobStatus = "failed"
	// JobStatusTimedOut is terminal: the polling budget was exhausted before
	// the run reported a terminal status.
	JobStatusTimedOut JobStatus = "timed_out"
)

// statusRank orders the lifecycle so transitions can be checked for
// monotonicity. All terminal states share the highest rank.
var statusRank = map[JobStatus]int{
	JobStatusSubmitted:        1,
	JobStatusAwaitingPayment:  2,
	JobStatusPaymentConfirmed: 3,
	JobStatusAuthenticating:   4,
	JobStatusTriggering:       5,
	JobStatusPolling:          6,
	JobStatusCompleted:        7,
	JobStatusFailed:           7,
	JobStatusTimedOut:         7,
}

// Valid returns true if the JobStatus is a known lifecycle state.
func (s JobStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal returns true for states from which no further transition occurs.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusTimedOut
}

// CanTransitionTo reports whether moving from s to next respects the state
// machine: strictly forward, never out of a terminal state.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	from, ok := statusRank[s]
	if !ok || s.Terminal() {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// PaymentRequest holds the payment-network details returned when a payment
// request is created. Set once on the job record, immutable thereafter.
type PaymentRequest struct {
	BlockchainIdentifier      string `json:"blockchainIdentifier"`
	SubmitResultTime          string `json:"submitResultTime,omitempty"`
	UnlockTime                string `json:"unlockTime,omitempty"`
	ExternalDisputeUnlockTime string `json:"externalDisputeUnlockTime,omitempty"`
}

// JobError is the structured failure reason recorded on a terminally failed
// job. Code is one of the ErrCode* constants.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Job is the central record of one paid submission, from creation through a
// terminal state. Only the orchestrator mutates it, always through the store.
type Job struct {
	ID          string         `json:"id"`
	Status      JobStatus      `json:"status"`
	PurchaserID string         `json:"identifier_from_purchaser"`
	Input       map[string]any `json:"input_data"`
	InputHash   string         `json:"input_hash"`

	Payment   *PaymentRequest `json:"payment,omitempty"`
	RunHandle *string         `json:"run_handle,omitempty"`

	// FlowName records the resolved flow for operability; FlowMatches > 1
	// surfaces ambiguous name resolution.
	FlowName    string `json:"flow_name,omitempty"`
	FlowMatches int    `json:"flow_matches,omitempty"`

	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JobError       `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transition moves the job to next, rejecting backward or out-of-terminal
// moves so a buggy caller cannot rewind the lifecycle.
func (j *Job) Transition(next JobStatus) error {
	if !j.Status.CanTransitionTo(next) {
		return fmt.Errorf("invalid job transition %s -> %s", j.Status, next)
	}
	j.Status = next
	return nil
}

// CanonicalInputHash returns the SHA-256 hex digest of the canonical JSON
// encoding of the input payload. encoding/json writes map keys in sorted
// order, which makes the digest stable across submissions.
func CanonicalInputHash(input map[string]any) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode input for hashing: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalRawHash digests an already-encoded JSON document. Empty input
// hashes to the digest of an empty object so callers always get a value.
func CanonicalRawHash(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
