package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error codes recorded on terminally failed jobs and used as metric tags.
const (
	ErrCodeValidation     = "validation_error"
	ErrCodePaymentService = "payment_service_error"
	ErrCodePaymentTimeout = "payment_timeout"
	ErrCodeAuthentication = "authentication_error"
	ErrCodeFlowNotFound   = "flow_not_found"
	ErrCodeTrigger        = "trigger_error"
	ErrCodePoll           = "poll_error"
	ErrCodeFlowExecution  = "flow_execution_error"
	ErrCodeTimedOut       = "timed_out"
)

// ValidationError rejects a submission whose payload does not match the
// declared input schema. It is raised before job creation and never enters
// the state machine.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "input validation failed"
	}
	return "input validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Code() string { return ErrCodeValidation }

// PaymentServiceError wraps a payment-network call failure. Propagated, not
// retried.
type PaymentServiceError struct {
	Op  string
	Err error
}

func (e *PaymentServiceError) Error() string {
	return fmt.Sprintf("payment service %s: %v", e.Op, e.Err)
}

func (e *PaymentServiceError) Unwrap() error { return e.Err }

func (e *PaymentServiceError) Code() string { return ErrCodePaymentService }

// PaymentTimeoutError indicates no confirmation arrived within the configured
// window.
type PaymentTimeoutError struct {
	Window time.Duration
}

func (e *PaymentTimeoutError) Error() string {
	return fmt.Sprintf("no payment confirmation within %s", e.Window)
}

func (e *PaymentTimeoutError) Code() string { return ErrCodePaymentTimeout }

// AuthenticationError indicates the flow service rejected the configured
// credentials. Terminal: credentials are static, so retrying cannot succeed.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("flow service authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) Code() string { return ErrCodeAuthentication }

// FlowNotFoundError indicates no discoverable flow matched the configured
// name fragment. Terminal.
type FlowNotFoundError struct {
	Fragment string
}

func (e *FlowNotFoundError) Error() string {
	return fmt.Sprintf("no flow matching %q found", e.Fragment)
}

func (e *FlowNotFoundError) Code() string { return ErrCodeFlowNotFound }

// TriggerError indicates the resolved flow could not be started or did not
// yield a poll handle. Terminal.
type TriggerError struct {
	Reason string
	Err    error
}

func (e *TriggerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flow trigger failed: %s: %v", e.Reason, e.Err)
	}
	return "flow trigger failed: " + e.Reason
}

func (e *TriggerError) Unwrap() error { return e.Err }

func (e *TriggerError) Code() string { return ErrCodeTrigger }

// PollError indicates one run status query failed. Transient: the orchestrator
// retries at the next interval within the polling budget.
type PollError struct {
	Err error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("run status query failed: %v", e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

func (e *PollError) Code() string { return ErrCodePoll }

// ErrorCode maps an error from any lifecycle phase to its taxonomy code.
func ErrorCode(err error) string {
	var (
		validationErr  *ValidationError
		paymentErr     *PaymentServiceError
		paymentTimeout *PaymentTimeoutError
		authErr        *AuthenticationError
		notFoundErr    *FlowNotFoundError
		triggerErr     *TriggerError
		pollErr        *PollError
	)
	switch {
	case errors.As(err, &validationErr):
		return ErrCodeValidation
	case errors.As(err, &paymentTimeout):
		return ErrCodePaymentTimeout
	case errors.As(err, &paymentErr):
		return ErrCodePaymentService
	case errors.As(err, &authErr):
		return ErrCodeAuthentication
	case errors.As(err, &notFoundErr):
		return ErrCodeFlowNotFound
	case errors.As(err, &triggerErr):
		return ErrCodeTrigger
	case errors.As(err, &pollErr):
		return ErrCodePoll
	default:
		return "internal_error"
	}
}
