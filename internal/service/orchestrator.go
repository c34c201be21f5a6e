package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/masumi-network/kodosumi-bridge/config"
	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
	"github.com/masumi-network/kodosumi-bridge/internal/observability/metrics"
	"github.com/masumi-network/kodosumi-bridge/internal/observability/statsd"
)

// OrchestratorOptions groups dependencies for Orchestrator.
type OrchestratorOptions struct {
	Store     core.JobStore      // Required: job record store
	Payments  core.PaymentClient // Required: payment network client
	Flows     core.FlowClient    // Required: flow execution service client
	Schema    *SchemaService     // Required: submission input schema
	Extractor *ResultExtractor   // Required: result projection for status reads
	Flow      config.FlowConfig  // Required: flow resolution and polling settings
	Logger    *slog.Logger       // Optional: structured logger
	Metrics   statsd.Sink        // Optional: lifecycle metric sink
}

// Orchestrator drives each paid submission through its full lifecycle:
// payment request, confirmation wait, flow-service login, flow resolution and
// trigger, then polling until the run lands in a terminal state. All lifecycle
// work after submission happens on a per-job goroutine; Submit returns as soon
// as the payment request exists.
type Orchestrator struct {
	store     core.JobStore
	payments  core.PaymentClient
	flows     core.FlowClient
	schema    *SchemaService
	extractor *ResultExtractor
	cfg       config.FlowConfig
	logger    *slog.Logger
	metrics   statsd.Sink

	successSet map[string]struct{}
	errorSet   map[string]struct{}

	// lifecycle holds every background run; Shutdown cancels it after
	// draining or on deadline.
	lifecycle context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("JobStore is required")
	case opts.Payments == nil:
		return nil, errors.New("PaymentClient is required")
	case opts.Flows == nil:
		return nil, errors.New("FlowClient is required")
	case opts.Schema == nil:
		return nil, errors.New("SchemaService is required")
	case opts.Extractor == nil:
		return nil, errors.New("ResultExtractor is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "orchestrator")
		logger.Debug("Orchestrator initialized",
			"flow_name_contains", opts.Flow.NameContains,
			"poll_interval", opts.Flow.PollInterval,
			"poll_timeout", opts.Flow.PollTimeout,
		)
	}

	lifecycle, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		store:      opts.Store,
		payments:   opts.Payments,
		flows:      opts.Flows,
		schema:     opts.Schema,
		extractor:  opts.Extractor,
		cfg:        opts.Flow,
		logger:     logger,
		metrics:    opts.Metrics,
		successSet: statusSet(opts.Flow.SuccessStatuses),
		errorSet:   statusSet(opts.Flow.ErrorStatuses),
		lifecycle:  lifecycle,
		cancel:     cancel,
	}, nil
}

// MustNewOrchestrator constructs an Orchestrator and panics on error.
func MustNewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	svc, err := NewOrchestrator(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Orchestrator: %v", err))
	}
	return svc
}

// Submit validates a submission, records it, requests payment, and schedules
// the background lifecycle. The returned job is in awaiting_payment with its
// payment details populated.
func (o *Orchestrator) Submit(ctx context.Context, purchaserID string, input map[string]any) (*model.Job, error) {
	if err := o.schema.Validate(input); err != nil {
		return nil, err
	}

	hash, err := model.CanonicalInputHash(input)
	if err != nil {
		return nil, err
	}

	job := &model.Job{
		ID:          uuid.NewString(),
		Status:      model.JobStatusSubmitted,
		PurchaserID: purchaserID,
		Input:       input,
		InputHash:   hash,
	}
	if err := o.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("record job: %w", err)
	}

	payment, err := o.payments.CreateRequest(ctx, core.PaymentRequestInput{
		JobID:       job.ID,
		PurchaserID: purchaserID,
		InputHash:   hash,
	})
	if err != nil {
		o.fail(job.ID, err)
		return nil, err
	}

	updated, err := o.store.Update(ctx, job.ID, func(j *model.Job) error {
		if terr := j.Transition(model.JobStatusAwaitingPayment); terr != nil {
			return terr
		}
		j.Payment = payment
		j.Message = "payment request created, awaiting confirmation"
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record payment request: %w", err)
	}

	if o.logger != nil {
		o.logger.InfoContext(ctx, "job submitted",
			"job_id", job.ID,
			"blockchain_identifier", payment.BlockchainIdentifier,
		)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(updated.ID, payment.BlockchainIdentifier)
	}()

	return updated, nil
}

// JobStatusView is a job record paired with the extracted result string, when
// one is available.
type JobStatusView struct {
	Job    *model.Job
	Result *string
}

// Status returns the current view of a job. Reads are idempotent: a terminal
// job always yields the same view.
func (o *Orchestrator) Status(ctx context.Context, id string) (*JobStatusView, error) {
	job, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &JobStatusView{Job: job}
	if job.Status == model.JobStatusCompleted && len(job.Result) > 0 {
		result, exerr := o.extractor.Extract(job.Result)
		if exerr != nil {
			if o.logger != nil {
				o.logger.WarnContext(ctx, "result extraction failed", "job_id", id, "error", exerr)
			}
		} else {
			view.Result = result
		}
	}
	return view, nil
}

// Shutdown waits for in-flight job lifecycles to finish. When ctx expires
// first, the remaining lifecycles are cancelled and ctx's error is returned.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	if o.logger != nil {
		o.logger.Info("waiting for in-flight jobs")
	}

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.cancel()
		return nil
	case <-ctx.Done():
		o.cancel()
		<-done
		return ctx.Err()
	}
}

// run drives one job from awaiting_payment to a terminal state.
func (o *Orchestrator) run(jobID, blockchainID string) {
	ctx := o.lifecycle
	start := time.Now()

	if err := o.payments.AwaitConfirmation(ctx, blockchainID); err != nil {
		o.fail(jobID, err)
		return
	}
	if _, err := o.advance(ctx, jobID, model.JobStatusPaymentConfirmed, func(j *model.Job) {
		j.Message = "payment confirmed"
	}); err != nil {
		o.fail(jobID, err)
		return
	}
	o.emit(string(model.JobStatusPaymentConfirmed), metrics.ResultSuccess, time.Since(start), nil)

	if _, err := o.advance(ctx, jobID, model.JobStatusAuthenticating, nil); err != nil {
		o.fail(jobID, err)
		return
	}
	session, err := o.flows.Authenticate(ctx)
	if err != nil {
		o.fail(jobID, err)
		return
	}

	job, err := o.advance(ctx, jobID, model.JobStatusTriggering, nil)
	if err != nil {
		o.fail(jobID, err)
		return
	}

	flows, err := o.flows.ListFlows(ctx, session)
	if err != nil {
		o.fail(jobID, err)
		return
	}
	match, err := ResolveFlow(flows, o.cfg.NameContains)
	if err != nil {
		o.fail(jobID, err)
		return
	}
	if match.Total > 1 && o.logger != nil {
		o.logger.WarnContext(ctx, "flow name fragment is ambiguous",
			"job_id", jobID,
			"fragment", o.cfg.NameContains,
			"matches", match.Total,
			"selected", match.Flow.Summary,
		)
	}

	payload := map[string]string{
		o.cfg.PayloadInputKey: o.schema.PrimaryValue(job.Input),
	}
	trigger, err := o.flows.Trigger(ctx, session, match.Flow, payload)
	if err != nil {
		o.fail(jobID, err)
		return
	}

	if _, err := o.store.Update(ctx, jobID, func(j *model.Job) error {
		j.FlowName = match.Flow.Summary
		j.FlowMatches = match.Total
		if trigger.Handle != "" {
			handle := trigger.Handle
			j.RunHandle = &handle
		}
		return nil
	}); err != nil {
		o.fail(jobID, err)
		return
	}

	// Some runs finish inside the trigger call and never hand out a poll
	// handle.
	if trigger.Immediate != nil {
		o.settle(ctx, jobID, blockchainID, trigger.Immediate, start)
		return
	}
	if trigger.Handle == "" {
		o.fail(jobID, &model.TriggerError{Reason: "trigger returned neither a run handle nor a terminal status"})
		return
	}

	if _, err := o.advance(ctx, jobID, model.JobStatusPolling, func(j *model.Job) {
		j.Message = "run started, polling for completion"
	}); err != nil {
		o.fail(jobID, err)
		return
	}

	o.pollRun(ctx, jobID, blockchainID, session, trigger.Handle, start)
}

// pollRun queries the run at a fixed interval until it reports a terminal
// status or the polling budget runs out. Individual query failures are
// transient and retried at the next tick.
func (o *Orchestrator) pollRun(ctx context.Context, jobID, blockchainID string, session core.Session, handle string, start time.Time) {
	deadline := time.Now().Add(o.cfg.PollTimeout)

	for {
		if !time.Now().Before(deadline) {
			o.timeOut(jobID, start)
			return
		}

		select {
		case <-ctx.Done():
			o.fail(jobID, ctx.Err())
			return
		case <-time.After(o.cfg.PollInterval):
		}

		status, err := o.flows.Poll(ctx, session, handle)
		if err != nil {
			if o.logger != nil {
				o.logger.WarnContext(ctx, "run status query failed, retrying",
					"job_id", jobID,
					"handle", handle,
					"error", err,
				)
			}
			continue
		}

		switch o.classify(status.Status) {
		case runSucceeded:
			o.complete(ctx, jobID, blockchainID, status.Payload, start)
			return
		case runFailed:
			o.failRun(jobID, status, start)
			return
		default:
			// Still running.
		}
	}
}

// settle resolves a run that reported a terminal status directly from the
// trigger call.
func (o *Orchestrator) settle(ctx context.Context, jobID, blockchainID string, status *core.RunStatus, start time.Time) {
	switch o.classify(status.Status) {
	case runSucceeded:
		o.complete(ctx, jobID, blockchainID, status.Payload, start)
	case runFailed:
		o.failRun(jobID, status, start)
	default:
		o.fail(jobID, &model.TriggerError{
			Reason: fmt.Sprintf("trigger returned unrecognized terminal status %q", status.Status),
		})
	}
}

type runOutcome int

const (
	runPending runOutcome = iota
	runSucceeded
	runFailed
)

func (o *Orchestrator) classify(status string) runOutcome {
	if _, ok := o.successSet[status]; ok {
		return runSucceeded
	}
	if _, ok := o.errorSet[status]; ok {
		return runFailed
	}
	return runPending
}

func (o *Orchestrator) complete(ctx context.Context, jobID, blockchainID string, payload json.RawMessage, start time.Time) {
	_, err := o.store.Update(ctx, jobID, func(j *model.Job) error {
		if terr := j.Transition(model.JobStatusCompleted); terr != nil {
			return terr
		}
		j.Result = payload
		j.Message = "run completed"
		j.Error = nil
		return nil
	})
	if err != nil {
		o.fail(jobID, err)
		return
	}

	if o.logger != nil {
		o.logger.Info("job completed", "job_id", jobID, "duration", time.Since(start))
	}
	o.emit(string(model.JobStatusCompleted), metrics.ResultSuccess, time.Since(start), nil)

	// Fund unlock is best-effort: the job result stands even when the
	// payment network cannot be reached.
	if err := o.payments.Complete(ctx, blockchainID, payload); err != nil && o.logger != nil {
		o.logger.Warn("payment completion failed",
			"job_id", jobID,
			"blockchain_identifier", blockchainID,
			"error", err,
		)
	}
}

// failRun marks a job failed because the run itself ended unsuccessfully.
// The remote payload is kept on the record for diagnosis.
func (o *Orchestrator) failRun(jobID string, status *core.RunStatus, start time.Time) {
	_, err := o.store.Update(context.Background(), jobID, func(j *model.Job) error {
		if terr := j.Transition(model.JobStatusFailed); terr != nil {
			return terr
		}
		j.Result = status.Payload
		j.Error = &model.JobError{
			Code:    model.ErrCodeFlowExecution,
			Message: fmt.Sprintf("run ended with status %q", status.Status),
		}
		return nil
	})
	if err != nil && o.logger != nil {
		o.logger.Error("failed to record run failure", "job_id", jobID, "error", err)
	}

	if o.logger != nil {
		o.logger.Warn("job failed", "job_id", jobID, "run_status", status.Status)
	}
	o.emit(string(model.JobStatusFailed), metrics.ResultError, time.Since(start), nil)
}

func (o *Orchestrator) timeOut(jobID string, start time.Time) {
	_, err := o.store.Update(context.Background(), jobID, func(j *model.Job) error {
		if terr := j.Transition(model.JobStatusTimedOut); terr != nil {
			return terr
		}
		j.Error = &model.JobError{
			Code:    model.ErrCodeTimedOut,
			Message: fmt.Sprintf("run did not finish within %s", o.cfg.PollTimeout),
		}
		return nil
	})
	if err != nil && o.logger != nil {
		o.logger.Error("failed to record timeout", "job_id", jobID, "error", err)
	}

	if o.logger != nil {
		o.logger.Warn("job timed out", "job_id", jobID, "poll_timeout", o.cfg.PollTimeout)
	}
	o.emit(string(model.JobStatusTimedOut), metrics.ResultError, time.Since(start), nil)
}

// fail marks a job failed from a lifecycle error, mapping the error to its
// taxonomy code.
func (o *Orchestrator) fail(jobID string, cause error) {
	_, err := o.store.Update(context.Background(), jobID, func(j *model.Job) error {
		if terr := j.Transition(model.JobStatusFailed); terr != nil {
			return terr
		}
		j.Error = &model.JobError{
			Code:    model.ErrorCode(cause),
			Message: cause.Error(),
		}
		return nil
	})
	if err != nil && o.logger != nil {
		o.logger.Error("failed to record job failure", "job_id", jobID, "error", err)
	}

	if o.logger != nil {
		o.logger.Warn("job failed", "job_id", jobID, "error", cause)
	}
	o.emit(string(model.JobStatusFailed), metrics.ResultError, 0, cause)
}

// advance applies a status transition plus an optional extra mutation.
func (o *Orchestrator) advance(ctx context.Context, jobID string, next model.JobStatus, mutate func(*model.Job)) (*model.Job, error) {
	return o.store.Update(ctx, jobID, func(j *model.Job) error {
		if err := j.Transition(next); err != nil {
			return err
		}
		if mutate != nil {
			mutate(j)
		}
		return nil
	})
}

func (o *Orchestrator) emit(status, result string, d time.Duration, cause error) {
	metrics.EmitJobTransition(o.metrics, metrics.JobMetric{
		Status:   status,
		Result:   result,
		Duration: d,
		Err:      cause,
	})
}

func statusSet(statuses []string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}
