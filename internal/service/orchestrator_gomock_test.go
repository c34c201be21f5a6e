package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/data"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
	"github.com/masumi-network/kodosumi-bridge/internal/mocks"
)

// Exercises the full lifecycle against strict mocks: every remote call happens
// exactly once, and payment confirmation strictly precedes any flow-service
// traffic.
func TestOrchestratorLifecycleCallContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payments := mocks.NewMockPaymentClient(ctrl)
	flows := mocks.NewMockFlowClient(ctrl)

	session := core.Session{APIKey: "key"}
	flow := core.FlowDescriptor{Summary: "Hymn Writer Crew", URL: "/-/localhost/hymn/"}
	payload := json.RawMessage(`{"final":{"CrewOutput":{"raw":"done"}}}`)

	gomock.InOrder(
		payments.EXPECT().
			CreateRequest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in core.PaymentRequestInput) (*model.PaymentRequest, error) {
				assert.Equal(t, "purchaser-1", in.PurchaserID)
				assert.NotEmpty(t, in.InputHash)
				return &model.PaymentRequest{BlockchainIdentifier: "chain-1"}, nil
			}),
		payments.EXPECT().AwaitConfirmation(gomock.Any(), "chain-1").Return(nil),
		flows.EXPECT().Authenticate(gomock.Any()).Return(session, nil),
		flows.EXPECT().ListFlows(gomock.Any(), session).Return([]core.FlowDescriptor{flow}, nil),
		flows.EXPECT().
			Trigger(gomock.Any(), session, flow, map[string]string{"topic": "AI impact"}).
			Return(&core.TriggerResult{Handle: "/outputs/run-1"}, nil),
		flows.EXPECT().
			Poll(gomock.Any(), session, "/outputs/run-1").
			Return(&core.RunStatus{Status: "finished", Payload: payload}, nil),
		payments.EXPECT().Complete(gomock.Any(), "chain-1", payload).Return(nil),
	)

	store := data.NewMemoryJobStore()
	extractor, err := NewResultExtractor("final.CrewOutput.raw")
	require.NoError(t, err)
	orch, err := NewOrchestrator(OrchestratorOptions{
		Store:     store,
		Payments:  payments,
		Flows:     flows,
		Schema:    defaultSchemaService(t),
		Extractor: extractor,
		Flow:      testFlowConfig(),
	})
	require.NoError(t, err)

	job, err := orch.Submit(context.Background(), "purchaser-1", map[string]any{"topic": "AI impact"})
	require.NoError(t, err)

	// Drain the background lifecycle before the controller verifies calls.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, orch.Shutdown(ctx))

	final, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, final.Status)
}
