// Package mocks provides mock implementations for testing the kodosumi-bridge job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// orchestrator's port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	payments := mocks.NewMockPaymentClient(ctrl)
//	payments.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(request, nil)
package mocks

// Generate mock for PaymentClient interface from internal/core package.
// This creates MockPaymentClient with methods for all PaymentClient interface methods:
// CreateRequest, AwaitConfirmation, Complete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_client_mock.go github.com/masumi-network/kodosumi-bridge/internal/core PaymentClient

// Generate mock for FlowClient interface from internal/core package.
// This creates MockFlowClient with methods for all FlowClient interface methods:
// Authenticate, ListFlows, Trigger, Poll
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=flow_client_mock.go github.com/masumi-network/kodosumi-bridge/internal/core FlowClient
