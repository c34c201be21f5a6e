package kodosumi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masumi-network/kodosumi-bridge/internal/core"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	return client
}

func TestAuthenticate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "admin", r.URL.Query().Get("name"))
		require.Equal(t, "secret", r.URL.Query().Get("password"))
		_, _ = w.Write([]byte(`{"KODOSUMI_API_KEY":"key-123"}`))
	}))

	session, err := client.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key-123", session.APIKey)
}

func TestAuthenticateCoalescesConcurrentLogins(t *testing.T) {
	var logins atomic.Int32
	gate := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		<-gate
		_, _ = w.Write([]byte(`{"KODOSUMI_API_KEY":"key-123"}`))
	}))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := client.Authenticate(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "key-123", session.APIKey)
		}()
	}
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), logins.Load())
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := client.Authenticate(context.Background())

	var authErr *model.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestAuthenticateMissingAPIKey(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.Authenticate(context.Background())

	var authErr *model.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestListFlows(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/flow", r.URL.Path)
		require.Equal(t, "key-123", r.Header.Get("kodosumi_api_key"))
		_, _ = w.Write([]byte(`{"items":[
			{"summary":"Hymn Writer Crew","url":"/-/localhost/hymn/"},
			{"summary":"Data Pipeline","url":"/-/localhost/pipeline/"}
		]}`))
	}))

	flows, err := client.ListFlows(context.Background(), core.Session{APIKey: "key-123"})
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, "Hymn Writer Crew", flows[0].Summary)
	assert.Equal(t, "/-/localhost/hymn/", flows[0].URL)
}

func TestTriggerRedirectYieldsHandle(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/-/localhost/hymn/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "AI impact", r.PostForm.Get("topic"))

		w.Header().Set("Location", "/outputs/run-42")
		w.WriteHeader(http.StatusFound)
	}))

	result, err := client.Trigger(context.Background(), core.Session{APIKey: "key-123"},
		core.FlowDescriptor{Summary: "Hymn Writer Crew", URL: "/-/localhost/hymn/"},
		map[string]string{"topic": "AI impact"})
	require.NoError(t, err)

	assert.Equal(t, "/outputs/run-42", result.Handle)
	assert.Nil(t, result.Immediate)
}

func TestTriggerImmediateJSONResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"Finished","final":{"CrewOutput":{"raw":"fast"}}}`))
	}))

	result, err := client.Trigger(context.Background(), core.Session{},
		core.FlowDescriptor{URL: "/f/"}, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Immediate)
	assert.Equal(t, "finished", result.Immediate.Status)
	assert.JSONEq(t, `{"status":"Finished","final":{"CrewOutput":{"raw":"fast"}}}`, string(result.Immediate.Payload))
}

func TestTriggerRedirectWithoutLocation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))

	_, err := client.Trigger(context.Background(), core.Session{}, core.FlowDescriptor{URL: "/f/"}, nil)

	var triggerErr *model.TriggerError
	require.ErrorAs(t, err, &triggerErr)
	assert.Contains(t, err.Error(), "Location")
}

func TestTriggerServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "flow exploded", http.StatusInternalServerError)
	}))

	_, err := client.Trigger(context.Background(), core.Session{}, core.FlowDescriptor{URL: "/f/"}, nil)

	var triggerErr *model.TriggerError
	require.ErrorAs(t, err, &triggerErr)
	assert.Contains(t, err.Error(), "500")
}

func TestPoll(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/outputs/run-42", r.URL.Path)
		require.Equal(t, "key-123", r.Header.Get("kodosumi_api_key"))
		_, _ = w.Write([]byte(`{"status":"RUNNING","progress":0.4}`))
	}))

	status, err := client.Poll(context.Background(), core.Session{APIKey: "key-123"}, "/outputs/run-42")
	require.NoError(t, err)

	assert.Equal(t, "running", status.Status)
	assert.JSONEq(t, `{"status":"RUNNING","progress":0.4}`, string(status.Payload))
}

func TestPollFailureIsTransient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	_, err := client.Poll(context.Background(), core.Session{}, "/outputs/run-42")

	var pollErr *model.PollError
	require.ErrorAs(t, err, &pollErr)
}
