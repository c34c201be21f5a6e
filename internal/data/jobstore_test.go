package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

func newJob(id string) *model.Job {
	return &model.Job{
		ID:     id,
		Status: model.JobStatusSubmitted,
		Input:  map[string]any{"topic": "ai"},
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	require.NoError(t, store.Create(ctx, newJob("j1")))

	got, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got.ID)
	assert.Equal(t, model.JobStatusSubmitted, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	require.NoError(t, store.Create(ctx, newJob("j1")))
	err := store.Create(ctx, newJob("j1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateJob)
	assert.Equal(t, 1, store.Len())
}

func TestGetMissing(t *testing.T) {
	store := NewMemoryJobStore()
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestUpdateAppliesMutationAtomically(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, newJob("j1")))

	updated, err := store.Update(ctx, "j1", func(j *model.Job) error {
		if err := j.Transition(model.JobStatusAwaitingPayment); err != nil {
			return err
		}
		j.Message = "Awaiting payment confirmation."
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusAwaitingPayment, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestUpdateErrorLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, newJob("j1")))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "j1", func(j *model.Job) error {
		j.Message = "should not persist"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Empty(t, got.Message)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, newJob("j1")))

	got, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	got.Message = "caller-side scribble"

	fresh, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Message)
}

func TestConcurrentUpdatesToSameRecordSerialize(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	job := newJob("j1")
	job.FlowMatches = 0
	require.NoError(t, store.Create(ctx, job))

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "j1", func(j *model.Job) error {
				j.FlowMatches++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, workers, got.FlowMatches)
}

func TestConcurrentCreatesAcrossRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Create(ctx, newJob(fmt.Sprintf("job-%d", i))))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, store.Len())
}
