package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/scene"
)

func makeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{ID: fmt.Sprintf("plan_%d", i)}
	}
	return jobs
}

func TestPoolRunsEveryJobInOrder(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	pool := &Pool{
		Concurrency: 4,
		Log:         zap.NewNop(),
		Process: func(ctx context.Context, job Job) (*scene.Result, error) {
			calls.Add(1)
			return &scene.Result{ID: job.ID}, nil
		},
	}

	jobs := makeJobs(10)
	outcomes := pool.Run(context.Background(), jobs)
	require.Len(t, outcomes, 10)
	assert.Equal(t, int32(10), calls.Load())
	for i, oc := range outcomes {
		require.NoError(t, oc.Err)
		assert.Equal(t, jobs[i].ID, oc.Result.ID, "outcomes keep job order")
		assert.False(t, oc.Finished.Before(oc.Started))
	}
}

func TestPoolLimitsConcurrency(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	inFlight, peak := 0, 0
	pool := &Pool{
		Concurrency: 2,
		Log:         zap.NewNop(),
		Process: func(ctx context.Context, job Job) (*scene.Result, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()
			defer func() {
				mu.Lock()
				inFlight--
				mu.Unlock()
			}()
			return &scene.Result{ID: job.ID}, nil
		},
	}

	pool.Run(context.Background(), makeJobs(16))
	assert.LessOrEqual(t, peak, 2)
}

func TestPoolReportsFailuresPerJob(t *testing.T) {
	t.Parallel()
	boom := errors.New("bad floorplan")
	pool := &Pool{
		Concurrency: 2,
		Log:         zap.NewNop(),
		Process: func(ctx context.Context, job Job) (*scene.Result, error) {
			if job.ID == "plan_1" {
				return nil, boom
			}
			return &scene.Result{ID: job.ID}, nil
		},
	}

	outcomes := pool.Run(context.Background(), makeJobs(3))
	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.NoError(t, outcomes[2].Err)
}

func TestPoolStopsOnCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	pool := &Pool{
		Concurrency: 2,
		Log:         zap.NewNop(),
		Process: func(ctx context.Context, job Job) (*scene.Result, error) {
			calls.Add(1)
			return nil, nil
		},
	}

	outcomes := pool.Run(ctx, makeJobs(5))
	assert.Zero(t, calls.Load())
	for _, oc := range outcomes {
		assert.ErrorIs(t, oc.Err, context.Canceled)
	}
}
