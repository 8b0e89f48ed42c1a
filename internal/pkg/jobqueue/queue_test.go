package jobqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/internal/pkg/cache"
)

const isolatedJobQueueTestRedisDB = 14

// newTestRedis connects to CACHE_HOST (default localhost) on a scratch DB and
// skips the test when no server answers.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	cfg := cache.LoadConfig()
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       isolatedJobQueueTestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Skipping Redis-dependent test: %v", err)
	}
	require.NoError(t, client.FlushDB(context.Background()).Err())

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
}

func TestNewQueueDefaults(t *testing.T) {
	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"explicit", 5, 5},
		{"zero", 0, DefaultWorkers},
		{"negative", -1, DefaultWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(nil, tt.workers)
			assert.Equal(t, tt.expectedWorkers, q.workers)
			assert.False(t, q.running)
			assert.NoError(t, q.Stop())
		})
	}
}

func TestQueueRunsHandlers(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	q := NewQueue(client, 2)
	q.pollTimeout = 100 * time.Millisecond

	var seen atomic.Value
	q.Handle(JobTypeObjectDelete, func(_ context.Context, job *Job) error {
		p, err := ObjectDeletePayloadFromMap(job.Payload)
		if err != nil {
			return err
		}
		seen.Store(p.ObjectKey)
		return nil
	})
	q.Start()
	t.Cleanup(func() { _ = q.Stop() })

	job, err := q.EnqueueJob(ctx, JobTypeObjectDelete, ObjectDeletePayload{ObjectKey: "appfolio/covers/c.jpg"}.ToMap())
	require.NoError(t, err)

	waitFor(t, func() bool { return seen.Load() == "appfolio/covers/c.jpg" })
	waitFor(t, func() bool {
		_, err := q.GetJob(ctx, job.ID)
		return errors.Is(err, redis.Nil)
	})

	waitFor(t, func() bool {
		stats, err := q.GetJobStats(ctx)
		return err == nil && stats[JobStatusCompleted] == 1
	})
	processing, err := q.GetProcessingSize(ctx)
	require.NoError(t, err)
	assert.Zero(t, processing)
}

func TestQueueRetriesThenFails(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	q := NewQueue(client, 1)
	q.pollTimeout = 100 * time.Millisecond
	q.retryDelay = 10 * time.Millisecond

	var attempts atomic.Int32
	q.Handle(JobTypeObjectDelete, func(context.Context, *Job) error {
		attempts.Add(1)
		return errors.New("bucket unavailable")
	})
	q.Start()
	t.Cleanup(func() { _ = q.Stop() })

	job, err := q.EnqueueJob(ctx, JobTypeObjectDelete, ObjectDeletePayload{ObjectKey: "k"}.ToMap())
	require.NoError(t, err)

	waitFor(t, func() bool {
		stored, err := q.GetJob(ctx, job.ID)
		return err == nil && stored.Status == JobStatusFailed && stored.RetryCount == DefaultMaxRetries
	})
	assert.Equal(t, int32(DefaultMaxRetries), attempts.Load())

	stats, err := q.GetJobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[JobStatusFailed])
}

func TestRecoverStuckRequeuesOldJobs(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	q := NewQueue(client, 1)
	job, err := q.EnqueueJob(ctx, JobTypeObjectDelete, ObjectDeletePayload{ObjectKey: "k"}.ToMap())
	require.NoError(t, err)

	// Simulate a worker that died after claiming the job.
	claimed, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	claimed.MarkAsProcessing()
	q.updateJob(ctx, claimed)

	n, err := q.RecoverStuck(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = q.RecoverStuck(ctx, time.Now().Add(q.stuckAfter+time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := q.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, stored.Status)
}
