package jobqueue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) OwnedKeyForURL(url, ownerID string) (string, bool) {
	const base = "https://cdn.test/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if !strings.Contains(key, "/"+ownerID+"/") {
		return "", false
	}
	return key, true
}

type recordingQueue struct {
	jobs []*Job
	err  error
}

func (q *recordingQueue) EnqueueJob(_ context.Context, jobType JobType, payload map[string]interface{}) (*Job, error) {
	if q.err != nil {
		return nil, q.err
	}
	job := &Job{ID: "job-" + string(rune('a'+len(q.jobs))), Type: jobType, Payload: payload}
	q.jobs = append(q.jobs, job)
	return job, nil
}

func TestCleanerEnqueuesBucketURLsOnce(t *testing.T) {
	q := &recordingQueue{}
	c := NewCleaner(q, &fakeBucket{})

	c.Discard(context.Background(), "acc-1", "app-1",
		"https://cdn.test/appfolio/screenshots/acc-1/a.png",
		"https://elsewhere.test/b.png",
		"",
		"https://cdn.test/appfolio/screenshots/acc-1/a.png",
	)

	require.Len(t, q.jobs, 1)
	assert.Equal(t, JobTypeObjectDelete, q.jobs[0].Type)

	payload, err := ObjectDeletePayloadFromMap(q.jobs[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "appfolio/screenshots/acc-1/a.png", payload.ObjectKey)
	assert.Equal(t, "https://cdn.test/appfolio/screenshots/acc-1/a.png", payload.SourceURL)
	assert.Equal(t, "acc-1", payload.OwnerID)
	assert.Equal(t, "app-1", payload.AppID)
}

func TestCleanerSkipsOtherOwnersObjects(t *testing.T) {
	q := &recordingQueue{}
	c := NewCleaner(q, &fakeBucket{})

	c.Discard(context.Background(), "acc-2", "app-2",
		"https://cdn.test/appfolio/covers/acc-1/cover.jpg",
		"https://cdn.test/appfolio/screenshots/acc-1/a.png",
	)
	assert.Empty(t, q.jobs)
}

func TestCleanerSwallowsEnqueueErrors(t *testing.T) {
	q := &recordingQueue{err: errors.New("redis down")}
	c := NewCleaner(q, &fakeBucket{})

	assert.NotPanics(t, func() {
		c.Discard(context.Background(), "acc-1", "app-1", "https://cdn.test/appfolio/covers/acc-1/c.jpg")
	})
	assert.Empty(t, q.jobs)
}

func TestObjectDeleteHandler(t *testing.T) {
	bucket := &fakeBucket{}
	h := NewObjectDeleteHandler(bucket)

	job := &Job{Type: JobTypeObjectDelete, Payload: ObjectDeletePayload{ObjectKey: "appfolio/covers/c.jpg"}.ToMap()}
	require.NoError(t, h(context.Background(), job))
	assert.Equal(t, []string{"appfolio/covers/c.jpg"}, bucket.deleted)

	err := h(context.Background(), &Job{Type: JobTypeObjectDelete, Payload: map[string]interface{}{}})
	assert.Error(t, err)

	bucket.err = errors.New("access denied")
	assert.EqualError(t, h(context.Background(), job), "access denied")
}

func TestJobRetryBookkeeping(t *testing.T) {
	job := &Job{MaxRetries: 2}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("boom")
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.False(t, job.IsRetryable())

	job.MarkAsFailed("boom again")
	assert.Equal(t, 2, job.RetryCount)
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	assert.NotNil(t, job.CompletedAt)
}
