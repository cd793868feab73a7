package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	handled  []Job
	failKind string
	failures int
}

func (r *recorder) handle(_ context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.Kind == r.failKind && r.failures > 0 {
		r.failures--
		return errors.New("transient failure")
	}
	r.handled = append(r.handled, job)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handled)
}

func TestQueueProcessesJobs(t *testing.T) {
	rec := &recorder{}
	q := NewQueue("test", rec.handle, Config{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "j", Kind: "work"}))
	}
	assert.Eventually(t, func() bool { return rec.count() == 5 }, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	rec := &recorder{failKind: "flaky", failures: 2}
	q := NewQueue("test", rec.handle, Config{Workers: 1, MaxRetries: 3, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j-1", Kind: "flaky"}))
	assert.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", (&recorder{}).handle, Config{})
	assert.Error(t, q.Enqueue(Job{ID: "j-1", Kind: "work"}))
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue("test", (&recorder{}).handle, Config{Workers: 1})
	q.Stop() // never started

	q.Start(context.Background())
	q.Stop()
	q.Stop()
}

func TestQueueStampsEnqueueTime(t *testing.T) {
	var got Job
	var mu sync.Mutex
	done := make(chan struct{})
	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		got = job
		mu.Unlock()
		close(done)
		return nil
	}, Config{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j-1", Kind: "work"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, got.Enqueued.IsZero())
}
