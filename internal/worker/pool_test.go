package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// newIdlePool builds a pool with a live context but no running workers, so
// queue behavior can be tested without external dependencies.
func newIdlePool(queueSize int) (*Pool, context.CancelFunc) {
	cfg := PoolConfig{
		QueueSize: queueSize,
		Logger:    zap.NewNop(),
	}
	pool := &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool.ctx = ctx
	pool.cancel = cancel
	return pool, cancel
}

func TestEnqueueFull(t *testing.T) {
	pool, cancel := newIdlePool(1)
	defer cancel()

	if !pool.Enqueue(&models.RawLeagueEvent{Type: models.EventWeeklyScore, Week: 1}) {
		t.Fatal("Failed to enqueue first event")
	}

	// Second event must be shed immediately, not block.
	start := time.Now()
	enqueued := pool.Enqueue(&models.RawLeagueEvent{Type: models.EventWeeklyScore, Week: 2})
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
}

func TestEnqueueAfterShutdown(t *testing.T) {
	pool, cancel := newIdlePool(10)
	cancel()

	if pool.Enqueue(&models.RawLeagueEvent{Type: models.EventWeeklyScore}) {
		t.Error("Enqueue should return false after the pool context is cancelled")
	}
}

func TestEnqueueClosedQueueDoesNotPanic(t *testing.T) {
	pool, cancel := newIdlePool(10)
	cancel()
	close(pool.jobQueue)

	// The recover path must swallow the send-on-closed-channel panic.
	if pool.Enqueue(&models.RawLeagueEvent{Type: models.EventWeeklyScore}) {
		t.Error("Enqueue should return false on a closed queue")
	}
}

func TestQueueDepth(t *testing.T) {
	pool, cancel := newIdlePool(5)
	defer cancel()

	if got := pool.QueueDepth(); got != 0 {
		t.Errorf("empty queue depth = %d, want 0", got)
	}
	pool.Enqueue(&models.RawLeagueEvent{Type: models.EventWeeklyScore})
	pool.Enqueue(&models.RawLeagueEvent{Type: models.EventPlayerLine})
	if got := pool.QueueDepth(); got != 2 {
		t.Errorf("queue depth = %d, want 2", got)
	}
}
