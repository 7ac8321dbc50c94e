// Package worker implements the buffered worker pool for async league-event
// ingestion. It decouples HTTP request handling from database writes:
// batched ClickHouse inserts, Redis name-table side effects, and graceful
// shutdown with a final flush.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/models"
)

// Prometheus metrics
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrative_events_ingested_total",
		Help: "Total number of league events ingested",
	})

	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrative_events_processed_total",
		Help: "Total number of league events processed by workers",
	})

	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrative_events_failed_total",
		Help: "Total number of league events that failed processing",
	})

	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrative_events_dropped_total",
		Help: "Total number of league events dropped due to load shedding",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "narrative_worker_queue_depth",
		Help: "Current depth of the ingest queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "narrative_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job represents one queued league event
type Job struct {
	Event      *models.RawLeagueEvent
	RawJSON    string
	ReceivedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Redis         *redis.Client
	Logger        *zap.Logger
}

// Pool manages the ingest workers
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Ingest pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the pool, flushing pending batches
func (p *Pool) Stop() {
	p.logger.Info("Stopping ingest pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Ingest pool stopped")
}

// Enqueue adds an event to the queue. Returns false when the pool is
// shutting down or the queue is full (load shedding).
func (p *Pool) Enqueue(event *models.RawLeagueEvent) bool {
	rawJSON, _ := json.Marshal(event)

	job := Job{
		Event:      event,
		RawJSON:    string(rawJSON),
		ReceivedAt: time.Now(),
	}

	// Protect against sending on closed channel during shutdown
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue event (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		eventsIngested.Inc()
		return true
	case <-p.ctx.Done():
		eventsDropped.Inc()
		return false
	default:
		eventsDropped.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed", "worker", id, "batchSize", len(batch), "error", err)
			eventsFailed.Add(float64(len(batch)))
		} else {
			eventsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// processBatch inserts a batch into ClickHouse and updates the Redis name
// tables and live-state keys.
func (p *Pool) processBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO narrative.league_events (
			received_at, event_type, league_id, season, week,
			roster_id, team_name, slot, points,
			player_id, player_name, position, player_points,
			tx_id, tx_kind, parties, assets, pick_count, faab_spend,
			raw_json
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		ev := job.Event
		parties := make([]int32, 0, len(ev.Parties))
		for _, rid := range ev.Parties {
			parties = append(parties, int32(rid))
		}

		err := chBatch.Append(
			job.ReceivedAt,
			string(ev.Type),
			ev.LeagueID,
			uint16(ev.Season),
			uint16(ev.Week),
			int32(ev.RosterID),
			ev.TeamName,
			int32(ev.Slot),
			ev.Points,
			ev.PlayerID,
			ev.PlayerName,
			ev.Position,
			ev.PlayerPts,
			ev.TxID,
			ev.TxKind,
			parties,
			ev.Assets,
			int32(ev.PickCount),
			int32(ev.FAABSpend),
			job.RawJSON,
		)
		if err != nil {
			p.logger.Warnw("Failed to append event to batch", "error", err, "event_type", ev.Type)
			continue
		}
	}

	// Side effects go out on a copy; the batch slice is reused by the worker.
	batchCopy := make([]Job, len(batch))
	copy(batchCopy, batch)
	go p.processSideEffects(ctx, batchCopy)

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "batchSize", len(batch))
		return err
	}
	return nil
}

// processSideEffects maintains the Redis name tables, the latest-week
// marker, and per-player live game-state snapshots in one pipeline.
func (p *Pool) processSideEffects(ctx context.Context, batch []Job) {
	pipe := p.config.Redis.Pipeline()

	for _, job := range batch {
		ev := job.Event
		switch ev.Type {
		case models.EventWeeklyScore:
			if ev.RosterID > 0 && ev.TeamName != "" {
				pipe.HSet(ctx, "league:roster_names", fmt.Sprintf("%d", ev.RosterID), ev.TeamName)
			}
			if ev.Points > 0 {
				pipe.HSet(ctx, fmt.Sprintf("league:last_scores:%d", ev.Season), ev.TeamName, ev.Points)
				latestWeekMax(pipe, ctx, ev.Season, ev.Week)
			}
		case models.EventPlayerLine:
			if ev.PlayerID != "" && ev.PlayerName != "" {
				pipe.HSet(ctx, "league:player_names", ev.PlayerID, ev.PlayerName)
			}
		case models.EventGameState:
			if ev.PlayerID != "" {
				state, _ := json.Marshal(models.GameState{
					Status:       ev.GameStatus,
					Quarter:      ev.Quarter,
					ClockMinutes: ev.ClockMinutes,
					ScoreDiff:    ev.ScoreDiff,
					Possession:   ev.Possession,
					RedZone:      ev.RedZone,
				})
				pipe.HSet(ctx, fmt.Sprintf("league:game_state:%d", ev.Week), ev.PlayerID, state)
			}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		p.logger.Errorw("Redis side-effect pipeline failed", "error", err)
	}
}

// latestWeekMax keeps league:latest_week monotonically increasing
func latestWeekMax(pipe redis.Pipeliner, ctx context.Context, season, week int) {
	// HSETNX-style max is not atomic here; the cycle runner treats this key
	// as a hint and falls back to ClickHouse for the authoritative value.
	pipe.HSet(ctx, "league:latest_week", fmt.Sprintf("%d", season), week)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
