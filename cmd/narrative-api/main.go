package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/config"
	"github.com/dynastywire/narrative-api/internal/handlers"
	"github.com/dynastywire/narrative-api/internal/llm"
	"github.com/dynastywire/narrative-api/internal/logic"
	"github.com/dynastywire/narrative-api/internal/store"
	"github.com/dynastywire/narrative-api/internal/worker"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to connect to Postgres", "error", err)
	}
	defer pg.Close()

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Failed to parse ClickHouse URL", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
	}
	defer ch.Close()
	if err := ch.Ping(ctx); err != nil {
		sugar.Fatalw("ClickHouse ping failed", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Failed to parse Redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("Redis ping failed", "error", err)
	}

	// Ingest pipeline
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    ch,
		Redis:         rdb,
		Logger:        logger,
	})
	pool.Start(ctx)

	// Stores
	names := store.NewNameTable(rdb, sugar)
	memoryStore := store.NewMemoryStore(rdb, pg, sugar)
	forecastStore := store.NewForecastStore(pg, sugar)

	// External text generation is optional; without it the forecast engine
	// runs heuristic-only.
	var gen logic.TextGenerator
	if cfg.TextGenURL != "" {
		gen = llm.NewClient(cfg.TextGenURL, cfg.TextGenTimeout, sugar)
	}

	// Services
	history := logic.NewHistoryService(ch)
	deriver := logic.NewDeriverService(names, logic.DefaultScoringConfig(), sugar)
	memory := logic.NewMemoryService(memoryStore, sugar)
	forecast := logic.NewForecastService(gen, sugar)
	simulator := logic.NewSimulatorService(cfg.SimTrials, sugar)
	baselines := logic.NewBaselineService(ch)
	cycle := logic.NewCycleService(logic.CycleConfig{
		History:          history,
		Deriver:          deriver,
		Forecast:         forecast,
		Memory:           memoryStore,
		Forecasts:        forecastStore,
		Season:           cfg.Season,
		PlayoffStartWeek: cfg.PlayoffStartWeek,
		Logger:           sugar,
	})

	h := handlers.New(handlers.Config{
		WorkerPool:       pool,
		Redis:            rdb,
		Logger:           logger,
		History:          history,
		Deriver:          deriver,
		Memory:           memory,
		Cycle:            cycle,
		Forecasts:        forecastStore,
		Simulator:        simulator,
		Baselines:        baselines,
		Season:           cfg.Season,
		PlayoffStartWeek: cfg.PlayoffStartWeek,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.NewRouter(h, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env, "season", cfg.Season)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	pool.Stop()
	sugar.Info("Shutdown complete")
}
