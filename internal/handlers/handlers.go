package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/logic"
	"github.com/dynastywire/narrative-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the event ingestion worker pool
type IngestQueue interface {
	Enqueue(event *models.RawLeagueEvent) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool IngestQueue
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	History   logic.HistoryService
	Deriver   logic.DeriverService
	Memory    logic.MemoryService
	Cycle     logic.CycleService
	Forecasts logic.ForecastStore
	Simulator logic.SimulatorService
	Baselines logic.BaselineService
	// League shape
	Season           int
	PlayoffStartWeek int
}

type Handler struct {
	pool      IngestQueue
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
	history   logic.HistoryService
	deriver   logic.DeriverService
	memory    logic.MemoryService
	cycle     logic.CycleService
	forecasts logic.ForecastStore
	simulator logic.SimulatorService
	baselines logic.BaselineService
	season    int
	playoffs  int
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:      cfg.WorkerPool,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		history:   cfg.History,
		deriver:   cfg.Deriver,
		memory:    cfg.Memory,
		cycle:     cfg.Cycle,
		forecasts: cfg.Forecasts,
		simulator: cfg.Simulator,
		baselines: cfg.Baselines,
		season:    cfg.Season,
		playoffs:  cfg.PlayoffStartWeek,
	}
}
