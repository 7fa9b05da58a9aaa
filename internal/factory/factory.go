package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/numberparty/numberparty/internal/api"
	apimiddleware "github.com/numberparty/numberparty/internal/api/middleware"
	"github.com/numberparty/numberparty/internal/api/sse"
	"github.com/numberparty/numberparty/internal/config"
	"github.com/numberparty/numberparty/internal/dependencies/clock"
	"github.com/numberparty/numberparty/internal/dependencies/random"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/conn"
	"github.com/numberparty/numberparty/internal/services/engine"
	"github.com/numberparty/numberparty/internal/services/registry"
	"github.com/numberparty/numberparty/internal/services/scoring"
	"github.com/numberparty/numberparty/internal/storage"
	"github.com/numberparty/numberparty/internal/storage/memory"
	redisstorage "github.com/numberparty/numberparty/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry       *registry.Registry
	ScoringService *scoring.Service
	Engine         *engine.Engine
	ConnManager    *conn.Manager
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
}

// New creates a new application with all dependencies wired
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("NP_REDIS_URL required when storage is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid storage type: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg config.Config, logger *slog.Logger) *App {
	reg := registry.New(store, clk, rnd, registry.Config{
		CodeLength:      cfg.RoomCodeLength,
		CodeAlphabet:    config.RoomCodeAlphabet,
		SacrificeBudget: cfg.SacrificeBudget,
		RoomTTL:         cfg.RoomTTL,
		FinishedRoomTTL: cfg.FinishedRoomTTL,
	}, logger)

	scoringService := scoring.New(cfg.SacrificePenalty)

	eng := engine.New(reg, scoringService, clk, rnd, engine.Config{
		MaxPlayers: cfg.MaxPlayers,
	}, logger)

	conns := conn.NewManager(reg, clk, conn.Config{
		GracePeriod: cfg.AdminGracePeriod,
	}, logger)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	// Room teardown, whatever triggers it, ends with the same broadcast
	reg.SetEvictHook(func(code model.RoomCode) {
		broadcaster.RoomClosed(code, "expired")
	})
	conns.SetCloseHook(func(code model.RoomCode) {
		broadcaster.RoomClosed(code, "admin-left")
	})

	return &App{
		Config:         cfg,
		Logger:         logger,
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		ScoringService: scoringService,
		Engine:         eng,
		ConnManager:    conns,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}

// Router builds the HTTP handler for the app
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:      a.Logger,
		Registry:    a.Registry,
		Engine:      a.Engine,
		ConnManager: a.ConnManager,
		HubManager:  a.HubManager,
		Broadcaster: a.Broadcaster,
		AdminKey: apimiddleware.AdminKeyConfig{
			Key:  a.Config.AdminKey,
			Hash: a.Config.AdminKeyHash,
		},
		CORSOrigins:        a.Config.CORSOrigins,
		DefaultNumberRange: a.Config.NumberRange,
	})
}
