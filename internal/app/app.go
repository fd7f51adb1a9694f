package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lumalingo/lumalingo-backend/internal/clients/redis"
	"github.com/lumalingo/lumalingo-backend/internal/db"
	"github.com/lumalingo/lumalingo-backend/internal/jobs"
	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	pg        *db.PostgresService
	runLock   redis.RunLock
	scheduler *jobs.TuitionScheduler
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log, cfg.PostgresDSN)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)
	handlerset := wireHandlers(log, serviceset)
	mw := wireMiddleware(log, reposet, serviceset)
	router := wireRouter(log, cfg, handlerset, mw)

	// Multi-replica deployments coordinate the daily sweeps through redis;
	// without redis the lock degrades to process-local.
	var runLock redis.RunLock
	if cfg.RedisAddr != "" {
		runLock, err = redis.NewRunLock(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, using local run lock", "error", err)
			runLock = redis.NewLocalRunLock()
		}
	} else {
		runLock = redis.NewLocalRunLock()
	}

	scheduler := jobs.NewTuitionScheduler(log, serviceset.Billing, runLock,
		cfg.TuitionGenerateAt, cfg.TuitionSweepAt)

	return &App{
		Log:       log,
		DB:        theDB,
		Router:    router,
		Cfg:       cfg,
		Repos:     reposet,
		Services:  serviceset,
		pg:        pg,
		runLock:   runLock,
		scheduler: scheduler,
	}, nil
}

// Start launches background jobs.
func (a *App) Start() {
	a.scheduler.Start()
}

// Run blocks serving HTTP on the given address.
func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.runLock != nil {
		_ = a.runLock.Close()
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
