package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questlog/questlog/internal/api"
	"github.com/questlog/questlog/internal/app/gamification"
	"github.com/questlog/questlog/internal/app/goals"
	"github.com/questlog/questlog/internal/health"
	_ "github.com/questlog/questlog/internal/infra/metrics" // Register Prometheus metrics
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// Daemon is the core questlog runtime. It wires together all services.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Ledger       *gamification.Ledger
	Achievements *gamification.AchievementEngine
	Facade       *gamification.Facade
	Goals        *goals.Service
	Health       *health.Checker
	Server       *api.Server
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = questlogHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ledger := gamification.NewLedger(db)
	achievements := gamification.NewAchievementEngine(db, ledger)

	facade := gamification.NewFacade(db, ledger, achievements)
	facade.SetLookbackDays(cfg.Gamification.StreakLookbackDays)

	goalSvc := goals.NewService(db, facade)

	checker := health.NewChecker(db, dataDir)

	srv := api.NewServer(db, goalSvc, achievements)
	srv.SetHealthChecker(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Ledger:       ledger,
		Achievements: achievements,
		Facade:       facade,
		Goals:        goalSvc,
		Health:       checker,
		Server:       srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("questlog serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
