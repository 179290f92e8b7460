package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/internal/config"
	"github.com/diewo77/clientpath/internal/db"
	"github.com/diewo77/clientpath/internal/logger"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/internal/storage/gormstore"
	"github.com/diewo77/clientpath/internal/storage/memory"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed the demo account and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New(cfg.App.LogLevel)
	defer func() { _ = lg.Sync() }()

	store, err := openStore(cfg, lg)
	if err != nil {
		lg.Fatalw("failed to open store", "driver", cfg.Database.Driver, "err", err)
	}

	if *migrateOnlyFlag {
		lg.Infow("migrations completed", "driver", cfg.Database.Driver)
		return
	}

	opts := optionsFromConfig(cfg)
	if *seedOnlyFlag || cfg.App.SeedDemo || cfg.App.DemoMode {
		demo, err := db.Seed(context.Background(), store, time.Now())
		if err != nil {
			lg.Fatalw("seeding failed", "err", err)
		}
		lg.Infow("demo account ready", "username", demo.Username, "user_id", demo.ID)
		if *seedOnlyFlag {
			return
		}
		if cfg.App.DemoMode {
			opts.DemoUserID = demo.ID
		}
	}

	serve(cfg, lg, store, opts)
}

// openStore returns the configured backend, migrating relational ones.
func openStore(cfg *config.Config, lg *zap.SugaredLogger) (storage.Store, error) {
	if !cfg.Database.UsesDatabase() {
		lg.Infow("using in-memory store")
		return memory.New(), nil
	}
	conn, err := db.Open(cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, cfg.Database, cfg.App.Migrations); err != nil {
		return nil, err
	}
	return gormstore.New(conn), nil
}

func serve(cfg *config.Config, lg *zap.SugaredLogger, store storage.Store, opts Options) {
	// Reject sessions whose user no longer exists.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		_, err := store.GetUser(ctx, uid)
		return err == nil
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(store, lg, opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		lg.Infow("server starting", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "demo", opts.DemoUserID != 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Infow("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorw("error during shutdown", "err", err)
	}
	lg.Infow("server stopped")
}
