package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/mindengage-scoring/internal/api/http"
	auth "github.com/mind-engage/mindengage-scoring/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scoring/internal/config"
	"github.com/mind-engage/mindengage-scoring/internal/db"
	"github.com/mind-engage/mindengage-scoring/internal/exam"
	"github.com/mind-engage/mindengage-scoring/internal/grading"
	"github.com/mind-engage/mindengage-scoring/internal/logger"
	syncx "github.com/mind-engage/mindengage-scoring/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer dbh.Close()

	// --- Grading engine ---
	opts, err := config.LoadGrading(cfg.GradingConfig)
	if err != nil {
		return err
	}
	engine := grading.New(append(opts, grading.WithLogger(log.With("component", "grading")))...)

	store := exam.NewSQLStore(dbh)
	svc := exam.NewService(store, engine,
		exam.WithEvents(syncx.NewEventRepo(dbh)),
		exam.WithLogger(log.With("component", "exam")),
		exam.WithRegradeConcurrency(cfg.RegradeConcurrency),
	)

	// --- Router ---
	r := api.NewRouter(api.Deps{
		Auth: auth.NewAuthService(cfg.AuthHMACSecret),
		Login: auth.LoginConfig{
			AdminUser:     cfg.AdminUser,
			AdminPassHash: cfg.AdminPassHash,
			DevLogin:      cfg.Mode == config.ModeOffline,
		},
		LocalAuth:   cfg.EnableLocalAuth,
		Service:     svc,
		Engine:      engine,
		DB:          dbh,
		CORSOrigins: cfg.CORSOrigins(),
		RequestLog:  true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("listening", "addr", cfg.HTTPAddr, "mode", string(cfg.Mode), "db", cfg.DBDriver,
		"grading_config", cfg.GradingConfig)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
