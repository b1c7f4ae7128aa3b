package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interview-engine/internal/app"
	"interview-engine/internal/config"
	"interview-engine/internal/httpapi"
	"interview-engine/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := app.Open(ctx, app.DataDir())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Lock(); err != nil {
		return err
	}
	log := env.Log
	cfg := env.Config()
	log.Info().Str("data_dir", env.DataDir).Str("config", env.CfgPath).Msg("engine starting")

	poller := env.Poller(ctx)

	deps := httpapi.Deps{
		DB:          env.DB.Pool,
		Hub:         env.Hub,
		Log:         log,
		CfgVal:      env.CfgVal,
		UserCfgPath: env.CfgPath,
		LoadCfg:     env.LoadConfig,
		OnConfig: func(c config.Config) {
			if err := env.Apply(ctx, c); err != nil {
				log.Error().Err(err).Msg("config reload: classifier kept")
			}
		},
		Classifier: env.Classifier,
		ReloadClassifier: func(ctx context.Context) error {
			return env.Apply(ctx, env.Config())
		},
		Poller:   poller,
		Research: env.Research,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           httpapi.Handler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Polling.Enabled {
		// interval changes need a restart; everything else reloads per scan
		go poller.Start(ctx, time.Duration(cfg.Polling.ScanSeconds)*time.Second)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if err := store.Checkpoint(shutdownCtx, env.DB.Pool); err != nil {
		log.Warn().Err(err).Msg("wal checkpoint")
	}
	return nil
}
