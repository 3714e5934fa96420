// Package main implements unitsd, the unit-conversion daemon: it resolves
// unit metadata for telemetry paths, converts values to user-preferred units,
// and serves the result over REST, WebSocket fan-out, and an optional NATS
// delta bridge.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/motamman/signalk-units-preference-sub000/config"
	"github.com/motamman/signalk-units-preference-sub000/convert"
	"github.com/motamman/signalk-units-preference-sub000/defaults"
	"github.com/motamman/signalk-units-preference-sub000/gateway/httpapi"
	"github.com/motamman/signalk-units-preference-sub000/gateway/ws"
	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/pkg/cache"
	"github.com/motamman/signalk-units-preference-sub000/resolver"
	"github.com/motamman/signalk-units-preference-sub000/store"
	"github.com/motamman/signalk-units-preference-sub000/stream"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

const (
	Version = "0.1.0"
	appName = "unitsd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, buf[:n])
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return err
	}
	if cliCfg.Validate {
		logger.Info("configuration is valid")
		return nil
	}

	logger.Info("starting unit-conversion daemon",
		"version", Version,
		"addr", cfg.Server.Addr,
		"dataDir", cfg.Data.Dir,
		"streamEnabled", cfg.Stream.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger, cliCfg.ShutdownTimeout)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// serve wires the engine and its collaborators, then blocks until shutdown.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, shutdownTimeout time.Duration) error {
	metrics := metric.NewRegistry()

	st, err := store.New(cfg.Data.Dir, store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open preference store: %w", err)
	}

	memo, err := cache.NewLRU[*types.UnitMetadata](4096,
		cache.WithMetrics[*types.UnitMetadata](metrics, "resolver_memo"),
	)
	if err != nil {
		return fmt.Errorf("create resolver memo: %w", err)
	}

	defs := defaults.New()
	res := resolver.New(st, defs,
		resolver.WithMemo(memo),
		resolver.WithLogger(logger),
		resolver.WithMetrics(metrics),
	)
	st.OnChange(res.InvalidationHook())

	engine := convert.NewEngine(res, st, defs,
		convert.WithLogger(logger),
		convert.WithMetrics(metrics),
	)

	if cfg.Data.Watch {
		if err := st.Watch(ctx); err != nil {
			return fmt.Errorf("watch preference files: %w", err)
		}
	}

	hub := ws.NewHub(engine, ws.WithLogger(logger), ws.WithMetrics(metrics))
	defer hub.Close()

	mux := http.NewServeMux()
	api := httpapi.NewServer(engine, st,
		httpapi.WithLogger(logger),
		httpapi.WithMetrics(metrics),
		httpapi.WithCORS(cfg.Server.CORSOrigins),
	)
	api.RegisterRoutes(mux)
	mux.HandleFunc("GET "+cfg.Server.WSPath, hub.HandleUpgrade)

	if cfg.Stream.Enabled {
		bridge, err := stream.New(cfg.Stream.Config, engine,
			stream.WithLogger(logger),
			stream.WithDeltaSink(hub.Broadcast),
		)
		if err != nil {
			return err
		}
		if err := bridge.Start(ctx); err != nil {
			return err
		}
		defer bridge.Close()
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
