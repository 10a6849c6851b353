package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/rr-dns/internal/dns/common/clock"
	"github.com/haukened/rr-dns/internal/dns/common/log"
	"github.com/haukened/rr-dns/internal/dns/config"
	"github.com/haukened/rr-dns/internal/dns/resolver"
	"github.com/haukened/rr-dns/internal/dns/transport"
)

const (
	version = "0.1.0-dev"
	appName = "rr-dnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server.
type Application struct {
	config   *config.AppConfig
	listener *transport.UDPListener
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.Log.Level,
		"port":      cfg.Listen.Port,
	}, "starting "+appName)

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "server failed")
	}

	log.Info(nil, "rr-dnsd stopped gracefully")
}

// buildApplication constructs the resolver and listener and wires them
// together from cfg.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	roots := resolver.NewStaticRootHints(cfg.Listen.RootHints)
	upstream := transport.NewUDPDialTransport()

	res := resolver.New(resolver.Options{
		Upstream:     upstream,
		RootHints:    roots,
		Logger:       logger,
		Clock:        clock.RealClock{},
		HopTimeout:   time.Duration(cfg.Listen.HopTimeoutSeconds) * time.Second,
		QueryBudget:  time.Duration(cfg.Listen.QueryBudgetSeconds) * time.Second,
		MaxReferrals: cfg.Listen.MaxReferrals,
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Listen.Port)
	listener := transport.NewUDPListener(addr, res, logger)

	return &Application{config: cfg, listener: listener}, nil
}

// Run starts the DNS server and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() { serveErr <- app.listener.Serve(ctx) }()

	log.Info(map[string]any{"port": app.config.Listen.Port}, "dns server started")

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listener failed: %w", err)
		}
		return nil
	}

	log.Info(nil, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "listener reported error during shutdown")
		}
		log.Info(nil, "graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout.String()}, "shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
