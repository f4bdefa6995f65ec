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

	"go.uber.org/zap"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/config"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/executor"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/handlers"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/mcp"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/mcp/tools"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/middleware"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/services"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/version"
)

const shutdownTimeout = 10 * time.Second

// app is the wired object graph shared by the serve and preview commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service services.TransferService
}

func newApp() (*app, error) {
	cfg, err := config.Load(Version, configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	detector := version.NewDetector(cfg.BinaryPath, version.ExecProber{}, version.DefaultRegistry(), cfg.ProbeTimeout(), logger)
	service := services.NewTransferService(
		services.SettingsFromConfig(cfg),
		detector,
		validation.NewValidator(detector.Registry()),
		executor.NewSupervisor(logger),
		logger,
	)

	return &app{cfg: cfg, logger: logger, service: service}, nil
}

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Starting fasttransfer-mcp",
		zap.String("version", Version),
		zap.String("transport", a.cfg.Transport),
		zap.String("binary_path", a.cfg.BinaryPath),
		zap.String("log_dir", a.cfg.LogDir),
		zap.Duration("timeout", a.cfg.Timeout()))

	if info, err := a.service.VersionInfo(ctx, false); err == nil {
		a.logger.Info("FastTransfer version", zap.String("version", info.Version), zap.Bool("detected", info.Detected))
	}

	audit := mcp.NewAuditLogger(a.logger)
	mcpServer := mcp.NewServer("fasttransfer-mcp", Version, audit.Hooks(), a.logger)
	tools.RegisterTransferTools(mcpServer.MCP(), &tools.TransferToolDeps{
		Service: a.service,
		Logger:  a.logger.Named("tools"),
	})

	if a.cfg.Transport == config.TransportHTTP {
		return serveHTTP(ctx, a, mcpServer)
	}
	return mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func serveHTTP(ctx context.Context, a *app, mcpServer *mcp.Server) error {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(Version, a.service, a.logger).RegisterRoutes(mux)
	handlers.NewMCPHandler(mcpServer, a.logger).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(a.logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Serving MCP over HTTP", zap.String("addr", srv.Addr), zap.String("path", handlers.MCPPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
