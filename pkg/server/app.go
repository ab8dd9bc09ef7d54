package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "PDMScan/internal/domain/repository"
	"PDMScan/internal/usecase"
	pkgch "PDMScan/pkg/clickhouse"
	"PDMScan/pkg/config"
	xhttp "PDMScan/pkg/http"
	applogger "PDMScan/pkg/logger"
)

// App encapsulates the entire application lifecycle. The HTTP server always
// runs; the scan scheduler and the tick collector are optional and may be nil.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpHandler xhttp.Handler
	scheduler   *usecase.ScanScheduler
	collector   *usecase.TickCollector
	sink        drepo.SignalSink
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.ScanScheduler,
	collector *usecase.TickCollector,
	sink drepo.SignalSink,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		httpHandler: handler,
		scheduler:   scheduler,
		collector:   collector,
		sink:        sink,
		chClient:    chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.scheduler != nil {
		a.scheduler.Start(ctx)
		a.logger.Info("scan scheduler started",
			applogger.Duration("interval", a.cfg.Scheduler.Interval),
		)
	}

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.logger.Error("tick collector error", applogger.Error(err))
			}
		}()
		a.logger.Info("tick collector started",
			applogger.Strings("symbols", a.cfg.Universe.Symbols),
		)
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.logger.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.logger.Warn("signal sink close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
