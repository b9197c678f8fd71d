package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "DivScope/internal/middleware"
	"DivScope/internal/usecase"
	pkgch "DivScope/pkg/clickhouse"
	"DivScope/pkg/config"
	xhttp "DivScope/pkg/http"
	pkgkafka "DivScope/pkg/kafka"
	applogger "DivScope/pkg/logger"
	"DivScope/pkg/queue"
)

// App encapsulates the entire application lifecycle: the reclassification
// pipeline, the raw-topic Kafka consumer, the Redis job queue, the cron
// scheduler, and the HTTP server.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	router     xhttp.Handler
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	pipe       *mid.ReclassifyPipeline
	rq         *queue.RedisQueue
	sched      *usecase.RefreshScheduler
	proc       *usecase.DividendProcessor
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	router xhttp.Handler,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	pipe *mid.ReclassifyPipeline,
	rq *queue.RedisQueue,
	sched *usecase.RefreshScheduler,
	proc *usecase.DividendProcessor,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		router:   router,
		consumer: consumer,
		kh:       kh,
		pipe:     pipe,
		rq:       rq,
		sched:    sched,
		proc:     proc,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.router,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Debounced reclassification pipeline behind the raw topic
	a.pipe.Start(ctx)
	a.l.Info("reclassify pipeline started")

	// Redis job queue: serves API-triggered and scheduled refreshes
	if err := a.rq.Start(); err != nil {
		a.l.Error("queue start error", applogger.Error(err))
		return err
	}

	// Kafka consumer on the raw dividends topic
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Daily refresh schedule
	if err := a.sched.Start(); err != nil {
		a.l.Error("scheduler start error", applogger.Error(err))
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services. Intake stops first so in-flight
// reclassifications can drain before storage goes away.
func (a *App) shutdown(ctx context.Context) error {
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	a.pipe.Stop()

	if err := a.rq.Stop(shutdownCtx); err != nil {
		a.l.Warn("queue stop error", applogger.Error(err))
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// Publisher and storage close via the processor
	if a.proc != nil {
		a.proc.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
