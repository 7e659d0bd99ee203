package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"ponydiary/internal/controllers"
	"ponydiary/internal/offline"
	"ponydiary/internal/persistence/interfaces"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
	"ponydiary/internal/web"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
	worker    *offline.Worker
}

func NewApp(healthController *controllers.HealthController, offlineController *controllers.OfflineController, scheduler interfaces.SchedulerInterface, worker *offline.Worker, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes with method patterns
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(providers.Pattern(route), route.Handler)
	}
	if conf.Offline.Enabled {
		apiMux.HandleFunc("/", offlineController.Proxy)
	} else {
		apiMux.Handle("/", web.Handler())
	}

	instrumented := providers.MetricsMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented app
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumented)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
		worker:    worker,
	}
}

// Run serves until SIGINT/SIGTERM, then drains connections and persists state.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)

	var (
		startCtx    context.Context
		cancelStart context.CancelFunc
	)
	if timeout := a.worker.StartTimeout(); timeout > 0 {
		startCtx, cancelStart = context.WithTimeout(context.Background(), timeout)
	} else {
		startCtx, cancelStart = context.WithCancel(context.Background())
	}
	if err := a.worker.Start(startCtx); err != nil {
		a.logger.Errorf(providers.TypeApp, "Offline cache start error: %s", err)
	}
	cancelStart()

	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	return a.Shutdown()
}

func (a *App) Shutdown() error {
	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
