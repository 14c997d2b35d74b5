package internal

import (
	"aprd/internal/controllers"
	"aprd/internal/providers"
	"aprd/internal/rotation/interfaces"
	"aprd/internal/structures"
	"aprd/internal/trigger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	OpsServer *http.Server

	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
	listener  *trigger.Listener
	lock      *providers.InstanceLock
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, listener *trigger.Listener, lock *providers.InstanceLock, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	app := &App{
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
		listener:  listener,
		lock:      lock,
	}
	if !conf.Metrics.Enabled {
		return app, nil
	}

	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", instrumentedAPI)

	app.OpsServer = &http.Server{
		Addr:         conf.Metrics.Host + ":" + strconv.Itoa(conf.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return app, nil
}

// Run blocks until SIGINT/SIGTERM or a fatal scheduler error. An in-flight
// rotation is allowed to finish before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer a.lock.Release()
	a.logger.Infof(providers.TypeApp, "Starting %s (config %s)", a.conf.AppName, a.conf.Path)

	if err := a.scheduler.Init(); err != nil {
		return fmt.Errorf("initializing scheduler: %w", err)
	}

	// Configuration is fixed for the process lifetime; reload means restart.
	signal.Ignore(syscall.SIGHUP)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.listener.Watch(ctx); err != nil {
		a.logger.Warnf(providers.TypeTrigger, "Trigger watcher unavailable, polling only: %v", err)
	}

	relayDone := make(chan struct{})
	if a.conf.Relay.Enabled {
		relay := trigger.NewRelay(a.conf.Relay.SocketPath, a.listener, a.logger)
		go func() {
			defer close(relayDone)
			if err := relay.Serve(ctx); err != nil {
				a.logger.Errorf(providers.TypeTrigger, "Button relay stopped: %v", err)
			}
		}()
	} else {
		close(relayDone)
	}

	if a.OpsServer != nil {
		go func() {
			a.logger.Infof(providers.TypeHTTP, "Listening ops requests on %s", a.OpsServer.Addr)
			if err := a.OpsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Errorf(providers.TypeHTTP, "Ops listener stopped: %v", err)
			}
		}()
	}

	a.scheduler.Start(ctx)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-a.scheduler.Err():
		runErr = fmt.Errorf("fatal rotation error: %w", err)
		a.logger.Errorf(providers.TypeApp, "%v", runErr)
		stop()
	}

	a.scheduler.Stop()
	<-relayDone

	if a.OpsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.OpsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warnf(providers.TypeHTTP, "Ops listener shutdown: %v", err)
		}
	}

	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return runErr
}

func (a *App) Close() {
	a.logger.Close()
}
