package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"roomly/pkg/config"
	"roomly/pkg/contracts"
	"roomly/pkg/identity"
	"roomly/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	healthHandler    http.Handler
	appHandler       http.Handler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp wires the HTTP surface: the given handlers behind the full
// middleware stack, health probes behind a minimal one.
func (a *Application) SetApp(healthHandler contracts.Handler, appHandlers ...contracts.Handler) {
	a.setHealthHandler(healthHandler)
	a.setAppHandler(appHandlers...)
	a.setServer()
}

func (a *Application) setHealthHandler(h contracts.Handler) {
	router := httprouter.New()
	h.RegisterRoutes(router)

	var handler http.Handler = router
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.healthHandler = handler
}

func (a *Application) setAppHandler(handlers ...contracts.Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		a.cfg.Log,
	)

	var handler http.Handler = router
	handler = middleware.Idempotency(a.idempotencyStore, "Idempotency-Key")(handler)
	handler = middleware.RequestTimeout(a.cfg.RequestTimeout)(handler)
	handler = identity.Middleware()(handler)
	handler = middleware.RateLimit(a.rateLimiter)(handler)
	handler = middleware.ContentTypeValidation(a.cfg.Log)(handler)
	handler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(handler)
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.appHandler = handler
}

func (a *Application) setServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
