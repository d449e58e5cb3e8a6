package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/mineboard/internal/board"
	"github.com/vancomm/mineboard/internal/config"
	"github.com/vancomm/mineboard/internal/metrics"
	"github.com/vancomm/mineboard/internal/middleware"
	"github.com/vancomm/mineboard/internal/session"
)

type Config struct {
	Addr      string
	BasePath  string
	JWT       *config.JWT
	WebSocket *config.WebSocket
	Sessions  *config.Sessions
}

// LoadConfig reads every setting the server needs from the environment.
func LoadConfig() (*Config, error) {
	jwt, err := config.NewJWT()
	if err != nil {
		return nil, fmt.Errorf("unable to read jwt config: %w", err)
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, fmt.Errorf("unable to read ws config: %w", err)
	}

	sessions, err := config.NewSessions()
	if err != nil {
		return nil, fmt.Errorf("unable to read session config: %w", err)
	}

	cfg := &Config{
		Addr:      config.Port(),
		BasePath:  config.BasePath(),
		JWT:       jwt,
		WebSocket: ws,
		Sessions:  sessions,
	}

	return cfg, nil
}

type App struct {
	log      *logrus.Logger
	cfg      *Config
	router   *http.ServeMux
	db       *pgxpool.Pool // nil when running without history
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    *session.Store
}

func New(log *logrus.Logger, cfg *Config, db *pgxpool.Pool) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store := session.NewStore(
		log.WithField("component", "sessions"),
		func() board.Rand { return createRand() },
		session.WithMaxCells(cfg.Sessions.MaxCells),
		session.WithSweepObserver(func(live int) {
			m.ActiveSessions.Set(float64(live))
		}),
	)

	app := &App{
		log:      log,
		cfg:      cfg,
		router:   http.NewServeMux(),
		db:       db,
		registry: registry,
		metrics:  m,
		store:    store,
	}

	app.loadRoutes()

	return app
}

func (a *App) Handler() http.Handler {
	var handler http.Handler = middleware.Wrap(
		a.router,
		middleware.Cors(),
		middleware.Auth(a.log, a.cfg.JWT),
		middleware.Logging(a.log),
	)
	if a.cfg.BasePath != "" {
		handler = http.StripPrefix(a.cfg.BasePath, handler)
	}
	return handler
}

// Start serves until ctx is done, then shuts the server down.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		// no read or write timeouts, those would cut websocket games short
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 60,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.WithField("addr", a.cfg.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.store.Run(ctx, a.cfg.Sessions.SweepInterval, a.cfg.Sessions.TTL)
	})

	g.Go(func() error {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		a.log.Info("shutting down")
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
