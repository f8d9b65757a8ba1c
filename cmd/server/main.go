// Study companion server: mood journal and timed study breaks.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/study-companion/internal/api"
	"github.com/ashureev/study-companion/internal/breakgame"
	"github.com/ashureev/study-companion/internal/config"
	"github.com/ashureev/study-companion/internal/emotion"
	"github.com/ashureev/study-companion/internal/history"
	"github.com/ashureev/study-companion/internal/identity"
	"github.com/ashureev/study-companion/internal/live"
	"github.com/ashureev/study-companion/internal/middleware"
	"github.com/ashureev/study-companion/internal/probe"
	"github.com/ashureev/study-companion/internal/store"
	"github.com/ashureev/study-companion/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "container", config.IsContainer())

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		return err
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	g, ctx := errgroup.WithContext(ctx)

	breaks, err := newBreakStore(ctx, g, cfg)
	if err != nil {
		return err
	}

	// Initialize services.
	engine := breakgame.NewEngine()
	locks := &breakgame.UserLocks{}
	sm := live.NewSessionManager()
	tokens := identity.NewTokens(cfg.SessionSecret, cfg.SessionTTL)

	// Initialize handlers.
	handler := api.NewHandler(api.Deps{
		Moods:      history.NewService(repo),
		Classifier: emotion.Default(),
		Accounts:   identity.NewAccounts(repo),
		Tokens:     tokens,
		Engine:     engine,
		Breaks:     breaks,
		Locks:      locks,
		Sessions:   sm,
		IsDev:      cfg.IsDevelopment(),
	})
	healthHandler := api.NewHealthHandler(repo, cfg.Health.ProbeTimeout)
	countdown := live.NewCountdownHandler(breaks, engine, locks, sm, cfg.Break.TickInterval, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(allowedOrigins(cfg)))

	// Public routes.
	healthHandler.RegisterHealth(r)
	handler.RegisterPublicRoutes(r)

	// Routes that need a logged-in user.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(tokens))
		handler.RegisterRoutes(r)
		r.Get("/ws/break", countdown.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Websocket countdowns are long-lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.GRPCPort != "" {
		startHealthService(ctx, g, cfg, repo)
	}

	return g.Wait()
}

// newBreakStore picks Redis when REDIS_URL is set and otherwise keeps
// sessions in memory with a background sweeper.
func newBreakStore(ctx context.Context, g *errgroup.Group, cfg *config.Config) (breakgame.SessionStore, error) {
	if cfg.RedisURL != "" {
		client, err := breakgame.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			<-ctx.Done()
			return client.Close()
		})
		slog.Info("Break sessions stored in Redis")
		return breakgame.NewRedisStore(client, breakgame.RedisStoreConfig{}), nil
	}

	mem := breakgame.NewMemoryStore()
	done := breakgame.StartSweeper(ctx, mem, cfg.Break.SweepInterval, cfg.Break.Retention)
	g.Go(func() error {
		<-done
		return nil
	})
	slog.Info("Break sessions stored in memory", "sweep_interval", cfg.Break.SweepInterval, "retention", cfg.Break.Retention)
	return mem, nil
}

func startHealthService(ctx context.Context, g *errgroup.Group, cfg *config.Config, repo store.Repository) {
	prober := probe.New(repo, cfg.Health.ProbeInterval, cfg.Health.ProbeTimeout)
	grpcServer := prober.NewServer()

	g.Go(func() error {
		prober.Run(ctx)
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		slog.Info("gRPC health service listening", "addr", lis.Addr().String())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		grpcServer.GracefulStop()
		return nil
	})
}

func allowedOrigins(cfg *config.Config) []string {
	if cfg.IsDevelopment() {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
