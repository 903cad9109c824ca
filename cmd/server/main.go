// Command server runs the Komunidad HTTP API.
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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/komunidad/bulletin-board/internal/api"
	"github.com/komunidad/bulletin-board/internal/api/handler"
	"github.com/komunidad/bulletin-board/internal/api/metrics"
	"github.com/komunidad/bulletin-board/internal/core/ports"
	"github.com/komunidad/bulletin-board/internal/core/service"
	"github.com/komunidad/bulletin-board/internal/infrastructure/config"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/memory"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/mongo"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/redis"
	"github.com/komunidad/bulletin-board/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Komunidad bulletin board API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context())
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "komunidad-api",
	})
	return cfg, log, nil
}

// backend is the set of stores the API runs on.
type backend struct {
	accounts      ports.AccountRepository
	profiles      ports.ProfileRepository
	areas         ports.AreaRepository
	announcements ports.AnnouncementStore
	snapshots     ports.SnapshotCache
	limiter       ports.LoginLimiter
	health        map[string]handler.Pinger
	close         func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Int("areas", len(cfg.SeedAreas)).Msg("using in-memory store, data is lost on exit")
		return &backend{
			accounts:      memory.NewAccountRepository(),
			profiles:      memory.NewProfileRepository(),
			areas:         memory.NewAreaRepository(cfg.SeedAreas...),
			announcements: memory.NewAnnouncementStore(),
			snapshots:     memory.NewSnapshotCache(),
			health:        map[string]handler.Pinger{},
			close:         func() {},
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &backend{
		accounts:      mongo.NewAccountRepository(db),
		profiles:      mongo.NewProfileRepository(db),
		areas:         mongo.NewAreaRepository(db),
		announcements: mongo.NewAnnouncementStore(db),
		snapshots:     redis.NewSnapshotCache(rdb, cfg.Redis.SnapshotTTL),
		limiter:       redis.NewLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.Window),
		health: map[string]handler.Pinger{
			"mongo": handler.PingFunc(mongo.Ping(client)),
			"redis": handler.PingFunc(redis.Ping(rdb)),
		},
		close: func() {
			_ = rdb.Close()
			_ = client.Disconnect(context.Background())
		},
	}, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	e := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(b.accounts, b.limiter, cfg.JWTSecret, cfg.TokenTTL, log),
		Profiles: b.profiles,
		Areas:    service.NewAreaDirectory(b.areas),
		Announcements: service.NewAnnouncements(b.announcements, b.snapshots, log,
			service.WithFallbackObserver(metrics.ObserveFallback)),
		Health:    b.health,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func migrate(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}
