package entryregistry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/entry-registry/internal/cache"
	"github.com/magabrotheeeer/entry-registry/internal/config"
	"github.com/magabrotheeeer/entry-registry/internal/lib/sessioncookie"
	"github.com/magabrotheeeer/entry-registry/internal/migrations"
	authservice "github.com/magabrotheeeer/entry-registry/internal/services/auth"
	entryservice "github.com/magabrotheeeer/entry-registry/internal/services/entry"
	"github.com/magabrotheeeer/entry-registry/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	authService := authservice.New(db, db, cacheRedis, cfg.SessionTTL, logger)
	if err := authService.BootstrapAdmin(ctx); err != nil {
		return nil, err
	}
	authService.CleanupExpiredSessions(ctx)

	entryService := entryservice.New(db, logger)

	codec := sessioncookie.New([]byte(cfg.SessionSecret), cfg.Env == "prod", cfg.SessionTTL)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, entryService, codec)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
