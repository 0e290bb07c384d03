// Package app assembles the services hub from configuration and runs it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/creativehub/services-hub/internal/api"
	"github.com/creativehub/services-hub/internal/api/handler"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/core/service"
	"github.com/creativehub/services-hub/internal/i18n"
	mongostore "github.com/creativehub/services-hub/internal/infrastructure/db/mongo"
	"github.com/creativehub/services-hub/internal/infrastructure/db/postgres"
	redisstore "github.com/creativehub/services-hub/internal/infrastructure/db/redis"
	"github.com/creativehub/services-hub/internal/infrastructure/queue"
	"github.com/creativehub/services-hub/internal/pkg/config"
	"github.com/creativehub/services-hub/web"
)

const shutdownTimeout = 10 * time.Second

// App owns every long-lived resource of the process.
type App struct {
	cfg  *config.Config
	log  zerolog.Logger
	echo *echo.Echo

	db          *sql.DB
	redis       *goredis.Client
	mongoClient *mongo.Client
	publisher   *queue.Publisher
	dispatcher  *queue.Dispatcher
}

// New connects the configured stores and builds the router. Optional
// backends (Redis, MongoDB, RabbitMQ) are only dialled when configured.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	bundle, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	deps := api.Dependencies{
		Config: cfg,
		Log:    log,
		I18n:   bundle,
	}

	if cfg.Persistent() {
		a.db, err = postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
		deps.Auth = service.NewAuthService(postgres.NewUserRepository(a.db), cfg.JWTSecret, cfg.BcryptCost, log)
		deps.Posts = service.NewPostService(postgres.NewPostRepository(a.db))
		deps.Checks = append(deps.Checks, handler.Check{Name: "postgres", Ping: a.db.PingContext})
		log.Info().Msg("postgres connected, migrations applied")
	}

	if cfg.Redis.Addr != "" {
		a.redis, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		deps.RateStore = redisstore.NewWindowStore(a.redis, cfg.RateLimit.Max, cfg.RateLimit.Window, log)
		deps.Checks = append(deps.Checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiting backed by redis")
	}

	sinks, err := a.openSinks(ctx, &deps)
	if err != nil {
		return nil, err
	}

	var dispatcher ports.SubmissionDispatcher
	if len(sinks) > 0 {
		a.dispatcher = queue.NewDispatcher(cfg.Workers, sinks, log)
		dispatcher = a.dispatcher
	}
	deps.Submissions = service.NewSubmissionService(dispatcher, log)

	deps.Assets, err = assets(cfg.StaticDir)
	if err != nil {
		return nil, err
	}

	a.echo = api.NewRouter(deps)
	return a, nil
}

func (a *App) openSinks(ctx context.Context, deps *api.Dependencies) ([]ports.SubmissionSink, error) {
	var sinks []ports.SubmissionSink

	if a.cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongoClient = client
		archive := mongostore.NewSubmissionArchive(db)
		if err := archive.EnsureIndexes(ctx); err != nil {
			a.log.Warn().Err(err).Msg("submission indexes not created")
		}
		sinks = append(sinks, archive)
		deps.Checks = append(deps.Checks, handler.Check{Name: "mongodb", Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
	}

	if a.cfg.AMQP.URL != "" {
		pub, err := queue.NewPublisher(a.cfg.AMQP.URL, a.cfg.AMQP.Queue)
		if err != nil {
			return nil, err
		}
		a.publisher = pub
		sinks = append(sinks, pub)
		deps.Checks = append(deps.Checks, handler.Check{Name: "rabbitmq", Ping: pub.Ping})
	}

	return sinks, nil
}

func assets(dir string) (fs.FS, error) {
	if dir == "" {
		return web.Assets(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests,
// flushes pending archive deliveries and closes every store.
func (a *App) Run(ctx context.Context) error {
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	if a.dispatcher != nil {
		a.dispatcher.Start(dispatchCtx)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("mode", a.cfg.Mode).
			Msgf("Server running at http://localhost:%s", a.cfg.Port)
		if err := a.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// StartServer leaves e.Server untouched, so srv is shut down directly.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}

	stopDispatch()
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}

	if err := a.Close(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("closing stores")
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// Close releases every open store. It is safe to call on a partially
// constructed App.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
		a.publisher = nil
	}
	if a.mongoClient != nil {
		errs = append(errs, a.mongoClient.Disconnect(ctx))
		a.mongoClient = nil
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}
