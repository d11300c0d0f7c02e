// Command web runs the snapboard web gateway.
//
//	@title			snapboard web gateway
//	@version		1.0
//	@description	Session-aware gateway between the snapboard browser client and the REST backend.
//	@BasePath		/
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

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "github.com/snapboard/webclient/docs"
	"github.com/snapboard/webclient/internal/api"
	"github.com/snapboard/webclient/internal/api/handler"
	"github.com/snapboard/webclient/internal/api/middleware"
	"github.com/snapboard/webclient/internal/core/ports"
	"github.com/snapboard/webclient/internal/core/service"
	"github.com/snapboard/webclient/internal/infrastructure/backend"
	"github.com/snapboard/webclient/internal/infrastructure/db/memory"
	mongostore "github.com/snapboard/webclient/internal/infrastructure/db/mongo"
	redisstore "github.com/snapboard/webclient/internal/infrastructure/db/redis"
	"github.com/snapboard/webclient/internal/infrastructure/queue"
	"github.com/snapboard/webclient/internal/pkg/config"
	"github.com/snapboard/webclient/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "snapboard-web",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped with error")
	}
	log.Info().Msg("gateway stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, checks, closeStore, err := openTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := backend.New(backend.Config{
		BaseURL:          cfg.Backend.URL,
		AssetURL:         cfg.Backend.AssetURL,
		PlaceholderImage: cfg.Backend.PlaceholderImage,
		Timeout:          cfg.Backend.Timeout,
		InsecureTLS:      cfg.Backend.InsecureTLS,
	}, tokens, logger.Component("backend"))
	if err != nil {
		return err
	}
	checks = append(checks, handler.DependencyCheck{Name: "backend", Ping: client.Ping})

	scheduler := cron.New()
	poller := service.NewUnreadPoller(client, scheduler, cfg.Poll.Interval, logger.Component("unread"))
	dispatcher := queue.NewDispatcher(cfg.Poll.Workers, poller, logger.Component("dispatcher"))
	poller.UseQueue(dispatcher)
	interactions := service.NewInteractionService(client, logger.Component("interactions"))

	manager := service.NewSessionManager(
		tokens,
		client,
		service.Listeners{poller, interactions},
		service.ManagerConfig{BootstrapWait: cfg.Session.BootstrapWait, IdleTTL: cfg.Session.IdleTTL},
		logger.Component("session"),
	)
	client.OnUnauthorized(func(key string) { manager.Invalidate(key) })

	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.Session.SweepEvery), manager.Sweep); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	workerCtx, cancelWorkers := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher.Start(workerCtx)
	scheduler.Start()

	e := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		Backend:      client,
		Sessions:     manager,
		Interactions: interactions,
		Unread:       poller,
		Cookie: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
		},
		LoginPath: cfg.Session.LoginPath,
		HomePath:  cfg.Session.HomePath,
		Checks:    checks,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("token_store", cfg.Session.TokenStore).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	err = g.Wait()

	<-scheduler.Stop().Done()
	poller.Stop()
	manager.Close()
	cancelWorkers()
	dispatcher.Wait()
	return err
}

// openTokenStore connects the configured token store driver and returns the
// readiness checks that go with it.
func openTokenStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, []handler.DependencyCheck, func(), error) {
	switch cfg.Session.TokenStore {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		check := handler.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}}
		return redisstore.NewTokenStore(rdb, cfg.Session.TokenTTL), []handler.DependencyCheck{check}, func() { _ = rdb.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		store := mongostore.NewTokenStore(db, cfg.Mongo.Collection)
		if err := store.EnsureIndexes(ctx, cfg.Session.TokenTTL); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		check := handler.DependencyCheck{Name: "mongodb", Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}}
		return store, []handler.DependencyCheck{check}, disconnect(client), nil

	default:
		return memory.NewTokenStore(), nil, func() {}, nil
	}
}

func disconnect(client *mongo.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}
