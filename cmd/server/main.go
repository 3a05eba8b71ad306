package main // package main wires configuration, storage and the HTTP server together

import (
	"context"   // cancellation for shutdown and the event consumer
	"errors"    // errors.Is for the server-closed sentinel
	"fmt"       // wraps startup failures with their stage
	"net/http"  // http.ErrServerClosed
	"os/signal" // SIGINT/SIGTERM trigger a graceful shutdown
	"syscall"   // signal numbers
	"time"      // shutdown grace period

	"github.com/labstack/echo/v4"    // echo instance type for serve
	"github.com/labstack/gommon/log" // echo's logger levels

	"github.com/iliyamo/postboard/internal/auth"
	"github.com/iliyamo/postboard/internal/config"
	"github.com/iliyamo/postboard/internal/database"
	"github.com/iliyamo/postboard/internal/logger"
	"github.com/iliyamo/postboard/internal/middleware"
	"github.com/iliyamo/postboard/internal/queue"
	"github.com/iliyamo/postboard/internal/repository"
	"github.com/iliyamo/postboard/internal/router"
	"github.com/iliyamo/postboard/internal/service"
)

// shutdownGrace bounds how long in-flight requests may finish after a signal.
const shutdownGrace = 15 * time.Second

func main() {
	// run owns every resource; exiting here, after it returns, lets its
	// deferred closes run first.
	if err := run(); err != nil {
		logger.Error.Fatal(err)
	}
}

func run() error {
	cfg := config.Load() // exits on missing configuration, before anything is opened

	if cfg.MigrateOnStart {
		if err := database.MigrateUp(cfg.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info.Println("migrations applied")
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTL())
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	// Redis is optional: without it the limiter and cache pass requests through.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logger.Warn.Printf("redis unreachable at %s; rate limiting and caching disabled", cfg.Redis.Addr)
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A nil publisher drops events, so handlers never need to check.
	var events *service.EventPublisher
	if cfg.Events.Enabled {
		events = &service.EventPublisher{URL: cfg.Events.URL, Queue: cfg.Events.Queue}
		consumer := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir}
		go consumer.Run(ctx)
	}

	e := router.New(router.Deps{
		Users:       repository.NewUserRepo(db),
		Posts:       repository.NewPostRepo(db),
		Votes:       repository.NewVoteRepo(db),
		Hasher:      auth.NewPasswordHasher(cfg.BcryptCost),
		Tokens:      tokens,
		Events:      events,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit, rdb),
		Cache:       middleware.NewResponseCache(cfg.Cache, rdb),
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   true,
	})
	if cfg.Env == "prod" {
		e.Logger.SetLevel(log.WARN)
	} else {
		e.Logger.SetLevel(log.INFO)
	}

	logger.Info.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	return serve(ctx, e, ":"+cfg.Port)
}

// serve runs e until ctx is cancelled or the listener fails.  A listener
// failure is returned to the caller instead of exiting from the goroutine.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
