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

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/api"
	"github.com/d60-Lab/litreview/internal/api/handler"
	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/internal/cache"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/database"
	"github.com/d60-Lab/litreview/pkg/logger"
	"github.com/d60-Lab/litreview/pkg/tracing"
)

//go:generate swag init -g main.go -d ./,../../internal/api/handler,../../internal/model,../../pkg/response -o ../../docs --outputTypes go

// @title LitReview API
// @version 1.0
// @description 书评请求、评论与关注关系
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env 可选，生产环境直接注入环境变量
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sentryOn := cfg.Sentry.DSN != ""
	if sentryOn {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Server.Name, cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("tracing shutdown", zap.Error(err))
			}
		}()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	var visibility *cache.VisibilityCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// 缓存不可用时直接查库
			logger.Warn("redis unavailable, visibility cache disabled", zap.Error(err))
		} else {
			visibility = cache.NewVisibilityCache(rdb, cfg.Redis.TTL)
		}
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.Issuer)
	relSvc := service.NewRelationshipService(followRepo, userRepo, visibility)
	contentSvc := service.NewContentService(ticketRepo, reviewRepo)
	feedSvc := service.NewFeedService(userRepo, ticketRepo, reviewRepo, relSvc)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(5 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	h := handler.NewHandler(authSvc, relSvc, contentSvc, feedSvc)
	router := api.NewRouter(cfg, h, authSvc, api.Options{
		Sentry:  sentryOn,
		Tracing: cfg.Tracing.Enabled,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
