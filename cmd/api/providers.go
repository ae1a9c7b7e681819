package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/internal/infrastructure/messaging"
	"github.com/xiebiao/books-api/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/books-api/internal/infrastructure/persistence/sqldb"
	"github.com/xiebiao/books-api/internal/interface/grpcserver"
	"github.com/xiebiao/books-api/internal/interface/http/handler"
	"github.com/xiebiao/books-api/pkg/circuitbreaker"
	"github.com/xiebiao/books-api/pkg/mq"
	"github.com/xiebiao/books-api/pkg/tracing"
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 返回cleanup的Provider由Wire按创建的逆序调用清理函数

// tracingShutdown 追踪导出器的关闭函数（未启用追踪时为nil）
type tracingShutdown func(context.Context) error

// provideTracing 初始化全局Tracer Provider
func provideTracing(cfg *config.Config, logger *zap.Logger) (tracingShutdown, func(), error) {
	if !cfg.Tracing.Enabled {
		return nil, func() {}, nil
	}

	shutdown, err := tracing.InitTracer(tracing.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("链路追踪已启用", zap.String("endpoint", cfg.Tracing.Endpoint))

	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("关闭Tracer失败", zap.Error(err))
			return
		}
		logger.Info("Tracer已关闭")
	}
	return shutdown, cleanup, nil
}

// provideDB 创建数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := sqldb.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := sqldb.Close(db); err != nil {
			logger.Warn("关闭数据库连接失败", zap.Error(err))
			return
		}
		logger.Info("数据库连接已关闭")
	}
	return db, cleanup, nil
}

// provideRedis 创建Redis客户端（redis.enabled为false时返回nil）
func provideRedis(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideBookRepository 图书仓储：数据库实现，启用Redis时外面包一层缓存
func provideBookRepository(cfg *config.Config, db *gorm.DB, rdb *goredis.Client, logger *zap.Logger) book.Repository {
	repo := sqldb.NewBookRepository(db)
	if rdb == nil {
		return repo
	}

	breaker := circuitbreaker.NewCircuitBreaker("redis", circuitbreaker.DefaultConfig())
	return redis.NewCachedBookRepository(repo, rdb, cfg.Redis.CacheTTL, breaker, logger.Named("cache"))
}

// provideEventPublisher 图书事件发布器（mq.enabled为false时不发布）
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return book.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", logger.Named("mq"))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return messaging.NewBookEventPublisher(publisher), cleanup, nil
}

// provideHealthHandler 就绪探针检查数据库和（可选的）Redis
func provideHealthHandler(db *gorm.DB, rdb *goredis.Client) *handler.HealthHandler {
	pingers := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return sqldb.Ping(ctx, db) },
	}
	if rdb != nil {
		pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return handler.NewHealthHandler(pingers)
}

// provideHTTPServer 创建HTTP服务器
func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// provideGRPCServer 创建gRPC健康检查服务（grpc.enabled为false时返回nil）
func provideGRPCServer(cfg *config.Config, logger *zap.Logger) *grpcserver.Server {
	if !cfg.GRPC.Enabled {
		return nil
	}
	return grpcserver.NewServer(logger.Named("grpc"))
}
