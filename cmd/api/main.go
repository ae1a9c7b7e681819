// @title           Books API
// @version         1.0
// @description     图书CRUD服务：以ISBN为主键管理图书
// @BasePath        /
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/pkg/logger"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
		zap.Bool("grpc", cfg.GRPC.Enabled),
	)

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("服务异常退出", zap.Error(err))
		_ = zapLogger.Sync()
		os.Exit(1)
	}
	zapLogger.Info("服务已停止")
}

// run 组装并运行应用，返回前释放所有资源
func run(cfg *config.Config, logger *zap.Logger) error {
	// 3. 依赖注入（Wire生成）
	app, cleanup, err := InitializeApp(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// 4. 运行直到收到SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
