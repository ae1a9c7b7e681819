package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/internal/infrastructure/persistence/sqldb"
	"github.com/xiebiao/books-api/internal/interface/grpcserver"
)

// healthCheckInterval gRPC健康状态的刷新周期
const healthCheckInterval = 10 * time.Second

// App 组装完成的应用
// 字段顺序即Wire的创建顺序：Tracing最先创建、最后关闭
type App struct {
	Tracing    tracingShutdown
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	HTTPServer *http.Server
	GRPCServer *grpcserver.Server // grpc.enabled为false时为nil
}

// Run 启动HTTP（以及可选的gRPC）服务，ctx取消后优雅关闭
// 所有端口在启动任何服务之前监听，监听失败直接返回
func (a *App) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", a.HTTPServer.Addr)
	if err != nil {
		return fmt.Errorf("监听HTTP端口失败: %w", err)
	}

	var grpcLis net.Listener
	if a.GRPCServer != nil {
		grpcLis, err = net.Listen("tcp", a.Config.GRPC.Addr())
		if err != nil {
			httpLis.Close()
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP服务启动", zap.String("addr", httpLis.Addr().String()))
		if err := a.HTTPServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	})

	if a.GRPCServer != nil {
		g.Go(func() error { return a.GRPCServer.Serve(grpcLis) })
		g.Go(func() error {
			a.GRPCServer.Watch(gctx, healthCheckInterval, func(ctx context.Context) error {
				return sqldb.Ping(ctx, a.DB)
			})
			return nil
		})
	}

	// 收到关闭信号（或某个服务异常退出）后关闭所有服务
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("收到关闭信号，开始优雅关闭...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if a.GRPCServer != nil {
			a.GRPCServer.Stop(shutdownCtx)
		}
		if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP服务关闭失败: %w", err)
		}
		return nil
	})

	return g.Wait()
}
