// Package grpcserver 提供gRPC健康检查服务（grpc.health.v1）
//
// 图书接口只通过HTTP暴露；gRPC端口供服务网格和负载均衡器做健康检查，
// 状态随数据库可用性变化（SERVING / NOT_SERVING）。
package grpcserver

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中本服务的名称（空字符串表示整个服务器）
const ServiceName = "books.v1.BooksAPI"

// Server gRPC服务器
type Server struct {
	srv    *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer 创建gRPC服务器并注册健康检查和反射服务
func NewServer(logger *zap.Logger) *Server {
	srv := grpc.NewServer()
	hs := health.NewServer()

	healthpb.RegisterHealthServer(srv, hs)

	// 注册反射服务（用于grpcurl调试）
	reflection.Register(srv)

	return &Server{srv: srv, health: hs, logger: logger}
}

// Serve 在listener上提供服务，阻塞直到服务器停止
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC服务启动", zap.String("addr", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// SetServing 设置服务状态
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch 定期检查依赖并更新健康状态，ctx取消时返回
func (s *Server) Watch(ctx context.Context, interval time.Duration, check func(ctx context.Context) error) {
	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		err := check(probeCtx)
		if err != nil {
			s.logger.Warn("依赖检查失败", zap.Error(err))
		}
		s.SetServing(err == nil)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Stop 优雅关闭：先标记NOT_SERVING，再等待进行中的RPC完成
// ctx到期后强制关闭
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}
