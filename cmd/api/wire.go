//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/internal/interface/http/handler"
	"github.com/xiebiao/books-api/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：追踪、数据库连接、Redis连接、仓储、事件发布
var infrastructureSet = wire.NewSet(
	provideTracing,
	provideDB,
	provideRedis,
	provideBookRepository,
	provideEventPublisher,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService, // 图书领域服务
)

// interfaceSet 接口层依赖
// 包含：HTTP处理器、Gin引擎、HTTP/gRPC服务器
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	provideHealthHandler,
	router.NewEngine,
	provideHTTPServer,
	provideGRPCServer,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序释放资源（事件发布者 → Redis → 数据库 → Tracer）
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
