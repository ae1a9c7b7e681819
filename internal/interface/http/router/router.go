// Package router 组装gin引擎：中间件、业务路由、运维路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/internal/interface/http/handler"
	"github.com/xiebiao/books-api/internal/interface/http/middleware"
	"github.com/xiebiao/books-api/pkg/response"

	_ "github.com/xiebiao/books-api/docs" // 注册swagger文档
)

// NewEngine 创建并配置Gin引擎
//
// 中间件顺序：Recovery → Logger → Tracing → Metrics
// Recovery放在最外层，保证panic也能输出统一的错误结构和访问日志
func NewEngine(
	cfg *config.Config,
	logger *zap.Logger,
	bookHandler *handler.BookHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	// 设置运行模式
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	d := response.NewDispatcher(logger)

	r := gin.New()
	r.Use(
		d.Recovery(),
		middleware.Logger(logger),
	)
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	// 运维路由
	r.GET("/ping", d.Handle(healthHandler.Ping))
	r.GET("/readyz", d.Handle(healthHandler.Ready))
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Swagger文档（生产环境不开放）
	// 访问 http://localhost:8080/swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书模块
	books := r.Group("/books")
	{
		books.GET("", d.Handle(bookHandler.ListBooks))
		books.POST("", d.Handle(bookHandler.CreateBook))
		books.GET("/:isbn", d.Handle(bookHandler.GetBook))
		books.PUT("/:isbn", d.Handle(bookHandler.UpdateBook))
		books.DELETE("/:isbn", d.Handle(bookHandler.DeleteBook))
	}

	// 未匹配的路由和方法统一返回404
	r.NoRoute(d.NotFound())
	r.NoMethod(d.NotFound())

	return r
}
