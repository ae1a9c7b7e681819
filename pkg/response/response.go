package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/books-api/pkg/errors"
)

// Result 处理器的成功结果
// 设计说明：
// 1. 处理器只返回结果或错误，不直接写响应
// 2. 由Handle统一渲染，错误处理集中在一处
type Result struct {
	Status int
	Body   interface{}
}

// HandlerFunc 返回Result或error的处理器
type HandlerFunc func(c *gin.Context) (*Result, error)

// OK 200响应
func OK(body interface{}) *Result {
	return &Result{Status: http.StatusOK, Body: body}
}

// Created 201响应
func Created(body interface{}) *Result {
	return &Result{Status: http.StatusCreated, Body: body}
}

// Dispatcher 统一渲染处理器的结果
type Dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher 创建结果分发器
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Handle 将HandlerFunc适配为gin.HandlerFunc
// 用法：
//
//	books.GET("/:isbn", d.Handle(bookHandler.GetBook))
func (d *Dispatcher) Handle(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h(c)
		if err != nil {
			d.Error(c, err)
			return
		}
		if result == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(result.Status, result.Body)
	}
}

// Error 错误响应（自动处理AppError）
// 响应结构：{"error": {"message": ..., "status": ...}}
func (d *Dispatcher) Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.Status()

	// 记录详细错误到日志（包含内部错误）
	fields := []zap.Field{
		zap.Int("code", appErr.Code),
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	if status >= http.StatusInternalServerError {
		d.logger.Error("请求处理失败", fields...)
	} else {
		d.logger.Debug("请求被拒绝", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": appErr})
}

// NotFound 未匹配路由的兜底处理
func (d *Dispatcher) NotFound() gin.HandlerFunc {
	return d.Handle(func(c *gin.Context) (*Result, error) {
		return nil, apperrors.ErrRouteNotFound
	})
}

// Recovery panic恢复，返回统一的500错误结构
func (d *Dispatcher) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		d.logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		d.Error(c, apperrors.ErrInternal)
	})
}
