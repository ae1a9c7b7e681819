package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/books-api/pkg/errors"
	"github.com/xiebiao/books-api/pkg/response"
)

// Pinger 依赖检查函数（如数据库Ping）
type Pinger func(ctx context.Context) error

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pingers map[string]Pinger
}

// NewHealthHandler 创建健康检查处理器
// pingers的key为依赖名称（database、redis），用于日志定位
func NewHealthHandler(pingers map[string]Pinger) *HealthHandler {
	return &HealthHandler{pingers: pingers}
}

// Ping 存活探针
// @Summary  存活检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} dto.MessageResponse
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) (*response.Result, error) {
	return response.OK(gin.H{"message": "pong"}), nil
}

// Ready 就绪探针：所有依赖可用时返回200，否则503
// @Summary  就绪检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} dto.ErrorResponse
// @Router   /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) (*response.Result, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			return nil, apperrors.ErrServiceUnavailable.WithCause(fmt.Errorf("%s: %w", name, err))
		}
	}
	return response.OK(gin.H{"status": "ready"}), nil
}
