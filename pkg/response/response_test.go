package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/xiebiao/books-api/pkg/errors"
)

func newTestEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(zap.New(core))

	r := gin.New()
	r.Use(d.Recovery())
	r.GET("/ok", d.Handle(func(c *gin.Context) (*Result, error) {
		return OK(gin.H{"message": "Book deleted"}), nil
	}))
	r.POST("/created", d.Handle(func(c *gin.Context) (*Result, error) {
		return Created(gin.H{"book": gin.H{"isbn": "1"}}), nil
	}))
	r.GET("/invalid", d.Handle(func(c *gin.Context) (*Result, error) {
		return nil, apperrors.NewWithDetails(apperrors.ErrCodeInvalidParams, []string{`instance requires property "isbn"`})
	}))
	r.GET("/boom", d.Handle(func(c *gin.Context) (*Result, error) {
		return nil, errors.New("connection refused")
	}))
	r.GET("/panic", d.Handle(func(c *gin.Context) (*Result, error) {
		panic("unexpected")
	}))
	r.NoRoute(d.NotFound())

	return r, logs
}

func TestDispatcher_Handle(t *testing.T) {
	r, logs := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"成功响应", http.MethodGet, "/ok", http.StatusOK, `{"message":"Book deleted"}`},
		{"创建响应", http.MethodPost, "/created", http.StatusCreated, `{"book":{"isbn":"1"}}`},
		{"校验错误列表", http.MethodGet, "/invalid", http.StatusBadRequest, `{"error":{"message":["instance requires property \"isbn\""],"status":400}}`},
		{"未知错误按500处理", http.MethodGet, "/boom", http.StatusInternalServerError, `{"error":{"message":"Internal Server Error","status":500}}`},
		{"panic恢复", http.MethodGet, "/panic", http.StatusInternalServerError, `{"error":{"message":"Internal Server Error","status":500}}`},
		{"未匹配路由", http.MethodGet, "/nowhere", http.StatusNotFound, `{"error":{"message":"Not Found","status":404}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}

	// 500错误需要记录内部原因
	failed := logs.FilterMessage("请求处理失败").FilterField(zap.Error(errors.New("connection refused")))
	assert.Equal(t, 1, failed.Len())
}
