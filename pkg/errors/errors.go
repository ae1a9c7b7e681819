package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40402 → 404）
// 2. Message是返回给客户端的提示信息
// 3. Details非空时代替Message输出（如Schema校验的错误列表）
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int      // 业务错误码
	Message string   // 用户友好的错误提示
	Details []string // 错误列表（校验失败时使用）
	Err     error    // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%v", e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, msg)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按业务错误码匹配
// 同一类错误可以携带不同的Message（如带上具体的ISBN），errors.Is仍然成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Status 由业务错误码推导HTTP状态码，无法推导时返回500
func (e *AppError) Status() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// MarshalJSON 输出统一错误结构：{"message": ..., "status": ...}
// message为字符串或字符串列表（原样保留，不拼接）
func (e *AppError) MarshalJSON() ([]byte, error) {
	var message any = e.Message
	if len(e.Details) > 0 {
		message = e.Details
	}
	return json.Marshal(struct {
		Message any `json:"message"`
		Status  int `json:"status"`
	}{
		Message: message,
		Status:  e.Status(),
	})
}

// WithMessage 复制错误并替换提示信息（保留错误码）
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithCause 复制错误并附加内部错误（仅记录日志，不返回给客户端）
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Err:     err,
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails 创建携带错误列表的AppError
func NewWithDetails(code int, details []string) *AppError {
	return &AppError{
		Code:    code,
		Message: "参数校验失败",
		Details: details,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：前三位为HTTP状态码，后两位区分具体错误
// - 4xxxx: 客户端错误（参数错误、资源不存在、冲突）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误

	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // Schema校验失败
	ErrCodeBindError     = 40001 // 请求体不是合法JSON

	// 请求体过大（41300-41399）
	ErrCodeBodyTooLarge = 41300 // 请求体超过上限

	// 资源错误（40400-40499）
	ErrCodeRouteNotFound = 40401 // 路由不存在
	ErrCodeBookNotFound  = 40402 // 图书不存在

	// 冲突错误（40900-40999）
	ErrCodeISBNDuplicate = 40901 // ISBN已存在

	// 服务不可用（50300-50399）
	ErrCodeServiceUnavailable = 50300 // 依赖服务不可用
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal           = New(ErrCodeInternal, "Internal Server Error")
	ErrDatabaseError      = New(ErrCodeDatabaseError, "Internal Server Error")
	ErrServiceUnavailable = New(ErrCodeServiceUnavailable, "Service Unavailable")

	// 参数错误
	ErrBindError    = New(ErrCodeBindError, "Request body is not valid JSON")
	ErrBodyTooLarge = New(ErrCodeBodyTooLarge, "request entity too large")

	// 路由不存在
	ErrRouteNotFound = New(ErrCodeRouteNotFound, "Not Found")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal Server Error")
}
