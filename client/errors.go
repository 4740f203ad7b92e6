package client

import (
	"errors"
	"fmt"
)

// Error 客户端错误
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("client error [%d]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 错误码定义
const (
	ErrCodeNetwork         = 1000 // 网络错误
	ErrCodeTimeout         = 1001 // 超时错误
	ErrCodeInvalidResponse = 1002 // 无效响应
	ErrCodeRPCError        = 1003 // JSON-RPC 错误
	ErrCodeNotSupported    = 1004 // 不支持的操作
	ErrCodeNoAccessKey     = 1005 // 没有匹配的访问密钥
	ErrCodeUnknownNetwork  = 1006 // 未知网络标识
)

// NewNetworkError 创建网络错误
func NewNetworkError(err error) *Error {
	return &Error{
		Code:    ErrCodeNetwork,
		Message: "network error",
		Err:     err,
	}
}

// NewTimeoutError 创建超时错误
func NewTimeoutError() *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: "request timeout",
	}
}

// NewInvalidResponseError 创建无效响应错误
func NewInvalidResponseError(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidResponse,
		Message: message,
	}
}

// NewRPCError 创建 JSON-RPC 错误
func NewRPCError(code int, message string, data interface{}) *Error {
	return &Error{
		Code:    ErrCodeRPCError,
		Message: fmt.Sprintf("RPC error [%d]: %s, data: %v", code, message, data),
	}
}

// NewNotSupportedError 创建不支持的操作错误
// 永远是致命错误，调用方不应将其当作瞬时失败重试
func NewNotSupportedError(operation string) *Error {
	return &Error{
		Code:    ErrCodeNotSupported,
		Message: fmt.Sprintf("operation not supported: %s", operation),
	}
}

// NewNoAccessKeyError 创建"没有匹配的访问密钥"错误
// 对该笔交易是致命错误（不可重试），错误信息中带上 receiver 以便定位
func NewNoAccessKeyError(receiverID string) *Error {
	return &Error{
		Code:    ErrCodeNoAccessKey,
		Message: fmt.Sprintf("no matching access key for receiver %q", receiverID),
	}
}

// NewUnknownNetworkError 创建未知网络错误
// 在任何会话建立之前的配置阶段即失败
func NewUnknownNetworkError(network string) *Error {
	return &Error{
		Code:    ErrCodeUnknownNetwork,
		Message: fmt.Sprintf("unknown network %q: expected mainnet or testnet", network),
	}
}

// IsNoAccessKey 检查错误是否为"没有匹配的访问密钥"
func IsNoAccessKey(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeNoAccessKey
	}
	return false
}

// IsNotSupported 检查错误是否为"不支持的操作"
func IsNotSupported(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeNotSupported
	}
	return false
}
