package errors

import (
	"errors"
	"fmt"

	"ddd-course/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"

	// 领域错误码
	CodeBusinessRule     ErrorCode = "BUSINESS_RULE_VIOLATION"
	CodeConcurrentModify ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BadRequest 请求参数无法绑定或解析
func BadRequest(err error, message string) *AppError {
	return Wrap(err, CodeBadRequest, message)
}

// NotFound 路由或资源不存在
func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

// Internal 不向客户端暴露原因的服务端错误
func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
//
// 按哨兵错误分类（errors.Is），顺序很重要：ErrInvalidValue 包装了 ErrBusinessRule，
// 必须先于 ErrBusinessRule 判断。
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	message := domainMessage(err)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, message)
	case errors.Is(err, shared.ErrConcurrencyConflict):
		return Wrap(err, CodeConcurrentModify, message)
	case errors.Is(err, shared.ErrInvalidValue):
		return Wrap(err, CodeValidation, message)
	case errors.Is(err, shared.ErrBusinessRule):
		return Wrap(err, CodeBusinessRule, message)
	default:
		// 不变量破坏与未知错误都属于服务端问题
		return Wrap(err, CodeInternal, "internal server error")
	}
}

// domainMessage 领域错误只暴露 DomainError 自身的消息，不带应用层的包装前缀
func domainMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
