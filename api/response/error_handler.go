package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"ddd-course/domain/shared"
	"ddd-course/pkg/errors"
	"ddd-course/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:        http.StatusInternalServerError,
	errors.CodeBadRequest:      http.StatusBadRequest,
	errors.CodeValidation:      http.StatusBadRequest,
	errors.CodeNotFound:        http.StatusNotFound,
	errors.CodeTooManyRequests: http.StatusTooManyRequests,

	errors.CodeBusinessRule:     http.StatusUnprocessableEntity,
	errors.CodeConcurrentModify: http.StatusConflict,
}

// StatusFor 错误码对应的 HTTP 状态码，未知错误码按 500 处理
func StatusFor(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError 处理参数绑定等框架层错误，统一返回 400 BAD_REQUEST。
func HandleError(c *gin.Context, err error, message string) {
	appErr := errors.BadRequest(err, message)

	logger.Warn(message,
		zap.String("request_id", GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))

	c.JSON(StatusFor(appErr.Code), newErrorResponse(c, appErr))
}

// Abort 中止请求链并写出错误，日志由调用方负责（限流、panic 恢复、未知路由）
func Abort(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(StatusFor(appErr.Code), newErrorResponse(c, appErr))
}

func newErrorResponse(c *gin.Context, appErr *errors.AppError) *Response {
	return &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Code:      StatusFor(appErr.Code),
		RequestID: GetRequestID(c),
	}
}

// HandleAppError 按领域错误分类映射 HTTP 状态码。
// 4xx 记 Warn，5xx 记 Error 并附带堆栈；内部错误不向客户端暴露真实消息。
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := StatusFor(appErr.Code)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	c.JSON(httpStatus, newErrorResponse(c, appErr))
}

// extractStack 优先取领域错误的发生点堆栈，否则捕获处理点堆栈
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
