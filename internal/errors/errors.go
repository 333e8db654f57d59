package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown      ErrorCode = 1000
	ErrValidation   ErrorCode = 1001
	ErrNotFound     ErrorCode = 1002
	ErrConflict     ErrorCode = 1003
	ErrForbidden    ErrorCode = 1004
	ErrTimeout      ErrorCode = 1005
	ErrInvalidInput ErrorCode = 1006

	// 游戏错误 (2000-2999)
	ErrInvalidState    ErrorCode = 2000
	ErrHintExhausted   ErrorCode = 2001
	ErrWordLength      ErrorCode = 2002
	ErrActiveGame      ErrorCode = 2003
	ErrGameNotFound    ErrorCode = 2004
	ErrStaleGameUpdate ErrorCode = 2005

	// 依赖/持久化错误 (5000-5999)
	ErrDependency     ErrorCode = 5000
	ErrDatabaseQuery  ErrorCode = 5001
	ErrDatabaseWrite  ErrorCode = 5002
	ErrWordsExhausted ErrorCode = 5003
	ErrCache          ErrorCode = 5004

	// 配置错误 (6000-6999)
	ErrConfigLoad ErrorCode = 6000

	// 安全错误 (7000-7999)
	ErrUnauthenticated    ErrorCode = 7000
	ErrInvalidCredentials ErrorCode = 7001
	ErrTokenExpired       ErrorCode = 7002
	ErrTokenInvalid       ErrorCode = 7003
)

// Kind is the coarse category a caller switches on.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindInvalidState    Kind = "invalid_state"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindDependency      Kind = "dependency"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindInternal        Kind = "internal"
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:      "unknown error",
	ErrValidation:   "validation failed",
	ErrNotFound:     "resource not found",
	ErrConflict:     "resource already exists",
	ErrForbidden:    "forbidden",
	ErrTimeout:      "operation timed out",
	ErrInvalidInput: "invalid input",

	ErrInvalidState:    "game is not in progress",
	ErrHintExhausted:   "no hints remaining",
	ErrWordLength:      "word length out of range",
	ErrActiveGame:      "an active game already exists",
	ErrGameNotFound:    "game not found",
	ErrStaleGameUpdate: "game was modified concurrently",

	ErrDependency:     "dependency unavailable",
	ErrDatabaseQuery:  "database query failed",
	ErrDatabaseWrite:  "database write failed",
	ErrWordsExhausted: "no words available",
	ErrCache:          "cache unavailable",

	ErrConfigLoad: "config load failed",

	ErrUnauthenticated:    "authentication required",
	ErrInvalidCredentials: "invalid email or password",
	ErrTokenExpired:       "token expired",
	ErrTokenInvalid:       "invalid token",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Cause   error                  `json:"-"`
	Stack   []StackFrame           `json:"-"`
}

// StackFrame 调用栈帧
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithMeta attaches a structured field surfaced to API callers.
func (e *AppError) WithMeta(key string, value interface{}) *AppError {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	err.captureStack(2)
	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装错误; an existing AppError keeps its code.
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	wrapped := New(code, details...)
	wrapped.Cause = err
	if wrapped.Details == "" {
		wrapped.Details = err.Error()
	}
	return wrapped
}

// Wrapf 包装格式化错误
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// As extracts an *AppError anywhere in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrUnknown
}

// KindOf classifies err into the caller-facing taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	appErr, ok := As(err)
	if !ok {
		return KindInternal
	}
	return appErr.Kind()
}

// Kind returns the category of the error code.
func (e *AppError) Kind() Kind {
	switch e.Code {
	case ErrValidation, ErrInvalidInput, ErrWordLength:
		return KindValidation
	case ErrInvalidState, ErrHintExhausted, ErrStaleGameUpdate:
		return KindInvalidState
	case ErrConflict, ErrActiveGame:
		return KindConflict
	case ErrNotFound, ErrGameNotFound:
		return KindNotFound
	case ErrForbidden:
		return KindForbidden
	case ErrUnauthenticated, ErrInvalidCredentials, ErrTokenExpired, ErrTokenInvalid:
		return KindUnauthenticated
	}
	if e.Code >= 5000 && e.Code <= 5999 {
		return KindDependency
	}
	return KindInternal
}

// HTTPStatus 返回对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch e.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// captureStack 捕获调用栈
func (e *AppError) captureStack(skip int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "runtime.") &&
			!strings.Contains(frame.Function, "hangman-game/internal/errors.") {
			e.Stack = append(e.Stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more || len(e.Stack) >= 10 {
			break
		}
	}
}

// GetStack 获取格式化的调用栈
func (e *AppError) GetStack() string {
	var builder strings.Builder
	for i, frame := range e.Stack {
		builder.WriteString(fmt.Sprintf("%d. %s\n   %s:%d\n", i+1, frame.Function, frame.File, frame.Line))
	}
	return builder.String()
}
