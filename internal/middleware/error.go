package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/errors"
	"go.uber.org/zap"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    errors.ErrorCode       `json:"code"`
	Kind    errors.Kind            `json:"kind"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// NewErrorResponse maps err onto the API error body and HTTP status.
// Anything that is not an AppError is reported as an internal error
// without leaking its text.
func NewErrorResponse(err error) (int, ErrorResponse) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.New(errors.ErrUnknown)
	}
	resp := ErrorResponse{
		Code:    appErr.Code,
		Kind:    appErr.Kind(),
		Message: appErr.Message,
		Details: appErr.Details,
		Meta:    appErr.Meta,
	}
	if resp.Kind == errors.KindInternal || resp.Kind == errors.KindDependency {
		// storage errors carry driver text
		resp.Details = ""
	}
	return appErr.HTTPStatus(), resp
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, resp := NewErrorResponse(err)
		if status >= 500 {
			fields := []zap.Field{zap.String("path", c.FullPath()), zap.Error(err)}
			if appErr, ok := errors.As(err); ok {
				fields = append(fields, zap.String("stack", appErr.GetStack()))
			}
			log.Error("Request failed", fields...)
		}
		c.AbortWithStatusJSON(status, resp)
	}
}
