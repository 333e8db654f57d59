package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/middleware"
	"github.com/wfunc/hangman-game/internal/validation"
)

// ErrorResponse 错误响应
type ErrorResponse = middleware.ErrorResponse

// MessageResponse 简单消息响应
type MessageResponse struct {
	Message string `json:"message"`
}

// fail hands err to middleware.ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindError converts a binding failure into a validation error with
// per-field messages.
func bindError(err error) error {
	return errors.New(errors.ErrValidation).WithMeta("fields", validation.ToDetails(err))
}

// currentUser returns the authenticated user id; RequireAuth guarantees it.
func currentUser(c *gin.Context) string {
	id, _ := middleware.GetUserID(c)
	return id
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
