package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/service"
)

// Cookie names shared with the auth handlers.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const (
	ctxUserID   = "userID"
	ctxUserName = "userName"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	authService service.AuthService
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			_ = c.Error(errors.New(errors.ErrUnauthenticated, "missing access token"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ctxUserID, claims.UserID())
		c.Set(ctxUserName, claims.Name)
		c.Next()
	}
}

// ExtractToken reads the access token from the Authorization header, then
// from the accessToken cookie.
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	return ""
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserID)
	return id, id != ""
}

// GetUserName 从上下文获取显示名
func GetUserName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}
