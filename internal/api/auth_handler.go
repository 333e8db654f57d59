package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/middleware"
	"github.com/wfunc/hangman-game/internal/service"
	"github.com/wfunc/hangman-game/internal/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService service.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// SignUp 用户注册
// @Summary 用户注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.SignUpRequest true "注册信息"
// @Success 201 {object} service.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	resp, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	h.setCookies(c, resp.Tokens)
	c.JSON(http.StatusCreated, resp)
}

// Login 用户登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "登录信息"
// @Success 200 {object} service.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	h.setCookies(c, resp.Tokens)
	c.JSON(http.StatusOK, resp)
}

// Refresh 刷新令牌; the token comes from the refreshToken cookie or the body.
// @Summary 刷新令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.RefreshRequest false "刷新令牌"
// @Success 200 {object} service.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req service.RefreshRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				fail(c, bindError(err))
				return
			}
		}
		token = req.RefreshToken
	}

	resp, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearCookies(c)
		fail(c, err)
		return
	}
	h.setCookies(c, resp.Tokens)
	c.JSON(http.StatusOK, resp)
}

// Logout 用户登出
// @Summary 用户登出
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), currentUser(c)); err != nil {
		fail(c, err)
		return
	}
	h.clearCookies(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me 当前用户
// @Summary 当前用户信息
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setCookies(c *gin.Context, pair *utils.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, maxAge(pair.AccessExpiresAt),
		"/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, maxAge(pair.RefreshExpiresAt),
		"/api/v1/auth", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/api/v1/auth", h.cookie.Domain, h.cookie.Secure, true)
}

func maxAge(expiresAt time.Time) int {
	secs := int(time.Until(expiresAt).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
