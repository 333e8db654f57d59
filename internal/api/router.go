package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/cache"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/database"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/metrics"
	"github.com/wfunc/hangman-game/internal/middleware"
	"github.com/wfunc/hangman-game/internal/service"
	"github.com/wfunc/hangman-game/internal/validation"
	ws "github.com/wfunc/hangman-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 路由依赖
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *service.Services
	Cache    cache.Cache
	Metrics  *metrics.Metrics
	// Hub is optional; nil disables the websocket route.
	Hub *ws.Hub
	Log *zap.Logger
}

// Router API路由器
type Router struct {
	engine         *gin.Engine
	opts           Options
	authMiddleware *middleware.AuthMiddleware
	authHandler    *AuthHandler
	gameHandler    *GameHandler
	statsHandler   *StatsHandler
	wordHandler    *WordHandler
	wsHandler      *WebSocketHandler
}

// NewRouter 创建路由器
func NewRouter(opts Options) *Router {
	validation.Init()
	if opts.Cache == nil {
		opts.Cache = cache.NopCache{}
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// 全局中间件
	engine.Use(
		middleware.Recovery(opts.Log),
		middleware.RequestLogger(opts.Log),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(opts.Config.CORS),
		middleware.ErrorHandler(opts.Log),
	)

	r := &Router{
		engine:         engine,
		opts:           opts,
		authMiddleware: middleware.NewAuthMiddleware(opts.Services.Auth),
		authHandler:    NewAuthHandler(opts.Services.Auth, opts.Config.Security.Cookie),
		gameHandler:    NewGameHandler(opts.Services.Game),
		statsHandler:   NewStatsHandler(opts.Services.Stats),
		wordHandler:    NewWordHandler(opts.Services.Word),
	}
	if opts.Hub != nil && opts.Config.WebSocket.Enabled {
		r.wsHandler = NewWebSocketHandler(opts.Hub, opts.Services.Auth, opts.Config.WebSocket,
			opts.Config.CORS.AllowOrigins, opts.Log.Named("websocket"))
	}

	r.setupRoutes()
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthCheck)
	if r.opts.Metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.opts.Metrics.Handler()))
	}
	registerSwaggerRoutes(r.engine)

	requireAuth := r.authMiddleware.RequireAuth()

	v1 := r.engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", r.authHandler.SignUp)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.Refresh)
			auth.POST("/logout", requireAuth, r.authHandler.Logout)
			auth.GET("/me", requireAuth, r.authHandler.Me)
		}

		games := v1.Group("/games", requireAuth)
		{
			games.POST("", r.gameHandler.Start)
			games.GET("", r.gameHandler.History)
			games.GET("/active", r.gameHandler.Active)
			games.GET("/:id", r.gameHandler.Get)
			games.POST("/:id/guess", r.gameHandler.Guess)
			games.POST("/:id/hint", r.gameHandler.Hint)
			games.POST("/:id/surrender", r.gameHandler.Surrender)
		}

		v1.GET("/stats", requireAuth, r.statsHandler.Stats)
		v1.GET("/leaderboard", r.statsHandler.Leaderboard)

		words := v1.Group("/words")
		{
			words.GET("/count", r.wordHandler.Count)
			words.POST("", requireAuth, r.wordHandler.Add)
		}
	}

	if r.wsHandler != nil {
		r.engine.GET(r.opts.Config.WebSocket.Path, r.wsHandler.Connect)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		fail(c, errors.New(errors.ErrNotFound, "route "+c.Request.URL.Path))
	})
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// healthCheck 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Database: "ok", Cache: "ok"}
	status := http.StatusOK
	if err := database.Ping(ctx, r.opts.DB); err != nil {
		r.opts.Log.Warn("Database ping failed", zap.Error(err))
		resp.Database = "unavailable"
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	if err := r.opts.Cache.Ping(ctx); err != nil {
		// the cache is optional; serve from the database
		r.opts.Log.Warn("Cache ping failed", zap.Error(err))
		resp.Cache = "unavailable"
		if resp.Status == "healthy" {
			resp.Status = "degraded"
		}
	}
	c.JSON(status, resp)
}

// Handler 返回 http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
