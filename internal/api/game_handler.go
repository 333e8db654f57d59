package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/service"
)

// GameHandler 游戏处理器
type GameHandler struct {
	gameService service.GameService
}

// NewGameHandler 创建游戏处理器
func NewGameHandler(gameService service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// Start 开始新游戏
// @Summary 开始新游戏
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Success 201 {object} game.View
// @Failure 409 {object} ErrorResponse "meta.gameId holds the live game"
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/games [post]
func (h *GameHandler) Start(c *gin.Context) {
	view, err := h.gameService.Start(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Active 当前进行中的游戏
// @Summary 当前游戏
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Success 200 {object} game.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/games/active [get]
func (h *GameHandler) Active(c *gin.Context) {
	view, err := h.gameService.Active(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Get 查询单局
// @Summary 查询游戏
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Param id path string true "游戏ID"
// @Success 200 {object} game.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/games/{id} [get]
func (h *GameHandler) Get(c *gin.Context) {
	view, err := h.gameService.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Guess 猜字母
// @Summary 猜字母
// @Tags Games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "游戏ID"
// @Param request body service.GuessRequest true "字母"
// @Success 200 {object} service.GuessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/games/{id}/guess [post]
func (h *GameHandler) Guess(c *gin.Context) {
	var req service.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	resp, err := h.gameService.Guess(c.Request.Context(), currentUser(c), c.Param("id"), req.Letter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Hint 使用提示
// @Summary 使用提示
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Param id path string true "游戏ID"
// @Success 200 {object} service.HintResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/games/{id}/hint [post]
func (h *GameHandler) Hint(c *gin.Context) {
	resp, err := h.gameService.Hint(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Surrender 认输
// @Summary 认输
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Param id path string true "游戏ID"
// @Success 200 {object} game.View
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/games/{id}/surrender [post]
func (h *GameHandler) Surrender(c *gin.Context) {
	view, err := h.gameService.Surrender(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// History 游戏历史
// @Summary 游戏历史
// @Tags Games
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} service.HistoryResponse
// @Router /api/v1/games [get]
func (h *GameHandler) History(c *gin.Context) {
	resp, err := h.gameService.History(c.Request.Context(), currentUser(c),
		queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
