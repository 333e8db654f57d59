package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/service"
)

// StatsHandler 统计与排行榜处理器
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// LeaderboardResponse 排行榜响应
type LeaderboardResponse struct {
	Entries []game.LeaderboardEntry `json:"entries"`
}

// Stats 当前用户统计
// @Summary 个人统计
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} game.UserStats
// @Router /api/v1/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.UserStats(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Leaderboard 排行榜
// @Summary 排行榜
// @Tags Stats
// @Produce json
// @Success 200 {object} LeaderboardResponse
// @Router /api/v1/leaderboard [get]
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	entries, err := h.statsService.Leaderboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, LeaderboardResponse{Entries: entries})
}
