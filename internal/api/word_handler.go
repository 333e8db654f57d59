package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hangman-game/internal/service"
)

// WordHandler 词库处理器
type WordHandler struct {
	wordService service.WordService
}

// NewWordHandler 创建词库处理器
func NewWordHandler(wordService service.WordService) *WordHandler {
	return &WordHandler{wordService: wordService}
}

// CountResponse 数量响应
type CountResponse struct {
	Count int64 `json:"count"`
}

// Add 添加单词
// @Summary 添加单词
// @Tags Words
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AddWordRequest true "单词与提示"
// @Success 201 {object} models.Word
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/words [post]
func (h *WordHandler) Add(c *gin.Context) {
	var req service.AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	word, err := h.wordService.AddWord(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, word)
}

// Count 词库数量
// @Summary 词库数量
// @Tags Words
// @Produce json
// @Success 200 {object} CountResponse
// @Router /api/v1/words/count [get]
func (h *WordHandler) Count(c *gin.Context) {
	n, err := h.wordService.Count(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}
