package service

import (
	"context"
	"time"

	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/utils"
)

// AuthService 认证服务接口
type AuthService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	ValidateToken(ctx context.Context, accessToken string) (*utils.Claims, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// WordService is the word supplier for new games.
type WordService interface {
	RandomWord(ctx context.Context) (*models.Word, error)
	AddWord(ctx context.Context, req *AddWordRequest) (*models.Word, error)
	Seed(ctx context.Context, words []*models.Word) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// GameService 游戏服务接口
type GameService interface {
	Start(ctx context.Context, userID string) (*game.View, error)
	Active(ctx context.Context, userID string) (*game.View, error)
	Get(ctx context.Context, userID, gameID string) (*game.View, error)
	Guess(ctx context.Context, userID, gameID, letter string) (*GuessResponse, error)
	Hint(ctx context.Context, userID, gameID string) (*HintResponse, error)
	Surrender(ctx context.Context, userID, gameID string) (*game.View, error)
	History(ctx context.Context, userID string, page, pageSize int) (*HistoryResponse, error)
	// ExpireStale ends live games untouched for longer than olderThan.
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
	// OnFinish registers a listener called after a game reaches won or lost.
	OnFinish(l FinishListener)
	// OnMove registers a listener called after any persisted change to a game.
	OnMove(l MoveListener)
	SetRules(rules game.Rules)
}

// StatsService 统计与排行榜服务接口
type StatsService interface {
	UserStats(ctx context.Context, userID string) (*game.UserStats, error)
	Leaderboard(ctx context.Context) ([]game.LeaderboardEntry, error)
	Invalidate(ctx context.Context, userID string)
	InvalidateUser(ctx context.Context, userID string)
	SetRankOptions(opts game.RankOptions)
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	Name     string `json:"name" binding:"required,displayname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token when it is not sent as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// AddWordRequest 添加单词请求
type AddWordRequest struct {
	Word  string `json:"word" binding:"required,gameword"`
	Hint1 string `json:"hint1" binding:"required,max=255"`
	Hint2 string `json:"hint2" binding:"required,max=255"`
}

// GuessRequest 猜字母请求
type GuessRequest struct {
	Letter string `json:"letter" binding:"required,letter"`
}

// GuessResponse 猜字母响应
type GuessResponse struct {
	Result *game.GuessResult `json:"result"`
	Game   *game.View        `json:"game"`
}

// HintResponse 提示响应
type HintResponse struct {
	Hint string     `json:"hint"`
	Game *game.View `json:"game"`
}

// HistoryResponse 历史记录分页响应
type HistoryResponse struct {
	Games    []*game.View `json:"games"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Pages    int          `json:"pages"`
	Total    int64        `json:"total"`
}

// FinishEvent describes a game that just ended.
type FinishEvent struct {
	GameID       string            `json:"gameId"`
	UserID       string            `json:"userId"`
	Status       models.GameStatus `json:"gameStatus"`
	Event        game.Event        `json:"event"`
	WrongGuesses int               `json:"wrongGuesses"`
	HintsUsed    int               `json:"hintsUsed"`
	Score        float64           `json:"score"`
}

// FinishListener 终局回调
type FinishListener func(ctx context.Context, ev FinishEvent)

// MoveListener 落子回调
type MoveListener func(ctx context.Context, userID, gameID string)
