package service

import (
	"context"

	"github.com/wfunc/hangman-game/internal/cache"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/metrics"
	"github.com/wfunc/hangman-game/internal/repository"
	"github.com/wfunc/hangman-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Auth  AuthService
	Word  WordService
	Game  GameService
	Stats StatsService
	JWT   *utils.JWTManager
}

// Deps bundles the optional collaborators; zero values are allowed.
type Deps struct {
	Cache   cache.Cache
	Metrics *metrics.Metrics
}

// RulesFromConfig 从配置构建游戏规则
func RulesFromConfig(cfg *config.Config) game.Rules {
	return game.Rules{
		MaxWrongGuesses: cfg.Game.MaxWrongGuesses,
		MaxHints:        cfg.Game.MaxHints,
	}
}

// RankOptionsFromConfig 从配置构建排行榜参数
func RankOptionsFromConfig(cfg *config.Config) game.RankOptions {
	return game.RankOptions{
		MinGames: cfg.Leaderboard.MinGames,
		Size:     cfg.Leaderboard.Size,
	}
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, cfg *config.Config, deps Deps, log *zap.Logger) *Services {
	// 初始化仓储
	repos := repository.NewManager(db)

	// 初始化JWT管理器
	jwtManager := utils.NewJWTManager(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.Issuer,
		cfg.Security.JWT.AccessTTL,
		cfg.Security.JWT.RefreshTTL,
	)

	words := NewWordService(repos.Word(), log.Named("word"))
	games := NewGameService(repos.Game(), words, RulesFromConfig(cfg), deps.Metrics, log.Named("game"))
	stats := NewStatsService(repos.Game(), repos.User(), deps.Cache,
		RankOptionsFromConfig(cfg), cfg.Leaderboard.CacheTTL, log.Named("stats"))

	games.OnMove(func(ctx context.Context, userID, _ string) {
		stats.InvalidateUser(ctx, userID)
	})
	games.OnFinish(func(ctx context.Context, ev FinishEvent) {
		stats.Invalidate(ctx, ev.UserID)
	})

	return &Services{
		Auth:  NewAuthService(repos.User(), jwtManager, log.Named("auth")),
		Word:  words,
		Game:  games,
		Stats: stats,
		JWT:   jwtManager,
	}
}

// Reconfigure applies the hot-reloadable parts of cfg.
func (s *Services) Reconfigure(cfg *config.Config) {
	s.Game.SetRules(RulesFromConfig(cfg))
	s.Stats.SetRankOptions(RankOptionsFromConfig(cfg))
}
