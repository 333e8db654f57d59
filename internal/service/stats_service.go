package service

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/hangman-game/internal/cache"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/repository"
	"go.uber.org/zap"
)

// statsService 统计服务实现，结果按 TTL 缓存
type statsService struct {
	gameRepo repository.GameRepository
	userRepo repository.UserRepository
	cache    cache.Cache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	opts game.RankOptions
}

// NewStatsService 创建统计服务; a nil cache disables caching.
func NewStatsService(
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	c cache.Cache,
	opts game.RankOptions,
	ttl time.Duration,
	log *zap.Logger,
) StatsService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &statsService{
		gameRepo: gameRepo,
		userRepo: userRepo,
		cache:    c,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		opts:     opts,
	}
}

// SetRankOptions 更新排行榜参数，并丢弃已缓存的榜单
func (s *statsService) SetRankOptions(opts game.RankOptions) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	if err := s.cache.Delete(context.Background(), cache.LeaderboardKey()); err != nil {
		s.log.Warn("Failed to drop cached leaderboard", zap.Error(err))
	}
}

func (s *statsService) rankOptions() game.RankOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// UserStats 用户统计
func (s *statsService) UserStats(ctx context.Context, userID string) (*game.UserStats, error) {
	key := cache.StatsKey(userID)
	var cached game.UserStats
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	games, err := s.gameRepo.FindAllByUser(ctx, userID, 0)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "load history")
	}
	stats := game.Aggregate(games, s.now())
	stats.RecentGames = redactLive(stats.RecentGames)

	s.store(ctx, key, stats)
	return stats, nil
}

// Leaderboard 排行榜
func (s *statsService) Leaderboard(ctx context.Context) ([]game.LeaderboardEntry, error) {
	key := cache.LeaderboardKey()
	var cached []game.LeaderboardEntry
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	games, err := s.gameRepo.FindAll(ctx, models.StatusWon, models.StatusLost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "load finished games")
	}
	entries := game.Rank(games, s.rankOptions())

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	names, err := s.userRepo.FindNamesByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "load player names")
	}
	for i := range entries {
		entries[i].Name = names[entries[i].UserID]
	}

	s.store(ctx, key, entries)
	return entries, nil
}

// Invalidate drops cached views affected by a finished game of userID.
func (s *statsService) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.LeaderboardKey(), cache.StatsKey(userID)); err != nil {
		s.log.Warn("Failed to invalidate cache", zap.String("userID", userID), zap.Error(err))
	}
}

// InvalidateUser drops the cached stats of userID after a move that did
// not end a game; the leaderboard only counts finished games.
func (s *statsService) InvalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.StatsKey(userID)); err != nil {
		s.log.Warn("Failed to invalidate cache", zap.String("userID", userID), zap.Error(err))
	}
}

func (s *statsService) lookup(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *statsService) store(ctx context.Context, key string, value interface{}) {
	if s.ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// redactLive hides the secret word of games still in progress.
func redactLive(games []*models.Game) []*models.Game {
	out := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if !g.GameStatus.IsTerminal() {
			cp := *g
			cp.Word = ""
			cp.GuessedLetters = append(models.Letters{}, g.GuessedLetters...)
			g = &cp
		}
		out = append(out, g)
	}
	return out
}
