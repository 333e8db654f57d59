package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/hangman-game/internal/cache"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsServiceTestSuite 统计服务测试套件
type StatsServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	repos *repository.Manager
	mr    *miniredis.Miniredis
	rc    *cache.RedisCache
	stats StatsService
	users []*models.User
}

func (suite *StatsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = repository.SetupTestDB(suite.T())
	suite.repos = repository.NewManager(suite.db)
	suite.users = repository.SeedTestUsers(suite.T(), suite.db, "alice", "bob", "carol")

	suite.mr = miniredis.RunT(suite.T())
	suite.rc = cache.NewRedisCache(cache.NewRedisClient(cache.Options{Addr: suite.mr.Addr()}), "test")
	suite.T().Cleanup(func() { suite.rc.Close() })

	suite.stats = NewStatsService(suite.repos.Game(), suite.repos.User(), suite.rc,
		game.DefaultRankOptions(), time.Minute, zap.NewNop())
}

func (suite *StatsServiceTestSuite) insert(user *models.User, word string, status models.GameStatus, wrong, hints int, age time.Duration) *models.Game {
	g := repository.CreateTestGame(user.ID, word, status, wrong, hints, time.Now().Add(-age))
	suite.Require().NoError(suite.repos.Game().Insert(suite.ctx, g))
	return g
}

func (suite *StatsServiceTestSuite) seedBoard() {
	alice, bob, carol := suite.users[0], suite.users[1], suite.users[2]
	for i := 0; i < 3; i++ {
		suite.insert(alice, "CAT", models.StatusWon, 0, 0, time.Duration(i+1)*time.Hour)
		suite.insert(bob, "DOG", models.StatusLost, 6, 0, time.Duration(i+1)*time.Hour)
	}
	// carol has too few games to rank
	suite.insert(carol, "EMU", models.StatusWon, 0, 0, time.Hour)
}

func (suite *StatsServiceTestSuite) TestLeaderboard() {
	suite.seedBoard()

	board, err := suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(board, 2)

	suite.Equal(1, board[0].Rank)
	suite.Equal("alice", board[0].Name)
	suite.Equal(136.0, board[0].OverallScore)
	suite.Equal("bob", board[1].Name)
	suite.Equal(24.0, board[1].OverallScore)
	suite.True(suite.mr.Exists("test:leaderboard"))
}

func (suite *StatsServiceTestSuite) TestLeaderboardCachedUntilInvalidated() {
	suite.seedBoard()
	carol := suite.users[2]

	board, err := suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(board, 2)

	suite.insert(carol, "EMU", models.StatusWon, 0, 0, 2*time.Hour)
	suite.insert(carol, "EMU", models.StatusWon, 0, 0, 3*time.Hour)

	board, err = suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(board, 2, "served from cache")

	suite.stats.Invalidate(suite.ctx, carol.ID)
	board, err = suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(board, 3)
}

func (suite *StatsServiceTestSuite) TestSetRankOptionsDropsCache() {
	suite.seedBoard()

	_, err := suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)

	suite.stats.SetRankOptions(game.RankOptions{MinGames: 1, Size: 1})
	suite.False(suite.mr.Exists("test:leaderboard"))

	board, err := suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(board, 1)
	suite.Equal("alice", board[0].Name)
}

func (suite *StatsServiceTestSuite) TestUserStatsRedactsLiveWord() {
	alice := suite.users[0]
	suite.insert(alice, "CAT", models.StatusWon, 1, 0, 2*time.Hour)
	suite.insert(alice, "DOG", models.StatusLost, 6, 2, time.Hour)
	live := suite.insert(alice, "HORSE", models.StatusInProgress, 0, 0, time.Minute)

	stats, err := suite.stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(3, stats.TotalGames)
	suite.Equal(1, stats.GamesWon)
	suite.Equal(1, stats.GamesInProgress)
	suite.Equal(50.0, stats.WinRate)
	suite.Require().NotEmpty(stats.RecentGames)

	for _, g := range stats.RecentGames {
		if g.ID == live.ID {
			suite.Empty(g.Word)
		} else {
			suite.NotEmpty(g.Word)
		}
	}

	// the stored record is untouched
	stored, err := suite.repos.Game().FindByID(suite.ctx, live.ID)
	suite.Require().NoError(err)
	suite.Equal("HORSE", stored.Word)
	suite.True(suite.mr.Exists("test:stats:" + alice.ID))

	cached, err := suite.stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(stats.TotalGames, cached.TotalGames)
}

func (suite *StatsServiceTestSuite) TestUserStatsRefreshedAfterEveryMove() {
	services := NewServices(suite.db, config.Default(), Deps{Cache: suite.rc}, zap.NewNop())
	_, err := services.Word.Seed(suite.ctx, []*models.Word{
		{Word: "cat", Hint1: "a pet", Hint2: "it meows"},
	})
	suite.Require().NoError(err)
	alice := suite.users[0]
	key := "test:stats:" + alice.ID

	stats, err := services.Stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(0, stats.TotalGames)
	suite.True(suite.mr.Exists(key))

	view, err := services.Game.Start(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.False(suite.mr.Exists(key))

	stats, err = services.Stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.TotalGames)
	suite.Equal(1, stats.GamesInProgress)

	_, err = services.Game.Guess(suite.ctx, alice.ID, view.ID, "x")
	suite.Require().NoError(err)
	stats, err = services.Stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(1.0, stats.AverageWrongGuesses)

	_, err = services.Game.Hint(suite.ctx, alice.ID, view.ID)
	suite.Require().NoError(err)
	stats, err = services.Stats.UserStats(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(1.0, stats.AverageHintsUsed)

	// a repeated letter writes nothing, so the cached view stays
	_, err = services.Game.Guess(suite.ctx, alice.ID, view.ID, "x")
	suite.Require().NoError(err)
	suite.True(suite.mr.Exists(key))
}

func (suite *StatsServiceTestSuite) TestCacheOutageFallsBackToStore() {
	suite.seedBoard()
	suite.mr.Close()

	board, err := suite.stats.Leaderboard(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(board, 2)
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}
