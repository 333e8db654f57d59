package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/hangman-game/internal/models"
	"gorm.io/gorm"
)

// GameRepositoryTestSuite 游戏仓储测试套件
type GameRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  GameRepository
	alice *models.User
	bob   *models.User
}

func (suite *GameRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB(suite.T())
	suite.repo = NewGameRepository(suite.db)
	users := SeedTestUsers(suite.T(), suite.db, "alice", "bob")
	suite.alice, suite.bob = users[0], users[1]
}

// TestInsertAndReload 保存后重新读取应得到同一局游戏
func (suite *GameRepositoryTestSuite) TestInsertAndReload() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	game.GuessedLetters = models.Letters{"C", "X"}
	game.WrongGuesses = 1

	require.NoError(suite.T(), suite.repo.Insert(ctx, game))
	assert.NotEmpty(suite.T(), game.ID)
	require.NotNil(suite.T(), game.ActiveUserID)
	assert.Equal(suite.T(), suite.alice.ID, *game.ActiveUserID)

	found, err := suite.repo.FindByID(ctx, game.ID)
	require.NoError(suite.T(), err)
	AssertGame(suite.T(), game, found)
	assert.Equal(suite.T(), models.Letters{"C", "X"}, found.GuessedLetters)
	assert.Equal(suite.T(), "first hint", found.Hint1)
}

func (suite *GameRepositoryTestSuite) TestInsertRejectsInvalidRecord() {
	game := CreateTestGame(suite.alice.ID, "cat", models.StatusInProgress, 0, 0, time.Now())
	assert.Error(suite.T(), suite.repo.Insert(context.Background(), game))

	game = CreateTestGame(suite.alice.ID, "AB", models.StatusInProgress, 0, 0, time.Now())
	assert.Error(suite.T(), suite.repo.Insert(context.Background(), game))
}

// TestSecondActiveGameRejected 同一用户只能有一局进行中的游戏
func (suite *GameRepositoryTestSuite) TestSecondActiveGameRejected() {
	ctx := context.Background()
	first := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, first))

	second := CreateTestGame(suite.alice.ID, "DOG", models.StatusInProgress, 0, 0, time.Now())
	err := suite.repo.Insert(ctx, second)
	assert.ErrorIs(suite.T(), err, ErrActiveGameExists)

	// other users are unaffected
	other := CreateTestGame(suite.bob.ID, "DOG", models.StatusInProgress, 0, 0, time.Now())
	assert.NoError(suite.T(), suite.repo.Insert(ctx, other))

	// finished games do not occupy the slot
	done := CreateTestGame(suite.alice.ID, "EMU", models.StatusWon, 0, 0, time.Now())
	assert.NoError(suite.T(), suite.repo.Insert(ctx, done))
}

func (suite *GameRepositoryTestSuite) TestFindActiveByUser() {
	ctx := context.Background()

	active, err := suite.repo.FindActiveByUser(ctx, suite.alice.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), active)

	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	active, err = suite.repo.FindActiveByUser(ctx, suite.alice.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), active)
	assert.Equal(suite.T(), game.ID, active.ID)
}

func (suite *GameRepositoryTestSuite) TestFindByIDMissing() {
	_, err := suite.repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

// TestSaveProgress 乐观锁更新
func (suite *GameRepositoryTestSuite) TestSaveProgress() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	read := game.Version
	game.GuessedLetters = append(game.GuessedLetters, "Z")
	game.WrongGuesses = 1
	require.NoError(suite.T(), suite.repo.SaveProgress(ctx, game, read))
	assert.Equal(suite.T(), read+1, game.Version)

	// a writer holding the old version loses
	stale := *game
	stale.WrongGuesses = 2
	assert.ErrorIs(suite.T(), suite.repo.SaveProgress(ctx, &stale, read), ErrStaleUpdate)

	found, err := suite.repo.FindByID(ctx, game.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, found.WrongGuesses)
	assert.Equal(suite.T(), models.Letters{"Z"}, found.GuessedLetters)
}

func (suite *GameRepositoryTestSuite) TestSaveProgressFinishReleasesSlot() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	now := time.Now()
	game.GuessedLetters = models.Letters{"C", "A", "T"}
	game.GameStatus = models.StatusWon
	game.FinishedAt = &now
	require.NoError(suite.T(), suite.repo.SaveProgress(ctx, game, game.Version))
	assert.Nil(suite.T(), game.ActiveUserID)

	// terminal games accept no further writes
	assert.ErrorIs(suite.T(), suite.repo.SaveProgress(ctx, game, game.Version), ErrStaleUpdate)

	next := CreateTestGame(suite.alice.ID, "DOG", models.StatusInProgress, 0, 0, time.Now())
	assert.NoError(suite.T(), suite.repo.Insert(ctx, next))
}

func (suite *GameRepositoryTestSuite) TestUpdateTerminalStatus() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	require.NoError(suite.T(), suite.repo.UpdateTerminalStatus(ctx, game.ID, 0, models.StatusLost, 3, 1))

	found, err := suite.repo.FindByID(ctx, game.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusLost, found.GameStatus)
	assert.Equal(suite.T(), 3, found.WrongGuesses)
	assert.Equal(suite.T(), 1, found.HintsUsed)
	assert.NotNil(suite.T(), found.FinishedAt)
	assert.Nil(suite.T(), found.ActiveUserID)
	assert.Equal(suite.T(), 1, found.Version)

	assert.ErrorIs(suite.T(), suite.repo.UpdateTerminalStatus(ctx, game.ID, 1, models.StatusWon, 0, 0), ErrGameNotInProgress)
	assert.ErrorIs(suite.T(), suite.repo.UpdateTerminalStatus(ctx, "missing", 0, models.StatusWon, 0, 0), ErrNotFound)
	assert.Error(suite.T(), suite.repo.UpdateTerminalStatus(ctx, game.ID, 1, models.StatusInProgress, 0, 0))
}

func (suite *GameRepositoryTestSuite) TestUpdateTerminalStatusRequiresVersion() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	// a move lands after the game was read at version 0
	game.GuessedLetters = models.Letters{"X"}
	game.WrongGuesses = 1
	require.NoError(suite.T(), suite.repo.SaveProgress(ctx, game, 0))

	err := suite.repo.UpdateTerminalStatus(ctx, game.ID, 0, models.StatusLost, 0, 0)
	assert.ErrorIs(suite.T(), err, ErrStaleUpdate)

	found, err := suite.repo.FindByID(ctx, game.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusInProgress, found.GameStatus)
	assert.Equal(suite.T(), 1, found.WrongGuesses)
	assert.Equal(suite.T(), models.Letters{"X"}, found.GuessedLetters)
	assert.NotNil(suite.T(), found.ActiveUserID)
}

func (suite *GameRepositoryTestSuite) TestHistoryQueries() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	words := []string{"CAT", "DOG", "EMU", "FOX"}
	for i, w := range words {
		g := CreateTestGame(suite.alice.ID, w, models.StatusWon, i, 0, base.Add(time.Duration(i)*time.Hour))
		require.NoError(suite.T(), suite.repo.Insert(ctx, g))
	}
	lost := CreateTestGame(suite.bob.ID, "OWL", models.StatusLost, 6, 0, base)
	require.NoError(suite.T(), suite.repo.Insert(ctx, lost))

	all, err := suite.repo.FindAllByUser(ctx, suite.alice.ID, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 4)
	assert.Equal(suite.T(), "FOX", all[0].Word)
	assert.Equal(suite.T(), "CAT", all[3].Word)

	limited, err := suite.repo.FindAllByUser(ctx, suite.alice.ID, 2)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), limited, 2)

	p := NewPagination(2, 3)
	page, err := suite.repo.ListByUser(ctx, suite.alice.ID, p)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), p.Total)
	assert.Equal(suite.T(), 2, p.Pages())
	require.Len(suite.T(), page, 1)
	assert.Equal(suite.T(), "CAT", page[0].Word)

	won, err := suite.repo.FindAll(ctx, models.StatusWon)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), won, 4)

	everything, err := suite.repo.FindAll(ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), everything, 5)
}

func (suite *GameRepositoryTestSuite) TestFindStale() {
	ctx := context.Background()
	game := CreateTestGame(suite.alice.ID, "CAT", models.StatusInProgress, 0, 0, time.Now())
	require.NoError(suite.T(), suite.repo.Insert(ctx, game))

	stale, err := suite.repo.FindStale(ctx, time.Now().Add(time.Hour))
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), stale, 1)

	stale, err = suite.repo.FindStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), stale)
}

func TestGameRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameRepositoryTestSuite))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 0, p.Pages())

	p = NewPagination(3, 500)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
