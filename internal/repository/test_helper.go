package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/hangman-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 创建测试数据库（每个测试独立的内存库）
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// shared cache keeps the in-memory database alive across pool connections
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Word{}, &models.Game{}))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// SeedTestUsers 创建测试用户
func SeedTestUsers(t *testing.T, db *gorm.DB, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		u := &models.User{
			Name:         name,
			Email:        name + "@example.com",
			PasswordHash: "hash",
		}
		require.NoError(t, db.Create(u).Error)
		users = append(users, u)
	}
	return users
}

// CreateTestGame 构造一局测试游戏
func CreateTestGame(userID, word string, status models.GameStatus, wrong, hints int, createdAt time.Time) *models.Game {
	return &models.Game{
		UserID:          userID,
		Word:            word,
		WordLength:      len(word),
		Hint1:           "first hint",
		Hint2:           "second hint",
		GuessedLetters:  models.Letters{},
		GameStatus:      status,
		WrongGuesses:    wrong,
		HintsUsed:       hints,
		MaxWrongGuesses: 6,
		MaxHints:        2,
		CreatedAt:       createdAt,
	}
}

// AssertGame 断言游戏记录一致
func AssertGame(t *testing.T, expected, actual *models.Game) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.UserID, actual.UserID)
	assert.Equal(t, expected.Word, actual.Word)
	assert.Equal(t, expected.WordLength, actual.WordLength)
	assert.ElementsMatch(t, expected.GuessedLetters, actual.GuessedLetters)
	assert.Equal(t, expected.GameStatus, actual.GameStatus)
	assert.Equal(t, expected.WrongGuesses, actual.WrongGuesses)
	assert.Equal(t, expected.HintsUsed, actual.HintsUsed)
}
