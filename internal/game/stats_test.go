package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/hangman-game/internal/models"
)

var statsNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func makeGame(userID, word string, status models.GameStatus, wrong, hints int, createdAt time.Time) *models.Game {
	return &models.Game{
		ID:           userID + "-" + word + "-" + createdAt.Format(time.RFC3339Nano),
		UserID:       userID,
		Word:         word,
		WordLength:   len(word),
		GameStatus:   status,
		WrongGuesses: wrong,
		HintsUsed:    hints,
		CreatedAt:    createdAt,
	}
}

func TestAggregate_Basic(t *testing.T) {
	games := []*models.Game{
		makeGame("u", "CAT", models.StatusWon, 1, 0, statsNow.Add(-3*time.Hour)),
		makeGame("u", "HORSE", models.StatusLost, 3, 1, statsNow.Add(-2*time.Hour)),
		makeGame("u", "DOG", models.StatusWon, 0, 2, statsNow.Add(-1*time.Hour)),
	}

	stats := Aggregate(games, statsNow)

	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 2, stats.GamesWon)
	assert.Equal(t, 1, stats.GamesLost)
	assert.Zero(t, stats.GamesInProgress)
	assert.Equal(t, 66.67, stats.WinRate)
	assert.Equal(t, 1.33, stats.AverageWrongGuesses)
	assert.Equal(t, 1.0, stats.AverageHintsUsed)
	require.NotNil(t, stats.BestGame)
	assert.Equal(t, 0, *stats.BestGame)
	require.NotNil(t, stats.WorstGame)
	assert.Equal(t, 3, *stats.WorstGame)

	require.Len(t, stats.ByWordLength, 2)
	assert.Equal(t, LengthStats{WordLength: 3, Games: 2, Won: 2, Lost: 0, WinRate: 100}, stats.ByWordLength[0])
	assert.Equal(t, LengthStats{WordLength: 5, Games: 1, Won: 0, Lost: 1, WinRate: 0}, stats.ByWordLength[1])

	require.Len(t, stats.RecentGames, 3)
	assert.Equal(t, "DOG", stats.RecentGames[0].Word)
	assert.Equal(t, "CAT", stats.RecentGames[2].Word)
	// input order untouched
	assert.Equal(t, "CAT", games[0].Word)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, statsNow)

	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.WinRate)
	assert.Zero(t, stats.AverageWrongGuesses)
	assert.Nil(t, stats.BestGame)
	assert.Nil(t, stats.WorstGame)
	assert.Empty(t, stats.ByWordLength)
	assert.Empty(t, stats.RecentGames)
}

func TestAggregate_InProgressExcludedFromWinRate(t *testing.T) {
	games := []*models.Game{
		makeGame("u", "CAT", models.StatusInProgress, 4, 0, statsNow),
	}
	stats := Aggregate(games, statsNow)

	assert.Equal(t, 1, stats.GamesInProgress)
	assert.Zero(t, stats.WinRate)
	assert.Equal(t, 4.0, stats.AverageWrongGuesses)
	assert.Nil(t, stats.BestGame)
	assert.Nil(t, stats.WorstGame)
}

func TestAggregate_RecentWindowInclusive(t *testing.T) {
	cutoff := statsNow.AddDate(0, 0, -RecentWindowDays)
	games := []*models.Game{
		makeGame("u", "CAT", models.StatusWon, 0, 0, cutoff),
		makeGame("u", "DOG", models.StatusLost, 6, 0, cutoff.Add(-time.Second)),
		makeGame("u", "EMU", models.StatusInProgress, 0, 0, statsNow),
	}
	stats := Aggregate(games, statsNow)

	assert.Equal(t, WindowStats{Days: 30, Total: 2, Won: 1, Lost: 0, InProgress: 1}, stats.Recent)
}

func TestAggregate_RecentGamesCapped(t *testing.T) {
	var games []*models.Game
	for i := 0; i < 15; i++ {
		games = append(games, makeGame("u", "CAT", models.StatusWon, 0, 0, statsNow.Add(time.Duration(i)*time.Minute)))
	}
	stats := Aggregate(games, statsNow)

	require.Len(t, stats.RecentGames, RecentGamesLimit)
	assert.Equal(t, games[14].ID, stats.RecentGames[0].ID)
	assert.Equal(t, games[5].ID, stats.RecentGames[9].ID)
}
