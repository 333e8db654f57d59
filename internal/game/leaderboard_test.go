package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/hangman-game/internal/models"
)

// history builds won games followed by lost games for one user.
func history(userID string, won, lost, wrongPerGame, hintsPerGame int) []*models.Game {
	var games []*models.Game
	at := statsNow
	for i := 0; i < won+lost; i++ {
		status := models.StatusWon
		if i >= won {
			status = models.StatusLost
		}
		at = at.Add(time.Minute)
		g := makeGame(userID, "CAT", status, wrongPerGame, hintsPerGame, at)
		g.ID = fmt.Sprintf("%s-%d", userID, i)
		games = append(games, g)
	}
	return games
}

func TestRank_ScoringExample(t *testing.T) {
	games := history("ten", 8, 2, 1, 0)

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, 1, e.Rank)
	assert.Equal(t, "ten", e.UserID)
	assert.Equal(t, 10, e.TotalGames)
	assert.Equal(t, 8, e.GamesWon)
	assert.Equal(t, 2, e.GamesLost)
	assert.Equal(t, 80.0, e.WinRateScore)
	assert.Equal(t, 20.0, e.VolumeScore)
	assert.Equal(t, 28.0, e.EfficiencyScore)
	assert.Equal(t, 128.0, e.OverallScore)
}

func TestRank_EligibilityAndInProgress(t *testing.T) {
	games := history("two", 2, 0, 0, 0)
	games = append(games, makeGame("two", "DOG", models.StatusInProgress, 0, 0, statsNow))
	games = append(games, history("three", 1, 2, 2, 0)...)

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 1)
	assert.Equal(t, "three", entries[0].UserID)
}

func TestRank_VolumeSaturates(t *testing.T) {
	entries := Rank(history("many", 30, 0, 0, 0), DefaultRankOptions())
	require.Len(t, entries, 1)
	assert.Equal(t, 50.0, entries[0].VolumeScore)
	assert.Equal(t, 180.0, entries[0].OverallScore)
}

func TestRank_TieBreaks(t *testing.T) {
	// a: 100 + 6 + 30 = 136
	// b:  75 + 8 + 30 = 113
	// c: 100 + 8 + 28 = 136
	a := history("a", 3, 0, 0, 0)
	b := history("b", 3, 1, 0, 0)
	c := history("c", 4, 0, 1, 0)
	games := append(append(append([]*models.Game{}, a...), b...), c...)

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].UserID, "more games wins the tie")
	assert.Equal(t, "a", entries[1].UserID)
	assert.Equal(t, "b", entries[2].UserID)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestRank_WinRateTieBreak(t *testing.T) {
	// both 4 games and 113 overall:
	// lucky:   75 + 8 + 30
	// sloppy: 100 + 8 + 5 (penalty 12.5 per game)
	lucky := history("lucky", 3, 1, 0, 0)
	sloppy := history("sloppy", 4, 0, 12, 1)

	entries := Rank(append(append([]*models.Game{}, lucky...), sloppy...), DefaultRankOptions())
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].OverallScore, entries[1].OverallScore)
	assert.Equal(t, "sloppy", entries[0].UserID, "higher win rate wins the tie")
	assert.Equal(t, "lucky", entries[1].UserID)
}

func TestRank_StableResidualTies(t *testing.T) {
	var games []*models.Game
	for _, id := range []string{"p", "q", "r"} {
		games = append(games, history(id, 3, 0, 1, 0)...)
	}

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 3)
	assert.Equal(t, "p", entries[0].UserID)
	assert.Equal(t, "q", entries[1].UserID)
	assert.Equal(t, "r", entries[2].UserID)
}

func TestRank_TruncatesToSize(t *testing.T) {
	var games []*models.Game
	for i := 0; i < 8; i++ {
		games = append(games, history(fmt.Sprintf("user%d", i), 3+i, 0, 0, 0)...)
	}

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 5)
	assert.Equal(t, "user7", entries[0].UserID)
	assert.Equal(t, 5, entries[4].Rank)

	entries = Rank(games, RankOptions{MinGames: 3, Size: 2})
	assert.Len(t, entries, 2)
}

func TestRank_RoundsOnlyForDisplay(t *testing.T) {
	// 2 of 3 won with avg hints 1/3: winRate 66.666.., efficiency 29.666..
	games := history("u", 2, 1, 0, 0)
	games[0].HintsUsed = 1

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 1)
	assert.Equal(t, 66.67, entries[0].WinRate)
	assert.Equal(t, 0.33, entries[0].AverageHintsUsed)
	assert.Equal(t, 29.67, entries[0].EfficiencyScore)
	assert.Equal(t, 102.33, entries[0].OverallScore)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, DefaultRankOptions()))
}

func TestRank_TotalsAndBestPerformance(t *testing.T) {
	at := statsNow
	games := []*models.Game{
		makeGame("mixed", "CAT", models.StatusWon, 3, 2, at.Add(time.Minute)),
		makeGame("mixed", "DOG", models.StatusWon, 1, 1, at.Add(2*time.Minute)),
		makeGame("mixed", "EMU", models.StatusLost, 6, 0, at.Add(3*time.Minute)),
	}
	games = append(games, history("loser", 0, 3, 6, 1)...)

	entries := Rank(games, DefaultRankOptions())
	require.Len(t, entries, 2)

	mixed := entries[0]
	assert.Equal(t, "mixed", mixed.UserID)
	assert.Equal(t, 10, mixed.TotalWrongGuesses)
	assert.Equal(t, 3, mixed.TotalHintsUsed)
	require.NotNil(t, mixed.BestPerformance)
	assert.Equal(t, 1.5, *mixed.BestPerformance)

	loser := entries[1]
	assert.Equal(t, 18, loser.TotalWrongGuesses)
	assert.Equal(t, 3, loser.TotalHintsUsed)
	assert.Nil(t, loser.BestPerformance)
}
