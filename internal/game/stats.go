package game

import (
	"sort"
	"time"

	"github.com/wfunc/hangman-game/internal/models"
)

// 统计窗口
const (
	RecentWindowDays = 30
	RecentGamesLimit = 10
)

// LengthStats 按单词长度分组的战绩
type LengthStats struct {
	WordLength int     `json:"wordLength"`
	Games      int     `json:"games"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	WinRate    float64 `json:"winRate"`
}

// WindowStats counts games created within the trailing window.
type WindowStats struct {
	Days       int `json:"days"`
	Total      int `json:"total"`
	Won        int `json:"won"`
	Lost       int `json:"lost"`
	InProgress int `json:"inProgress"`
}

// UserStats 用户统计
type UserStats struct {
	TotalGames          int            `json:"totalGames"`
	GamesWon            int            `json:"gamesWon"`
	GamesLost           int            `json:"gamesLost"`
	GamesInProgress     int            `json:"gamesInProgress"`
	WinRate             float64        `json:"winRate"`
	AverageWrongGuesses float64        `json:"averageWrongGuesses"`
	AverageHintsUsed    float64        `json:"averageHintsUsed"`
	BestGame            *int           `json:"bestGame"`
	WorstGame           *int           `json:"worstGame"`
	ByWordLength        []LengthStats  `json:"byWordLength"`
	Recent              WindowStats    `json:"recent"`
	RecentGames         []*models.Game `json:"recentGames"`
}

// Aggregate reduces one user's history into UserStats. The input slice and
// its records are not modified.
func Aggregate(games []*models.Game, now time.Time) *UserStats {
	stats := &UserStats{
		ByWordLength: []LengthStats{},
		Recent:       WindowStats{Days: RecentWindowDays},
		RecentGames:  []*models.Game{},
	}
	cutoff := now.AddDate(0, 0, -RecentWindowDays)
	byLength := make(map[int]*LengthStats)

	var wrongSum, hintSum int
	for _, g := range games {
		stats.TotalGames++
		wrongSum += g.WrongGuesses
		hintSum += g.HintsUsed

		ls, ok := byLength[g.WordLength]
		if !ok {
			ls = &LengthStats{WordLength: g.WordLength}
			byLength[g.WordLength] = ls
		}
		ls.Games++

		recent := !g.CreatedAt.Before(cutoff)
		if recent {
			stats.Recent.Total++
		}

		switch g.GameStatus {
		case models.StatusWon:
			stats.GamesWon++
			ls.Won++
			if recent {
				stats.Recent.Won++
			}
			if stats.BestGame == nil || g.WrongGuesses < *stats.BestGame {
				best := g.WrongGuesses
				stats.BestGame = &best
			}
		case models.StatusLost:
			stats.GamesLost++
			ls.Lost++
			if recent {
				stats.Recent.Lost++
			}
			if stats.WorstGame == nil || g.WrongGuesses > *stats.WorstGame {
				worst := g.WrongGuesses
				stats.WorstGame = &worst
			}
		case models.StatusInProgress:
			stats.GamesInProgress++
			if recent {
				stats.Recent.InProgress++
			}
		}
	}

	if finished := stats.GamesWon + stats.GamesLost; finished > 0 {
		stats.WinRate = Round2(100 * float64(stats.GamesWon) / float64(finished))
	}
	if stats.TotalGames > 0 {
		stats.AverageWrongGuesses = Round2(float64(wrongSum) / float64(stats.TotalGames))
		stats.AverageHintsUsed = Round2(float64(hintSum) / float64(stats.TotalGames))
	}

	for _, ls := range byLength {
		ls.WinRate = Round2(100 * float64(ls.Won) / float64(ls.Games))
		stats.ByWordLength = append(stats.ByWordLength, *ls)
	}
	sort.Slice(stats.ByWordLength, func(i, j int) bool {
		return stats.ByWordLength[i].WordLength < stats.ByWordLength[j].WordLength
	})

	stats.RecentGames = recentGames(games, RecentGamesLimit)
	return stats
}

// recentGames returns the newest n games without reordering the input.
func recentGames(games []*models.Game, n int) []*models.Game {
	sorted := append([]*models.Game{}, games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
