package game

import (
	"math"

	"github.com/wfunc/hangman-game/internal/models"
)

// 效率分参数
const (
	MaxEfficiencyScore = 30.0
	HintPenaltyWeight  = 0.5
	penaltyMultiplier  = 2.0
)

// EfficiencyPenalty 效率惩罚: 错误次数 + 0.5 * 提示次数
func EfficiencyPenalty(wrongGuesses, hintsUsed float64) float64 {
	return wrongGuesses + HintPenaltyWeight*hintsUsed
}

// EfficiencyScore maps a penalty onto 0..30; it reaches zero once the
// penalty is 15 or more. Averages are accepted so the leaderboard can reuse it.
func EfficiencyScore(wrongGuesses, hintsUsed float64) float64 {
	return math.Max(0, MaxEfficiencyScore-EfficiencyPenalty(wrongGuesses, hintsUsed)*penaltyMultiplier)
}

// Score is the final score of a game. Only won games score.
func Score(g *models.Game) float64 {
	if g == nil || g.GameStatus != models.StatusWon {
		return 0
	}
	return EfficiencyScore(float64(g.WrongGuesses), float64(g.HintsUsed))
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
