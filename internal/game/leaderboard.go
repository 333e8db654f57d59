package game

import (
	"math"
	"sort"

	"github.com/wfunc/hangman-game/internal/models"
)

// 排行榜参数
const (
	volumePerGame = 2.0
	maxVolume     = 50.0
)

// RankOptions 排行榜选项
type RankOptions struct {
	MinGames int // eligibility threshold on finished games
	Size     int // entries kept after sorting
}

// DefaultRankOptions 默认: 至少 3 局, 取前 5 名
func DefaultRankOptions() RankOptions {
	return RankOptions{MinGames: 3, Size: 5}
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	UserID              string  `json:"userId"`
	Name                string  `json:"name"`
	TotalGames          int     `json:"totalGames"`
	GamesWon            int     `json:"gamesWon"`
	GamesLost           int     `json:"gamesLost"`
	WinRate             float64 `json:"winRate"`
	AverageWrongGuesses float64 `json:"averageWrongGuesses"`
	AverageHintsUsed    float64 `json:"averageHintsUsed"`
	TotalWrongGuesses   int     `json:"totalWrongGuesses"`
	TotalHintsUsed      int     `json:"totalHintsUsed"`
	// BestPerformance is the lowest wrong+0.5*hints over won games, nil
	// without a win. Display only.
	BestPerformance *float64 `json:"bestPerformance"`
	WinRateScore    float64  `json:"winRateScore"`
	VolumeScore     float64  `json:"volumeScore"`
	EfficiencyScore float64  `json:"efficiencyScore"`
	OverallScore    float64  `json:"overallScore"`
}

// playerTally accumulates one user's finished games.
type playerTally struct {
	userID     string
	total      int
	won        int
	lost       int
	wrongSum   int
	hintSum    int
	best       *float64
	avgWrong   float64
	avgHints   float64
	winRate    float64
	volume     float64
	efficiency float64
	overall    float64
}

func (p *playerTally) compute() {
	n := float64(p.total)
	p.avgWrong = float64(p.wrongSum) / n
	p.avgHints = float64(p.hintSum) / n
	p.winRate = 100 * float64(p.won) / n
	p.volume = math.Min(n*volumePerGame, maxVolume)
	p.efficiency = EfficiencyScore(p.avgWrong, p.avgHints)
	p.overall = p.winRate + p.volume + p.efficiency
}

// Rank builds the leaderboard from all games. Games still in progress are
// ignored. Sorting uses full precision; values are rounded only in the output.
func Rank(games []*models.Game, opts RankOptions) []LeaderboardEntry {
	if opts.MinGames <= 0 {
		opts.MinGames = DefaultRankOptions().MinGames
	}
	if opts.Size <= 0 {
		opts.Size = DefaultRankOptions().Size
	}

	// group in first-appearance order so residual ties stay stable
	tallies := make(map[string]*playerTally)
	order := make([]*playerTally, 0)
	for _, g := range games {
		if !g.GameStatus.IsTerminal() {
			continue
		}
		p, ok := tallies[g.UserID]
		if !ok {
			p = &playerTally{userID: g.UserID}
			tallies[g.UserID] = p
			order = append(order, p)
		}
		p.total++
		p.wrongSum += g.WrongGuesses
		p.hintSum += g.HintsUsed
		if g.GameStatus == models.StatusWon {
			p.won++
			perf := float64(g.WrongGuesses) + 0.5*float64(g.HintsUsed)
			if p.best == nil || perf < *p.best {
				p.best = &perf
			}
		} else {
			p.lost++
		}
	}

	eligible := make([]*playerTally, 0, len(order))
	for _, p := range order {
		if p.total < opts.MinGames {
			continue
		}
		p.compute()
		eligible = append(eligible, p)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.overall != b.overall {
			return a.overall > b.overall
		}
		if a.total != b.total {
			return a.total > b.total
		}
		return a.winRate > b.winRate
	})

	if len(eligible) > opts.Size {
		eligible = eligible[:opts.Size]
	}

	entries := make([]LeaderboardEntry, 0, len(eligible))
	for i, p := range eligible {
		var best *float64
		if p.best != nil {
			v := Round2(*p.best)
			best = &v
		}
		entries = append(entries, LeaderboardEntry{
			Rank:                i + 1,
			UserID:              p.userID,
			TotalGames:          p.total,
			GamesWon:            p.won,
			GamesLost:           p.lost,
			WinRate:             Round2(p.winRate),
			AverageWrongGuesses: Round2(p.avgWrong),
			AverageHintsUsed:    Round2(p.avgHints),
			TotalWrongGuesses:   p.wrongSum,
			TotalHintsUsed:      p.hintSum,
			BestPerformance:     best,
			WinRateScore:        Round2(p.winRate),
			VolumeScore:         Round2(p.volume),
			EfficiencyScore:     Round2(p.efficiency),
			OverallScore:        Round2(p.overall),
		})
	}
	return entries
}
