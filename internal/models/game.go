package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameStatus 游戏状态
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusLost       GameStatus = "lost"
)

// Word length bounds shared by games and the word corpus.
const (
	MinWordLength = 3
	MaxWordLength = 20
)

// IsTerminal reports whether no further moves are allowed.
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	return s == StatusInProgress || s.IsTerminal()
}

// Letters is an ordered set of guessed letters, stored as a JSON array.
type Letters []string

// Value implements driver.Valuer.
func (l Letters) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *Letters) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = Letters{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("letters: unsupported scan type %T", value)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Contains reports whether letter was already guessed.
func (l Letters) Contains(letter string) bool {
	for _, g := range l {
		if g == letter {
			return true
		}
	}
	return false
}

// Game 一局游戏记录
type Game struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	UserID          string     `gorm:"size:36;not null;index:idx_games_user_created,priority:1" json:"userId"`
	Word            string     `gorm:"size:20;not null" json:"word"`
	WordLength      int        `gorm:"not null" json:"wordLength"`
	Hint1           string     `gorm:"size:255" json:"-"`
	Hint2           string     `gorm:"size:255" json:"-"`
	GuessedLetters  Letters    `gorm:"type:text;not null" json:"guessedLetters"`
	GameStatus      GameStatus `gorm:"size:16;not null;default:'in_progress';index" json:"gameStatus"`
	WrongGuesses    int        `gorm:"not null;default:0" json:"wrongGuesses"`
	HintsUsed       int        `gorm:"not null;default:0" json:"hintsUsed"`
	MaxWrongGuesses int        `gorm:"not null;default:6" json:"maxWrongGuesses"`
	MaxHints        int        `gorm:"not null;default:2" json:"maxHints"`
	Version         int        `gorm:"not null;default:0" json:"-"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	CreatedAt       time.Time  `gorm:"index:idx_games_user_created,priority:2" json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// ActiveUserID mirrors UserID while the game is in progress and is NULL
	// afterwards; its unique index allows one live game per user.
	ActiveUserID *string `gorm:"size:36;uniqueIndex:idx_games_active_user" json:"-"`
}

// BeforeCreate 创建前钩子
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.GuessedLetters == nil {
		g.GuessedLetters = Letters{}
	}
	g.SyncActiveSlot()
	return nil
}

// SyncActiveSlot keeps ActiveUserID consistent with GameStatus.
func (g *Game) SyncActiveSlot() {
	if g.GameStatus == StatusInProgress {
		uid := g.UserID
		g.ActiveUserID = &uid
		return
	}
	g.ActiveUserID = nil
}

// Validate checks the persisted-record constraints.
func (g *Game) Validate() error {
	if g.UserID == "" {
		return fmt.Errorf("game: user id is required")
	}
	if g.Word != strings.ToUpper(g.Word) {
		return fmt.Errorf("game: word must be uppercase")
	}
	if n := len(g.Word); n < MinWordLength || n > MaxWordLength {
		return fmt.Errorf("game: word length %d out of range", n)
	}
	if g.WordLength != len(g.Word) {
		return fmt.Errorf("game: word length %d does not match word", g.WordLength)
	}
	if !g.GameStatus.Valid() {
		return fmt.Errorf("game: unknown status %q", g.GameStatus)
	}
	if g.WrongGuesses < 0 || g.HintsUsed < 0 {
		return fmt.Errorf("game: counters must be non-negative")
	}
	return nil
}

// TableName 表名
func (Game) TableName() string {
	return "games"
}
