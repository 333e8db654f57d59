package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/models"
)

// Event 触发终局的事件
type Event string

const (
	EventWordCompleted    Event = "word_completed"    // 单词全部猜出
	EventGuessesExhausted Event = "guesses_exhausted" // 错误次数用尽
	EventSurrender        Event = "surrender"         // 主动放弃
	EventExpire           Event = "expire"            // 超时未操作
)

// BlankMarker stands in for letters not yet revealed.
const BlankMarker = "_"

// transitions 状态转换表, keyed by "from:event".
var transitions = map[string]models.GameStatus{}

func addTransition(from models.GameStatus, event Event, to models.GameStatus) {
	transitions[transitionKey(from, event)] = to
}

func transitionKey(status models.GameStatus, event Event) string {
	return fmt.Sprintf("%s:%s", status, event)
}

func init() {
	addTransition(models.StatusInProgress, EventWordCompleted, models.StatusWon)
	addTransition(models.StatusInProgress, EventGuessesExhausted, models.StatusLost)
	addTransition(models.StatusInProgress, EventSurrender, models.StatusLost)
	addTransition(models.StatusInProgress, EventExpire, models.StatusLost)
}

// Rules 单局规则
type Rules struct {
	MaxWrongGuesses int
	MaxHints        int
}

// DefaultRules 默认规则: 6 次错误, 2 次提示
func DefaultRules() Rules {
	return Rules{MaxWrongGuesses: 6, MaxHints: 2}
}

// Validate checks the rules against the two pre-authored hints.
func (r Rules) Validate() error {
	if r.MaxWrongGuesses < 1 {
		return errors.Newf(errors.ErrValidation, "max wrong guesses must be at least 1, got %d", r.MaxWrongGuesses)
	}
	if r.MaxHints < 0 || r.MaxHints > 2 {
		return errors.Newf(errors.ErrValidation, "max hints must be between 0 and 2, got %d", r.MaxHints)
	}
	return nil
}

// GuessResult 猜测结果
type GuessResult struct {
	Letter         string            `json:"letter"`
	Correct        bool              `json:"correct"`
	AlreadyGuessed bool              `json:"alreadyGuessed"`
	Status         models.GameStatus `json:"gameStatus"`
}

// Session is the rule engine for a single game. It mutates the wrapped
// record in place; persisting it is the caller's job.
type Session struct {
	game  *models.Game
	now   func() time.Time
	score float64

	onTransition func(from, to models.GameStatus, event Event)
}

// StartSession 开始新的一局
func StartSession(userID string, word *models.Word, rules Rules) (*Session, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrValidation, "user id is required")
	}
	if word == nil {
		return nil, errors.New(errors.ErrWordsExhausted)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	w, err := NormalizeWord(word.Word)
	if err != nil {
		return nil, err
	}

	g := &models.Game{
		UserID:          userID,
		Word:            w,
		WordLength:      len(w),
		Hint1:           word.Hint1,
		Hint2:           word.Hint2,
		GuessedLetters:  models.Letters{},
		GameStatus:      models.StatusInProgress,
		MaxWrongGuesses: rules.MaxWrongGuesses,
		MaxHints:        rules.MaxHints,
	}
	g.SyncActiveSlot()
	return &Session{game: g, now: time.Now}, nil
}

// FromGame resumes a session from a stored record.
func FromGame(g *models.Game) *Session {
	s := &Session{game: g, now: time.Now}
	if g.GameStatus.IsTerminal() {
		s.score = Score(g)
	}
	return s
}

// NormalizeWord uppercases a candidate word and checks it is 3-20 letters A-Z.
func NormalizeWord(raw string) (string, error) {
	w := strings.ToUpper(strings.TrimSpace(raw))
	if n := len(w); n < models.MinWordLength || n > models.MaxWordLength {
		return "", errors.Newf(errors.ErrWordLength, "word must be %d-%d letters, got %d",
			models.MinWordLength, models.MaxWordLength, n)
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", errors.New(errors.ErrValidation, "word must contain only letters A-Z")
		}
	}
	return w, nil
}

// NormalizeLetter accepts exactly one letter A-Z in either case.
func NormalizeLetter(raw string) (string, error) {
	if len(raw) != 1 {
		return "", errors.New(errors.ErrValidation, "guess must be a single letter")
	}
	l := strings.ToUpper(raw)
	if l[0] < 'A' || l[0] > 'Z' {
		return "", errors.New(errors.ErrValidation, "guess must be a letter A-Z")
	}
	return l, nil
}

// OnTransition registers a callback fired after a terminal transition.
func (s *Session) OnTransition(fn func(from, to models.GameStatus, event Event)) {
	s.onTransition = fn
}

// GuessLetter applies one guess. Win is evaluated before loss.
func (s *Session) GuessLetter(raw string) (*GuessResult, error) {
	letter, err := NormalizeLetter(raw)
	if err != nil {
		return nil, err
	}
	if s.game.GameStatus.IsTerminal() {
		return nil, errors.Newf(errors.ErrInvalidState, "game is %s", s.game.GameStatus)
	}

	correct := strings.Contains(s.game.Word, letter)
	result := &GuessResult{Letter: letter, Correct: correct}

	if s.game.GuessedLetters.Contains(letter) {
		result.AlreadyGuessed = true
		result.Status = s.game.GameStatus
		return result, nil
	}

	s.game.GuessedLetters = append(s.game.GuessedLetters, letter)
	if !correct {
		s.game.WrongGuesses++
	}

	switch {
	case s.wordCompleted():
		err = s.fire(EventWordCompleted)
	case s.game.WrongGuesses >= s.game.MaxWrongGuesses:
		err = s.fire(EventGuessesExhausted)
	}
	if err != nil {
		return nil, err
	}

	result.Status = s.game.GameStatus
	return result, nil
}

// UseHint reveals the next hint.
func (s *Session) UseHint() (string, error) {
	if s.game.GameStatus.IsTerminal() {
		return "", errors.Newf(errors.ErrInvalidState, "game is %s", s.game.GameStatus)
	}
	hints := s.hints()
	if s.game.HintsUsed >= s.game.MaxHints || s.game.HintsUsed >= len(hints) {
		return "", errors.Newf(errors.ErrHintExhausted, "all %d hints used", s.game.MaxHints)
	}
	hint := hints[s.game.HintsUsed]
	s.game.HintsUsed++
	return hint, nil
}

// Surrender 主动认输
func (s *Session) Surrender() error {
	return s.fire(EventSurrender)
}

// Expire ends an abandoned game as lost.
func (s *Session) Expire() error {
	return s.fire(EventExpire)
}

// fire 执行终局转换
func (s *Session) fire(event Event) error {
	from := s.game.GameStatus
	to, ok := transitions[transitionKey(from, event)]
	if !ok {
		return errors.Newf(errors.ErrInvalidState, "cannot %s a game that is %s", event, from)
	}

	finished := s.now()
	s.game.GameStatus = to
	s.game.FinishedAt = &finished
	s.game.SyncActiveSlot()
	s.score = Score(s.game)

	if s.onTransition != nil {
		s.onTransition(from, to, event)
	}
	return nil
}

func (s *Session) wordCompleted() bool {
	for i := 0; i < len(s.game.Word); i++ {
		if !s.game.GuessedLetters.Contains(s.game.Word[i : i+1]) {
			return false
		}
	}
	return true
}

func (s *Session) hints() []string {
	return []string{s.game.Hint1, s.game.Hint2}
}

// CurrentDisplay shows guessed letters and blanks; a lost game shows the whole word.
func (s *Session) CurrentDisplay() string {
	var b strings.Builder
	reveal := s.game.GameStatus == models.StatusLost
	for i := 0; i < len(s.game.Word); i++ {
		ch := s.game.Word[i : i+1]
		if reveal || s.game.GuessedLetters.Contains(ch) {
			b.WriteString(ch)
		} else {
			b.WriteString(BlankMarker)
		}
	}
	return b.String()
}

// CorrectLetters 猜中的字母（按猜测顺序）
func (s *Session) CorrectLetters() []string {
	return s.partition(true)
}

// WrongLetters 猜错的字母（按猜测顺序）
func (s *Session) WrongLetters() []string {
	return s.partition(false)
}

func (s *Session) partition(inWord bool) []string {
	out := make([]string, 0, len(s.game.GuessedLetters))
	for _, l := range s.game.GuessedLetters {
		if strings.Contains(s.game.Word, l) == inWord {
			out = append(out, l)
		}
	}
	return out
}

// RevealedHints returns the hints used so far.
func (s *Session) RevealedHints() []string {
	hints := s.hints()
	n := s.game.HintsUsed
	if n > len(hints) {
		n = len(hints)
	}
	return append([]string{}, hints[:n]...)
}

// Game 返回底层记录
func (s *Session) Game() *models.Game { return s.game }

// Status 当前状态
func (s *Session) Status() models.GameStatus { return s.game.GameStatus }

// FinalScore is zero until the game is over.
func (s *Session) FinalScore() float64 { return s.score }

// RemainingGuesses 剩余错误次数
func (s *Session) RemainingGuesses() int {
	if n := s.game.MaxWrongGuesses - s.game.WrongGuesses; n > 0 {
		return n
	}
	return 0
}

// View 面向展示层的会话视图
type View struct {
	ID               string            `json:"id"`
	Status           models.GameStatus `json:"gameStatus"`
	WordLength       int               `json:"wordLength"`
	Display          string            `json:"display"`
	GuessedLetters   []string          `json:"guessedLetters"`
	CorrectLetters   []string          `json:"correctLetters"`
	WrongLetters     []string          `json:"wrongLetters"`
	WrongGuesses     int               `json:"wrongGuesses"`
	MaxWrongGuesses  int               `json:"maxWrongGuesses"`
	RemainingGuesses int               `json:"remainingGuesses"`
	HintsUsed        int               `json:"hintsUsed"`
	MaxHints         int               `json:"maxHints"`
	Hints            []string          `json:"hints"`
	Word             string            `json:"word,omitempty"`
	Score            *float64          `json:"score,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	FinishedAt       *time.Time        `json:"finishedAt,omitempty"`
}

// View renders the session. The word is only disclosed once the game is over.
func (s *Session) View() *View {
	g := s.game
	v := &View{
		ID:               g.ID,
		Status:           g.GameStatus,
		WordLength:       g.WordLength,
		Display:          s.CurrentDisplay(),
		GuessedLetters:   append([]string{}, g.GuessedLetters...),
		CorrectLetters:   s.CorrectLetters(),
		WrongLetters:     s.WrongLetters(),
		WrongGuesses:     g.WrongGuesses,
		MaxWrongGuesses:  g.MaxWrongGuesses,
		RemainingGuesses: s.RemainingGuesses(),
		HintsUsed:        g.HintsUsed,
		MaxHints:         g.MaxHints,
		Hints:            s.RevealedHints(),
		CreatedAt:        g.CreatedAt,
		FinishedAt:       g.FinishedAt,
	}
	if g.GameStatus.IsTerminal() {
		score := Round2(s.score)
		v.Word = g.Word
		v.Score = &score
	}
	return v
}
