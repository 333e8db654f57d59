package service

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/logger"
	"github.com/wfunc/hangman-game/internal/metrics"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/repository"
	"go.uber.org/zap"
)

// gameService 游戏服务实现
type gameService struct {
	gameRepo repository.GameRepository
	words    WordService
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	rules     game.Rules
	listeners []FinishListener
	movers    []MoveListener
}

// NewGameService 创建游戏服务
func NewGameService(
	gameRepo repository.GameRepository,
	words WordService,
	rules game.Rules,
	m *metrics.Metrics,
	log *zap.Logger,
) GameService {
	return &gameService{
		gameRepo: gameRepo,
		words:    words,
		metrics:  m,
		log:      log,
		now:      time.Now,
		rules:    rules,
	}
}

// SetRules swaps the rules used for games started from now on.
func (s *gameService) SetRules(rules game.Rules) {
	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
}

func (s *gameService) currentRules() game.Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// OnFinish 注册终局监听
func (s *gameService) OnFinish(l FinishListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// OnMove 注册落子监听
func (s *gameService) OnMove(l MoveListener) {
	s.mu.Lock()
	s.movers = append(s.movers, l)
	s.mu.Unlock()
}

// Start 开始新游戏
func (s *gameService) Start(ctx context.Context, userID string) (*game.View, error) {
	live, err := s.gameRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "find active game")
	}
	if live != nil {
		return nil, activeGameConflict(live.ID)
	}

	word, err := s.words.RandomWord(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := game.StartSession(userID, word, s.currentRules())
	if err != nil {
		return nil, err
	}

	if err := s.gameRepo.Insert(ctx, sess.Game()); err != nil {
		if stderrors.Is(err, repository.ErrActiveGameExists) {
			// lost the race against a concurrent start
			if live, _ := s.gameRepo.FindActiveByUser(ctx, userID); live != nil {
				return nil, activeGameConflict(live.ID)
			}
			return nil, errors.New(errors.ErrActiveGame)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseWrite, "insert game")
	}

	s.metrics.GameStarted()
	s.log.Info("Game started",
		zap.String("userID", userID),
		zap.String("gameID", sess.Game().ID),
		zap.Int("wordLength", sess.Game().WordLength))
	s.afterMove(ctx, sess, "")
	return sess.View(), nil
}

// Active 当前进行中的游戏
func (s *gameService) Active(ctx context.Context, userID string) (*game.View, error) {
	live, err := s.gameRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "find active game")
	}
	if live == nil {
		return nil, errors.New(errors.ErrGameNotFound, "no game in progress")
	}
	return game.FromGame(live).View(), nil
}

// Get 查询单局
func (s *gameService) Get(ctx context.Context, userID, gameID string) (*game.View, error) {
	g, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	return game.FromGame(g).View(), nil
}

// Guess 猜字母
func (s *gameService) Guess(ctx context.Context, userID, gameID, letter string) (*GuessResponse, error) {
	g, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	sess, fired := s.resume(g)
	version := g.Version

	result, err := sess.GuessLetter(letter)
	if err != nil {
		return nil, err
	}
	if result.AlreadyGuessed {
		s.metrics.Guess("repeat")
		return &GuessResponse{Result: result, Game: sess.View()}, nil
	}

	if err := s.save(ctx, g, version); err != nil {
		return nil, err
	}
	if result.Correct {
		s.metrics.Guess("correct")
	} else {
		s.metrics.Guess("wrong")
	}
	s.afterMove(ctx, sess, *fired)
	return &GuessResponse{Result: result, Game: sess.View()}, nil
}

// Hint 使用提示
func (s *gameService) Hint(ctx context.Context, userID, gameID string) (*HintResponse, error) {
	g, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	sess := game.FromGame(g)
	version := g.Version

	hint, err := sess.UseHint()
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, g, version); err != nil {
		return nil, err
	}
	s.metrics.HintUsed()
	s.afterMove(ctx, sess, "")
	return &HintResponse{Hint: hint, Game: sess.View()}, nil
}

// Surrender 认输
func (s *gameService) Surrender(ctx context.Context, userID, gameID string) (*game.View, error) {
	g, err := s.load(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	sess, fired := s.resume(g)
	version := g.Version

	if err := sess.Surrender(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, g, version); err != nil {
		return nil, err
	}
	s.afterMove(ctx, sess, *fired)
	return sess.View(), nil
}

// History 分页历史
func (s *gameService) History(ctx context.Context, userID string, page, pageSize int) (*HistoryResponse, error) {
	p := repository.NewPagination(page, pageSize)
	games, err := s.gameRepo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "list games")
	}

	views := make([]*game.View, 0, len(games))
	for _, g := range games {
		views = append(views, game.FromGame(g).View())
	}
	return &HistoryResponse{Games: views, Page: p.Page, PageSize: p.PageSize, Pages: p.Pages(), Total: p.Total}, nil
}

// ExpireStale 过期长时间无操作的游戏
func (s *gameService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	// 0 或负数表示关闭过期
	if olderThan <= 0 {
		return 0, nil
	}
	stale, err := s.gameRepo.FindStale(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrDatabaseQuery, "find stale games")
	}

	expired := 0
	for _, g := range stale {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		sess, fired := s.resume(g)
		version := g.Version
		if err := sess.Expire(); err != nil {
			continue
		}
		err := s.gameRepo.UpdateTerminalStatus(ctx, g.ID, version, g.GameStatus, g.WrongGuesses, g.HintsUsed)
		if err != nil {
			switch {
			case stderrors.Is(err, repository.ErrStaleUpdate):
				// the player moved after the scan; the game is fresh again
				s.log.Debug("Skip expiry of moved game", zap.String("gameID", g.ID))
			case !stderrors.Is(err, repository.ErrGameNotInProgress):
				s.log.Warn("Failed to expire game", zap.String("gameID", g.ID), zap.Error(err))
			}
			continue
		}
		expired++
		s.afterMove(ctx, sess, *fired)
	}

	if expired > 0 {
		s.log.Info("Expired stale games", zap.Int("count", expired), zap.Duration("olderThan", olderThan))
	}
	return expired, nil
}

// load fetches a game owned by userID. Another user's game is reported as
// missing so ids cannot be enumerated.
func (s *gameService) load(ctx context.Context, userID, gameID string) (*models.Game, error) {
	g, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.New(errors.ErrGameNotFound, gameID)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "load game")
	}
	if g.UserID != userID {
		return nil, errors.New(errors.ErrGameNotFound, gameID)
	}
	return g, nil
}

// resume wraps g in a session and records the terminal event, if any, in
// the returned pointer.
func (s *gameService) resume(g *models.Game) (*game.Session, *game.Event) {
	sess := game.FromGame(g)
	fired := new(game.Event)
	sess.OnTransition(func(_, _ models.GameStatus, event game.Event) {
		*fired = event
	})
	return sess, fired
}

func (s *gameService) save(ctx context.Context, g *models.Game, version int) error {
	if err := s.gameRepo.SaveProgress(ctx, g, version); err != nil {
		if stderrors.Is(err, repository.ErrStaleUpdate) {
			return errors.New(errors.ErrStaleGameUpdate, g.ID)
		}
		return errors.Wrap(err, errors.ErrDatabaseWrite, "save game")
	}
	return nil
}

// afterMove notifies move listeners of a persisted change, and publishes a
// finish when the move ended the game.
func (s *gameService) afterMove(ctx context.Context, sess *game.Session, event game.Event) {
	g := sess.Game()
	s.mu.RLock()
	movers := append([]MoveListener(nil), s.movers...)
	s.mu.RUnlock()
	for _, l := range movers {
		l(ctx, g.UserID, g.ID)
	}

	if event == "" {
		return
	}
	score := sess.FinalScore()
	s.metrics.GameFinished(string(g.GameStatus), string(event), score)
	logger.LogGameEvent(s.log, string(event), g.ID, g.UserID,
		zap.String("status", string(g.GameStatus)),
		zap.Int("wrong_guesses", g.WrongGuesses),
		zap.Int("hints_used", g.HintsUsed),
		zap.Float64("score", score))

	s.mu.RLock()
	listeners := append([]FinishListener(nil), s.listeners...)
	s.mu.RUnlock()

	ev := FinishEvent{
		GameID:       g.ID,
		UserID:       g.UserID,
		Status:       g.GameStatus,
		Event:        event,
		WrongGuesses: g.WrongGuesses,
		HintsUsed:    g.HintsUsed,
		Score:        game.Round2(score),
	}
	for _, l := range listeners {
		l(ctx, ev)
	}
}

func activeGameConflict(gameID string) error {
	return errors.New(errors.ErrActiveGame).WithMeta("gameId", gameID)
}
