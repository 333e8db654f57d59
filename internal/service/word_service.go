package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/game"
	"github.com/wfunc/hangman-game/internal/models"
	"github.com/wfunc/hangman-game/internal/repository"
	"go.uber.org/zap"
)

// wordService 词库服务实现
type wordService struct {
	wordRepo repository.WordRepository
	log      *zap.Logger
}

// NewWordService 创建词库服务
func NewWordService(wordRepo repository.WordRepository, log *zap.Logger) WordService {
	return &wordService{wordRepo: wordRepo, log: log}
}

// RandomWord 随机取一个单词; an empty corpus is a dependency failure.
func (s *wordService) RandomWord(ctx context.Context) (*models.Word, error) {
	word, err := s.wordRepo.FindRandom(ctx)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.New(errors.ErrWordsExhausted)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "pick word")
	}
	return word, nil
}

// AddWord 添加单词
func (s *wordService) AddWord(ctx context.Context, req *AddWordRequest) (*models.Word, error) {
	w, err := game.NormalizeWord(req.Word)
	if err != nil {
		return nil, err
	}
	hint1, hint2 := strings.TrimSpace(req.Hint1), strings.TrimSpace(req.Hint2)
	if hint1 == "" || hint2 == "" {
		return nil, errors.New(errors.ErrValidation, "both hints are required")
	}

	word := &models.Word{Word: w, Hint1: hint1, Hint2: hint2}
	if err := s.wordRepo.Create(ctx, word); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateKey) {
			return nil, errors.Newf(errors.ErrConflict, "word %s already exists", w)
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseWrite, "create word")
	}
	s.log.Info("Word added", zap.String("word", w))
	return word, nil
}

// Seed inserts the words that are not present yet and returns how many were added.
func (s *wordService) Seed(ctx context.Context, words []*models.Word) (int64, error) {
	added, err := s.wordRepo.Upsert(ctx, words)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrDatabaseWrite, "seed words")
	}
	s.log.Info("Word corpus seeded", zap.Int("candidates", len(words)), zap.Int64("added", added))
	return added, nil
}

// Count 词库数量
func (s *wordService) Count(ctx context.Context) (int64, error) {
	n, err := s.wordRepo.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrDatabaseQuery, "count words")
	}
	return n, nil
}
