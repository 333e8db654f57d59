package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/hangman-game/internal/models"
	"gorm.io/gorm"
)

// GameRepository 游戏记录仓储接口
type GameRepository interface {
	BaseRepository
	Insert(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id string) (*models.Game, error)
	FindActiveByUser(ctx context.Context, userID string) (*models.Game, error)
	FindAllByUser(ctx context.Context, userID string, limit int) ([]*models.Game, error)
	ListByUser(ctx context.Context, userID string, p *Pagination) ([]*models.Game, error)
	FindAll(ctx context.Context, statuses ...models.GameStatus) ([]*models.Game, error)
	SaveProgress(ctx context.Context, game *models.Game, expectedVersion int) error
	UpdateTerminalStatus(ctx context.Context, gameID string, expectedVersion int, status models.GameStatus, wrongGuesses, hintsUsed int) error
	FindStale(ctx context.Context, untouchedSince time.Time) ([]*models.Game, error)
}

// gameRepo 游戏记录仓储实现
type gameRepo struct {
	*BaseRepo
	now func() time.Time
}

// NewGameRepository 创建游戏记录仓储
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepo{
		BaseRepo: NewBaseRepo(db),
		now:      time.Now,
	}
}

// Insert 创建游戏; a second live game for the same user yields ErrActiveGameExists.
func (r *gameRepo) Insert(ctx context.Context, game *models.Game) error {
	if err := game.Validate(); err != nil {
		return err
	}
	err := classify(r.conn(ctx).Create(game).Error)
	if errors.Is(err, ErrDuplicateKey) {
		return ErrActiveGameExists
	}
	return err
}

// FindByID 根据ID查找
func (r *gameRepo) FindByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := r.conn(ctx).Where("id = ?", id).First(&game).Error; err != nil {
		return nil, classify(err)
	}
	return &game, nil
}

// FindActiveByUser 查找用户进行中的游戏，没有则返回 nil, nil
func (r *gameRepo) FindActiveByUser(ctx context.Context, userID string) (*models.Game, error) {
	var game models.Game
	err := r.conn(ctx).
		Where("user_id = ? AND game_status = ?", userID, models.StatusInProgress).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// FindAllByUser returns the user's games newest first; limit <= 0 means all.
func (r *gameRepo) FindAllByUser(ctx context.Context, userID string, limit int) ([]*models.Game, error) {
	var games []*models.Game
	query := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&games).Error
	return games, err
}

// ListByUser 分页查询用户历史
func (r *gameRepo) ListByUser(ctx context.Context, userID string, p *Pagination) ([]*models.Game, error) {
	var games []*models.Game

	if err := r.conn(ctx).
		Model(&models.Game{}).
		Where("user_id = ?", userID).
		Count(&p.Total).Error; err != nil {
		return nil, err
	}

	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Scopes(Paginate(p)).
		Find(&games).Error
	return games, err
}

// FindAll returns games in the given statuses, oldest first.
func (r *gameRepo) FindAll(ctx context.Context, statuses ...models.GameStatus) ([]*models.Game, error) {
	var games []*models.Game
	query := r.conn(ctx).Order("created_at asc").Order("id asc")
	if len(statuses) > 0 {
		query = query.Where("game_status IN ?", statuses)
	}
	err := query.Find(&games).Error
	return games, err
}

// SaveProgress writes a move. The write only applies if nobody else moved
// the game since it was read at expectedVersion and it is still live.
func (r *gameRepo) SaveProgress(ctx context.Context, game *models.Game, expectedVersion int) error {
	game.SyncActiveSlot()
	now := r.now()

	var active interface{}
	if game.ActiveUserID != nil {
		active = *game.ActiveUserID
	}

	result := r.conn(ctx).
		Model(&models.Game{}).
		Where("id = ? AND version = ? AND game_status = ?", game.ID, expectedVersion, models.StatusInProgress).
		Updates(map[string]interface{}{
			"guessed_letters": game.GuessedLetters,
			"wrong_guesses":   game.WrongGuesses,
			"hints_used":      game.HintsUsed,
			"game_status":     game.GameStatus,
			"active_user_id":  active,
			"finished_at":     game.FinishedAt,
			"version":         expectedVersion + 1,
			"updated_at":      now,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleUpdate
	}

	game.Version = expectedVersion + 1
	game.UpdatedAt = now
	return nil
}

// UpdateTerminalStatus finalises a live game with the given counters. Like
// SaveProgress it only applies to the version the caller read; a move in
// between yields ErrStaleUpdate.
func (r *gameRepo) UpdateTerminalStatus(ctx context.Context, gameID string, expectedVersion int, status models.GameStatus, wrongGuesses, hintsUsed int) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	now := r.now()

	result := r.conn(ctx).
		Model(&models.Game{}).
		Where("id = ? AND version = ? AND game_status = ?", gameID, expectedVersion, models.StatusInProgress).
		Updates(map[string]interface{}{
			"game_status":    status,
			"wrong_guesses":  wrongGuesses,
			"hints_used":     hintsUsed,
			"active_user_id": nil,
			"finished_at":    now,
			"version":        expectedVersion + 1,
			"updated_at":     now,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := r.FindByID(ctx, gameID)
		if err != nil {
			return err
		}
		if current.GameStatus == models.StatusInProgress {
			return ErrStaleUpdate
		}
		return ErrGameNotInProgress
	}
	return nil
}

// FindStale lists live games with no move since untouchedSince.
func (r *gameRepo) FindStale(ctx context.Context, untouchedSince time.Time) ([]*models.Game, error) {
	var games []*models.Game
	err := r.conn(ctx).
		Where("game_status = ? AND updated_at < ?", models.StatusInProgress, untouchedSince).
		Order("updated_at asc").
		Find(&games).Error
	return games, err
}
