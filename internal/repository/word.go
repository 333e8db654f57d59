package repository

import (
	"context"
	"strings"

	"github.com/wfunc/hangman-game/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WordRepository 词库仓储接口
type WordRepository interface {
	BaseRepository
	Create(ctx context.Context, word *models.Word) error
	Upsert(ctx context.Context, words []*models.Word) (int64, error)
	FindRandom(ctx context.Context) (*models.Word, error)
	Count(ctx context.Context) (int64, error)
}

// wordRepo 词库仓储实现
type wordRepo struct {
	*BaseRepo
}

// NewWordRepository 创建词库仓储
func NewWordRepository(db *gorm.DB) WordRepository {
	return &wordRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 添加单词，单词统一大写
func (r *wordRepo) Create(ctx context.Context, word *models.Word) error {
	word.Word = strings.ToUpper(strings.TrimSpace(word.Word))
	return classify(r.conn(ctx).Create(word).Error)
}

// Upsert inserts words that are not present yet and returns how many were added.
func (r *wordRepo) Upsert(ctx context.Context, words []*models.Word) (int64, error) {
	if len(words) == 0 {
		return 0, nil
	}
	for _, w := range words {
		w.Word = strings.ToUpper(strings.TrimSpace(w.Word))
	}
	result := r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "word"}}, DoNothing: true}).
		Create(&words)
	return result.RowsAffected, result.Error
}

// FindRandom picks one word uniformly at random.
func (r *wordRepo) FindRandom(ctx context.Context) (*models.Word, error) {
	order := "RANDOM()"
	if r.db.Dialector.Name() == "mysql" {
		order = "RAND()"
	}

	var word models.Word
	if err := r.conn(ctx).Order(order).Take(&word).Error; err != nil {
		return nil, classify(err)
	}
	return &word, nil
}

// Count 词库总数
func (r *wordRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.Word{}).Count(&n).Error
	return n, err
}
