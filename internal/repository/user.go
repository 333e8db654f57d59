package repository

import (
	"context"
	"strings"
	"time"

	"github.com/wfunc/hangman-game/internal/models"
	"gorm.io/gorm"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	BaseRepository
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// userRepo 用户仓储实现
type userRepo struct {
	*BaseRepo
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// Create 创建用户; duplicate name or email yields ErrDuplicateKey.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return classify(r.conn(ctx).Create(user).Error)
}

// FindByID 根据ID查找
func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找（不区分大小写）
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.conn(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// FindByName 根据显示名查找
func (r *userRepo) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// FindNamesByIDs 批量查询显示名
func (r *userRepo) FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   string
		Name string
	}
	err := r.conn(ctx).
		Model(&models.User{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// UpdateRefreshToken stores or clears (nil) the user's refresh token.
func (r *userRepo) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	var value interface{}
	if token != nil {
		value = *token
	}
	result := r.conn(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin 更新最后登录时间
func (r *userRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.conn(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
