package models

import (
	"time"
)

// User 用户表
type User struct {
	BaseModel
	Name         string     `gorm:"uniqueIndex;size:20;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	RefreshToken *string    `gorm:"size:1024" json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}
