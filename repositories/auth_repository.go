package repositories

import (
	"context"
	"errors"
	"gin-itemtracker/models"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("User not found")
	ErrDuplicateUser = errors.New("duplicate username or email")
)

type IAuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, username string) (*models.User, error)
	ExistsUser(ctx context.Context, username string, email string) (bool, error)
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) IAuthRepository {
	return &AuthRepository{db: db}
}

// CreateUser はユニーク制約違反をErrDuplicateUserとして返す。
// 同時登録の競合はDB側の制約でのみ検出する
func (r *AuthRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateUser
		}
		return result.Error
	}
	return nil
}

func (r *AuthRepository) FindUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *AuthRepository) ExistsUser(ctx context.Context, username string, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// TranslateErrorが効かないドライバ向け
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
