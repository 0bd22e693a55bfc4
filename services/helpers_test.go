package services

import (
	"fmt"
	"gin-itemtracker/infra"
	"gin-itemtracker/models"
	"gin-itemtracker/repositories"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// newTestDB はテストごとに独立したインメモリSQLiteを用意する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &infra.Config{
		SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}
	db, err := infra.SetupDB(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestAuthService(t *testing.T, db *gorm.DB) (IAuthService, *TokenService) {
	t.Helper()
	tokens := NewTokenService(testSecret, 30*time.Minute)
	svc := NewAuthService(
		repositories.NewAuthRepository(db),
		NewBcryptHasher(bcrypt.MinCost),
		tokens,
		zap.NewNop().Sugar(),
	)
	return svc, tokens
}

func createTestUser(t *testing.T, db *gorm.DB, username string, superuser bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsSuperuser:    superuser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
