package repositories

import (
	"fmt"
	"gin-itemtracker/infra"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB はテストごとに独立したインメモリSQLiteを用意する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &infra.Config{
		SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}
	db, err := infra.SetupDB(cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := infra.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
