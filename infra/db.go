package infra

import (
	"fmt"
	"gin-itemtracker/models"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB(cfg *Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	}

	if cfg.DBName != "" {
		// 本番環境ではsslmode=require、それ以外はsslmode=disable
		sslmode := "disable"
		if cfg.IsProd() {
			sslmode = "require"
		}

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=10",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			sslmode,
		)

		db, err := gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Infow("Setup postgres database", "host", cfg.DBHost, "dbname", cfg.DBName, "port", cfg.DBPort)
		return db, nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	log.Infow("Setup sqlite database", "dsn", cfg.SQLiteDSN)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Item{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// newGormLogger はgormのログをzapへ流す。存在しないレコードの検索は正常系なので出さない
func newGormLogger(log *zap.SugaredLogger) logger.Interface {
	return logger.New(
		zap.NewStdLog(log.Desugar().With(zap.String("component", "gorm"))),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
