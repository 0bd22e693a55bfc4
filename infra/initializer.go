package infra

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func Initialize(logger *zap.SugaredLogger) {
	if err := godotenv.Load(); err != nil {
		logger.Infow("No .env file found; using environment variables")
	}
}
