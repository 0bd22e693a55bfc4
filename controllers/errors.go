package controllers

import (
	"errors"
	"gin-itemtracker/constants"
	"gin-itemtracker/middlewares"
	"gin-itemtracker/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError はサービス層のエラーをステータスコードと固定メッセージに変換する
func respondError(ctx *gin.Context, logger *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, services.ErrConflict):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrUserExists})
	case errors.Is(err, services.ErrPasswordTooLong):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.Header("WWW-Authenticate", "Bearer")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": constants.ErrInvalidCredentials})
	case errors.Is(err, services.ErrUnauthenticated):
		ctx.Header("WWW-Authenticate", "Bearer")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": constants.ErrUnauthenticated})
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": constants.ErrForbidden})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrItemNotFound})
	default:
		logger.Errorw("unexpected error",
			"error", err,
			"path", ctx.FullPath(),
			"request_id", middlewares.GetRequestID(ctx))
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
	}
}
