package middlewares

import (
	"gin-itemtracker/constants"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleBasedAccessControl 指定されたロールのみアクセスを許可するミドルウェア
// AuthMiddlewareの後に使用することを想定（ctxに"user"が設定されている必要がある）
func RoleBasedAccessControl(logger *zap.SugaredLogger, allowedRoles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userModel, ok := CurrentUser(ctx)
		if !ok {
			abortUnauthenticated(ctx)
			return
		}

		// 重要: トークンのroleクレームではなく、DBから取得したis_superuserを使用する
		hasAccess := false
		userRole := userModel.Role()
		for _, allowedRole := range allowedRoles {
			if userRole == strings.TrimSpace(strings.ToLower(allowedRole)) {
				hasAccess = true
				break
			}
		}

		if !hasAccess {
			logger.Infow("access denied",
				"user_id", userModel.ID,
				"role", userRole,
				"required_roles", allowedRoles,
				"path", ctx.FullPath())
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": constants.ErrForbidden})
			return
		}

		ctx.Next()
	}
}

func RequireAdmin(logger *zap.SugaredLogger) gin.HandlerFunc {
	return RoleBasedAccessControl(logger, constants.RoleAdmin)
}
