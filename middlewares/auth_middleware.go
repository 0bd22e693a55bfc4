package middlewares

import (
	"gin-itemtracker/constants"
	"gin-itemtracker/models"
	"gin-itemtracker/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

// AuthMiddleware はBearerトークンから呼び出し元のユーザーを解決しctxに設定する。
// 失敗理由に関わらずレスポンスは同じ401
func AuthMiddleware(authService services.IAuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(ctx)
			return
		}

		user, err := authService.GetUserFromToken(ctx.Request.Context(), tokenString)
		if err != nil {
			abortUnauthenticated(ctx)
			return
		}

		ctx.Set(userContextKey, user)

		ctx.Next()
	}
}

// CurrentUser はAuthMiddlewareが設定したユーザーを返す
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	user, exists := ctx.Get(userContextKey)
	if !exists {
		return nil, false
	}
	userModel, ok := user.(*models.User)
	return userModel, ok && userModel != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthenticated(ctx *gin.Context) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.ErrUnauthenticated})
}
