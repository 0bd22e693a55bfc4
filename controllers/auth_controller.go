package controllers

import (
	"gin-itemtracker/constants"
	"gin-itemtracker/dto"
	"gin-itemtracker/middlewares"
	"gin-itemtracker/models"
	"gin-itemtracker/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IAuthController interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	Me(ctx *gin.Context)
}

type AuthController struct {
	service services.IAuthService
	logs    *zap.SugaredLogger
}

func NewAuthController(service services.IAuthService, logger *zap.SugaredLogger) IAuthController {
	return &AuthController{service: service, logs: logger}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var input dto.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	user, err := c.service.Register(ctx.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}
	c.logs.Infow("user registered", "user_id", user.ID, "username", user.Username)
	ctx.JSON(http.StatusCreated, toUserResponse(user))
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	// Content-Typeに応じてJSONまたはフォームとして読む
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	token, user, err := c.service.Login(ctx.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		Role:        user.Role(),
	})
}

func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}
	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	}
}
