package controllers

import (
	"gin-itemtracker/constants"
	"gin-itemtracker/dto"
	"gin-itemtracker/middlewares"
	"gin-itemtracker/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IItemController interface {
	FindMine(ctx *gin.Context)
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type ItemController struct {
	service services.IItemService
	logs    *zap.SugaredLogger
}

func NewItemController(service services.IItemService, logger *zap.SugaredLogger) IItemController {
	return &ItemController{service: service, logs: logger}
}

func (c *ItemController) FindMine(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	items, err := c.service.FindMine(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (c *ItemController) FindAll(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	items, err := c.service.FindAll(ctx.Request.Context(), user)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (c *ItemController) FindById(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	itemID, ok := parseItemID(ctx)
	if !ok {
		return
	}

	item, err := c.service.FindById(ctx.Request.Context(), user, itemID)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (c *ItemController) Create(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	var input dto.CreateItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	newItem, err := c.service.Create(ctx.Request.Context(), user, input)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.JSON(http.StatusCreated, newItem)
}

func (c *ItemController) Update(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	itemID, ok := parseItemID(ctx)
	if !ok {
		return
	}
	var input dto.UpdateItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidInput})
		return
	}

	updatedItem, err := c.service.Update(ctx.Request.Context(), user, itemID, input)
	if err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.JSON(http.StatusOK, updatedItem)
}

func (c *ItemController) Delete(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		respondError(ctx, c.logs, services.ErrUnauthenticated)
		return
	}

	itemID, ok := parseItemID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), user, itemID); err != nil {
		respondError(ctx, c.logs, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseItemID(ctx *gin.Context) (uint, bool) {
	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidID})
		return 0, false
	}
	return uint(itemID), true
}
