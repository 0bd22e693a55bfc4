package services

import (
	"context"
	"errors"
	"fmt"
	"gin-itemtracker/dto"
	"gin-itemtracker/models"
	"gin-itemtracker/repositories"
)

type IItemService interface {
	FindMine(ctx context.Context, caller *models.User) ([]models.Item, error)
	FindAll(ctx context.Context, caller *models.User) ([]models.Item, error)
	FindById(ctx context.Context, caller *models.User, itemID uint) (*models.Item, error)
	Create(ctx context.Context, caller *models.User, createItemInput dto.CreateItemInput) (*models.Item, error)
	Update(ctx context.Context, caller *models.User, itemID uint, updateItemInput dto.UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, caller *models.User, itemID uint) error
}

type ItemService struct {
	repository repositories.IItemRepository
}

func NewItemService(repository repositories.IItemRepository) IItemService {
	return &ItemService{repository: repository}
}

func (s *ItemService) FindMine(ctx context.Context, caller *models.User) ([]models.Item, error) {
	if err := AuthorizeItem(caller, nil, OpListOwn); err != nil {
		return nil, err
	}
	return s.repository.FindByOwner(ctx, caller.ID)
}

func (s *ItemService) FindAll(ctx context.Context, caller *models.User) ([]models.Item, error) {
	if err := AuthorizeItem(caller, nil, OpListAll); err != nil {
		return nil, err
	}
	return s.repository.FindAll(ctx)
}

func (s *ItemService) FindById(ctx context.Context, caller *models.User, itemID uint) (*models.Item, error) {
	return s.authorized(ctx, caller, itemID, OpRead)
}

// Create は入力に関係なく所有者を呼び出し元に固定する
func (s *ItemService) Create(ctx context.Context, caller *models.User, createItemInput dto.CreateItemInput) (*models.Item, error) {
	if err := AuthorizeItem(caller, nil, OpCreate); err != nil {
		return nil, err
	}
	newItem := models.Item{
		Name:        createItemInput.Name,
		Description: createItemInput.Description,
		OwnerID:     caller.ID,
	}
	return s.repository.Create(ctx, newItem)
}

func (s *ItemService) Update(ctx context.Context, caller *models.User, itemID uint, updateItemInput dto.UpdateItemInput) (*models.Item, error) {
	targetItem, err := s.authorized(ctx, caller, itemID, OpUpdate)
	if err != nil {
		return nil, err
	}

	targetItem.Name = updateItemInput.Name
	targetItem.Description = updateItemInput.Description

	updated, err := s.repository.Update(ctx, *targetItem)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return updated, nil
}

func (s *ItemService) Delete(ctx context.Context, caller *models.User, itemID uint) error {
	if _, err := s.authorized(ctx, caller, itemID, OpDelete); err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ItemService) authorized(ctx context.Context, caller *models.User, itemID uint, op ItemOperation) (*models.Item, error) {
	item, err := s.repository.FindById(ctx, itemID)
	if err != nil && !errors.Is(err, repositories.ErrItemNotFound) {
		return nil, fmt.Errorf("find item: %w", err)
	}
	if err := AuthorizeItem(caller, item, op); err != nil {
		return nil, err
	}
	return item, nil
}
