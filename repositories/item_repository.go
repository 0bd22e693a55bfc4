package repositories

import (
	"context"
	"errors"
	"gin-itemtracker/models"

	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("item not found")

type IItemRepository interface {
	FindAll(ctx context.Context) ([]models.Item, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]models.Item, error)
	FindById(ctx context.Context, itemID uint) (*models.Item, error)
	Create(ctx context.Context, newItem models.Item) (*models.Item, error)
	Update(ctx context.Context, item models.Item) (*models.Item, error)
	Delete(ctx context.Context, itemID uint) error
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) IItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, newItem models.Item) (*models.Item, error) {
	result := r.db.WithContext(ctx).Create(&newItem)
	if result.Error != nil {
		return nil, result.Error
	}
	return &newItem, nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	result := r.db.WithContext(ctx).Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *ItemRepository) FindByOwner(ctx context.Context, ownerID uint) ([]models.Item, error) {
	items := []models.Item{}
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// FindById は所有者で絞り込まない。所有権の判定はサービス層で行う
func (r *ItemRepository) FindById(ctx context.Context, itemID uint) (*models.Item, error) {
	var item models.Item
	result := r.db.WithContext(ctx).First(&item, "id = ?", itemID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item models.Item) (*models.Item, error) {
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"description": item.Description,
		})

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	var updatedItem models.Item
	if err := r.db.WithContext(ctx).First(&updatedItem, "id = ?", item.ID).Error; err != nil {
		return nil, err
	}

	return &updatedItem, nil
}
