package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sickfits/internal/models"
)

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return storeErr(err, "item")
	}
	return nil
}

func (r *GormRepo) ItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, storeErr(err, "item "+id.String())
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context, offset, limit int) (int64, []models.Item, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return 0, nil, storeErr(err, "count items")
	}

	items := make([]models.Item, 0, limit)
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Order("created_at DESC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, storeErr(err, "list items")
	}
	return total, items, nil
}

// UpdateItem applies a partial update keyed by column name. An empty update
// only reads the item back.
func (r *GormRepo) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Item, error) {
	var item, updated models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			updated = item
			return nil
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&updated).Error
	})
	if err != nil {
		return nil, storeErr(err, "item "+id.String())
	}
	return &updated, nil
}

// DeleteItem removes the item together with any cart rows that hold it and
// returns the item as it was before deletion.
func (r *GormRepo) DeleteItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "item "+id.String())
	}
	return &item, nil
}
