package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sickfits/internal/models"
)

func (r *GormRepo) Cart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, storeErr(err, "cart")
	}
	return items, nil
}

// AddToCart inserts a (user, item) row with quantity 1 or, when the row
// already exists, increments its quantity by one. The insert-or-increment is a
// single upsert against the unique (user_id, item_id) index, so concurrent
// callers can neither create a second row nor lose an increment.
func (r *GormRepo) AddToCart(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	var out models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Item{}).Where("id = ?", itemID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}

		row := models.CartItem{UserID: userID, ItemID: itemID, Quantity: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", 1),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		// row keeps the ID minted for the insert even when the conflict
		// branch ran, so the stored row is read back by its natural key.
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).Take(&out).Error
	})
	if err != nil {
		return nil, storeErr(err, "item "+itemID.String())
	}
	return &out, nil
}
