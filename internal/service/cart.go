package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/models"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/pkg/logging"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddToCart merges repeated adds of the same item into one row.
func (s *CartService) AddToCart(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	row, err := s.Repo.AddToCart(ctx, userID, itemID)
	if err != nil {
		logging.FromContext(ctx).Warn("add_to_cart_failed", "user_id", userID, "item_id", itemID, "error", err)
		return nil, err
	}
	return row, nil
}

func (s *CartService) Cart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.Repo.Cart(ctx, userID)
}
