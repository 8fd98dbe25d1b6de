package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/models"
	"github.com/Skotchmaster/sickfits/internal/permission"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return storeErr(err, "user with email "+u.Email)
	}
	return nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, storeErr(err, "no such user found for email "+email)
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr(err, "user "+id.String())
	}
	return &user, nil
}

// UserPermissions loads only the permission column of one user.
func (r *GormRepo) UserPermissions(ctx context.Context, id uuid.UUID) (permission.Set, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "permissions").Where("id = ?", id).First(&user).Error
	if err != nil {
		return 0, storeErr(err, "user "+id.String())
	}
	return user.Permissions, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, storeErr(err, "list users")
	}
	return users, nil
}

// ReplacePermissions overwrites the whole permission set of a user.
func (r *GormRepo) ReplacePermissions(ctx context.Context, id uuid.UUID, perms permission.Set) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Update("permissions", perms)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, storeErr(err, "user "+id.String())
	}
	return &user, nil
}

// SetResetToken stores a pending reset for the user, replacing any earlier one.
// A token already held by another user fails with domain.ErrDuplicate.
func (r *GormRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	})
	if res.Error != nil {
		return storeErr(res.Error, "reset token")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}

// ConsumeResetToken swaps in newHash and clears the reset fields in one
// transaction. Only a token whose expiry is at or after notBefore matches;
// the update is conditional on the token still being the stored one, so a
// token replaced by a later reset request can never be consumed.
func (r *GormRepo) ConsumeResetToken(ctx context.Context, token string, notBefore time.Time, newHash string) (*models.User, error) {
	var user, updated models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("reset_token = ? AND reset_token_expiry >= ?", token, notBefore).
			Order("created_at ASC").
			First(&user).Error
		if err != nil {
			if isNotFound(err) {
				return domain.ErrInvalidOrExpiredToken
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND reset_token = ?", user.ID, token).
			Updates(map[string]any{
				"password_hash":      newHash,
				"reset_token":        nil,
				"reset_token_expiry": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidOrExpiredToken
		}
		return tx.Where("id = ?", user.ID).Take(&updated).Error
	})
	if err != nil {
		return nil, storeErr(err, "reset token")
	}
	return &updated, nil
}
