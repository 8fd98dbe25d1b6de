package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sickfits/internal/permission"
)

type User struct {
	ID               uuid.UUID      `gorm:"primaryKey"            json:"id"`
	Email            string         `gorm:"uniqueIndex;not null"  json:"email"`
	Name             string         `gorm:"not null"              json:"name"`
	PasswordHash     string         `gorm:"not null"              json:"-"`
	Permissions      permission.Set `gorm:"type:text;not null"    json:"permissions"`
	ResetToken       *string        `gorm:"uniqueIndex"           json:"-"`
	ResetTokenExpiry *time.Time     `                             json:"-"`
	CreatedAt        time.Time      `                             json:"createdAt"`
	UpdatedAt        time.Time      `                             json:"updatedAt"`
}

type Item struct {
	ID          uuid.UUID `gorm:"primaryKey"                 json:"id"`
	Title       string    `gorm:"not null"                   json:"title"`
	Description string    `gorm:"not null"                   json:"description"`
	Price       int64     `gorm:"not null;check:price >= 0"  json:"price"`
	Image       string    `                                  json:"image,omitempty"`
	LargeImage  string    `                                  json:"largeImage,omitempty"`
	UserID      uuid.UUID `gorm:"index;not null"             json:"userId"`
	CreatedAt   time.Time `                                  json:"createdAt"`
	UpdatedAt   time.Time `                                  json:"updatedAt"`
}

// CartItem is unique per (user, item); repeated adds raise Quantity.
type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_cart_user_item;not null"   json:"userId"`
	ItemID    uuid.UUID `gorm:"uniqueIndex:idx_cart_user_item;not null"   json:"itemId"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity > 0"     json:"quantity"`
	Item      *Item     `gorm:"constraint:OnDelete:CASCADE"               json:"item,omitempty"`
	CreatedAt time.Time `                                                 json:"createdAt"`
	UpdatedAt time.Time `                                                 json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Item{}, &CartItem{}}
}
