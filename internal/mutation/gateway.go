// Package mutation is the single entry point for every write operation. It
// checks the caller's identity and permissions, dispatches to the services,
// then fans successful results out to the event stream and the search index.
package mutation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/events"
	"github.com/Skotchmaster/sickfits/internal/models"
	"github.com/Skotchmaster/sickfits/internal/permission"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/internal/service"
	"github.com/Skotchmaster/sickfits/pkg/logging"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

var (
	deleteAnyItem     = permission.NewSet(permission.Admin, permission.ItemDelete)
	managePermissions = permission.NewSet(permission.Admin, permission.PermissionUpdate)
)

type Gateway struct {
	Auth   *service.AuthService
	Reset  *service.ResetService
	Cart   *service.CartService
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Events events.Publisher
	Index  search.Index
}

type Ack struct {
	Message string `json:"message"`
}

type ItemFields struct {
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
}

// ItemPatch holds the fields of a partial update; nil means unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
	Price       *int64
	Image       *string
	LargeImage  *string
}

func (p ItemPatch) columns() (map[string]any, error) {
	cols := map[string]any{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		cols["price"] = *p.Price
	}
	if p.Image != nil {
		cols["image"] = *p.Image
	}
	if p.LargeImage != nil {
		cols["large_image"] = *p.LargeImage
	}
	return cols, nil
}

func (g *Gateway) SignUp(ctx context.Context, email, name, password string) (*service.Session, error) {
	sess, err := g.Auth.SignUp(ctx, email, name, password)
	if err != nil {
		return nil, err
	}
	g.publish(ctx, events.TopicUsers, sess.User.ID, events.UserSignedUp, map[string]any{"email": sess.User.Email})
	return sess, nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	return g.Auth.SignIn(ctx, email, password)
}

func (g *Gateway) SignOut(ctx context.Context) Ack {
	g.Auth.SignOut(ctx)
	return Ack{Message: "Goodbye!"}
}

func (g *Gateway) RequestReset(ctx context.Context, email string) (Ack, error) {
	if err := g.Reset.RequestReset(ctx, email); err != nil {
		return Ack{}, err
	}
	return Ack{Message: "Thanks!"}, nil
}

func (g *Gateway) ResetPassword(ctx context.Context, resetToken, password, confirm string) (*service.Session, error) {
	sess, err := g.Reset.ResetPassword(ctx, resetToken, password, confirm)
	if err != nil {
		return nil, err
	}
	g.publish(ctx, events.TopicUsers, sess.User.ID, events.PasswordReset, nil)
	return sess, nil
}

func (g *Gateway) AddToCart(ctx context.Context, caller Caller, itemID uuid.UUID) (*models.CartItem, error) {
	row, err := g.Cart.AddToCart(ctx, caller.UserID, itemID)
	if err != nil {
		return nil, err
	}
	g.publish(ctx, events.TopicCart, caller.UserID, events.CartItemAdded,
		map[string]any{"itemId": itemID, "quantity": row.Quantity})
	return row, nil
}

func (g *Gateway) CreateItem(ctx context.Context, caller Caller, f ItemFields) (*models.Item, error) {
	if err := caller.requireSession(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if f.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}

	item := &models.Item{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Image:       f.Image,
		LargeImage:  f.LargeImage,
		UserID:      caller.UserID,
	}
	if err := g.Repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	g.publish(ctx, events.TopicItems, caller.UserID, events.ItemCreated, item)
	g.index(ctx, item)
	return item, nil
}

// UpdateItem applies a partial update. It deliberately checks neither session
// nor ownership, unlike DeleteItem.
func (g *Gateway) UpdateItem(ctx context.Context, caller Caller, id uuid.UUID, p ItemPatch) (*models.Item, error) {
	cols, err := p.columns()
	if err != nil {
		return nil, err
	}

	item, err := g.Repo.UpdateItem(ctx, id, cols)
	if err != nil {
		return nil, err
	}

	g.publish(ctx, events.TopicItems, caller.UserID, events.ItemUpdated, item)
	g.index(ctx, item)
	return item, nil
}

// DeleteItem succeeds for the item's owner or a caller holding ADMIN or
// ITEMDELETE, and returns the item as it was before deletion.
func (g *Gateway) DeleteItem(ctx context.Context, caller Caller, id uuid.UUID) (*models.Item, error) {
	item, err := g.Repo.ItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownsItem := caller.Authenticated() && item.UserID == caller.UserID
	if !ownsItem {
		if err := permission.Require(caller.Permissions, deleteAnyItem); err != nil {
			logging.FromContext(ctx).Warn("delete_item_forbidden", "item_id", id, "user_id", caller.UserID)
			return nil, err
		}
	}

	deleted, err := g.Repo.DeleteItem(ctx, id)
	if err != nil {
		return nil, err
	}

	g.publish(ctx, events.TopicItems, caller.UserID, events.ItemDeleted, deleted)
	if err := g.Index.Remove(ctx, id.String()); err != nil {
		logging.FromContext(ctx).Warn("search_remove_failed", "item_id", id, "error", err)
	}
	return deleted, nil
}

// UpdatePermissions replaces the target's permission set wholesale.
func (g *Gateway) UpdatePermissions(ctx context.Context, caller Caller, target uuid.UUID, perms permission.Set) (*models.User, error) {
	if err := g.authorizePermissionUpdate(ctx, caller); err != nil {
		return nil, err
	}
	return g.replacePermissions(ctx, caller, target, perms)
}

// UpdatePermissionLabels is UpdatePermissions for wire labels. Labels are
// parsed only once the caller is known to hold the right to change them.
func (g *Gateway) UpdatePermissionLabels(ctx context.Context, caller Caller, target uuid.UUID, labels []string) (*models.User, error) {
	if err := g.authorizePermissionUpdate(ctx, caller); err != nil {
		return nil, err
	}
	perms, err := permission.ParseSet(labels)
	if err != nil {
		return nil, err
	}
	return g.replacePermissions(ctx, caller, target, perms)
}

func (g *Gateway) authorizePermissionUpdate(ctx context.Context, caller Caller) error {
	if err := caller.requireSession(); err != nil {
		return err
	}
	if err := permission.Require(caller.Permissions, managePermissions); err != nil {
		logging.FromContext(ctx).Warn("update_permissions_forbidden", "user_id", caller.UserID)
		return err
	}
	return nil
}

func (g *Gateway) replacePermissions(ctx context.Context, caller Caller, target uuid.UUID, perms permission.Set) (*models.User, error) {
	user, err := g.Repo.ReplacePermissions(ctx, target, perms)
	if err != nil {
		return nil, err
	}

	g.publish(ctx, events.TopicUsers, caller.UserID, events.PermissionsUpdated,
		map[string]any{"userId": target, "permissions": perms})
	return user, nil
}

func (g *Gateway) publish(ctx context.Context, topic string, actor uuid.UUID, eventType string, data any) {
	key := actor.String()
	if err := g.Events.Publish(ctx, topic, key, events.New(eventType, key, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "event", eventType, "error", err)
	}
}

func (g *Gateway) index(ctx context.Context, item *models.Item) {
	if err := g.Index.Put(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "item_id", item.ID, "error", err)
	}
}
