package mutation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/events"
	"github.com/Skotchmaster/sickfits/internal/notify"
	"github.com/Skotchmaster/sickfits/internal/permission"
	"github.com/Skotchmaster/sickfits/internal/repo/repotest"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/internal/service"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

func newTestGateway(t *testing.T) (*Gateway, *events.Recorder) {
	t.Helper()

	r := repotest.Open(t)
	h := hash.New(bcrypt.MinCost)
	iss := tokens.NewIssuer([]byte("test-app-secret"))
	rec := &events.Recorder{}

	return &Gateway{
		Auth: &service.AuthService{Repo: r, Hasher: h, Tokens: iss},
		Reset: &service.ResetService{
			Repo: r, Hasher: h, Tokens: iss,
			Notifier: notify.Outbox{Pub: rec},
			Template: notify.Template{FrontendURL: "http://localhost:7777"},
		},
		Cart:   &service.CartService{Repo: r},
		Repo:   r,
		Tokens: iss,
		Events: rec,
		Index:  search.Nop{},
	}, rec
}

func signUp(t *testing.T, g *Gateway, email string) Caller {
	t.Helper()
	ctx := context.Background()
	sess, err := g.SignUp(ctx, email, "Someone", "pw")
	require.NoError(t, err)
	caller, err := g.ResolveCaller(ctx, sess.Token)
	require.NoError(t, err)
	return caller
}

func grant(t *testing.T, g *Gateway, c Caller, perms ...permission.Permission) Caller {
	t.Helper()
	set := permission.NewSet(perms...)
	_, err := g.Repo.ReplacePermissions(context.Background(), c.UserID, set)
	require.NoError(t, err)
	c.Permissions = set
	return c
}

func lastResetToken(t *testing.T, rec *events.Recorder) string {
	t.Helper()
	var token string
	for _, m := range rec.Messages() {
		if m.Topic == events.TopicMail {
			token = m.Payload.(notify.Reset).Token
		}
	}
	require.NotEmpty(t, token)
	return token
}

func TestGateway_EndToEnd(t *testing.T) {
	t.Parallel()
	g, rec := newTestGateway(t)
	ctx := context.Background()

	owner := signUp(t, g, "a@x.com")

	in, err := g.SignIn(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, in.Token)

	item, err := g.CreateItem(ctx, owner, ItemFields{Title: "itemA", Description: "d", Price: 100})
	require.NoError(t, err)

	_, err = g.AddToCart(ctx, owner, item.ID)
	require.NoError(t, err)
	row, err := g.AddToCart(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, row.Quantity)

	ack, err := g.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", ack.Message)

	_, err = g.ResetPassword(ctx, lastResetToken(t, rec), "pw2", "pw2")
	require.NoError(t, err)

	_, err = g.SignIn(ctx, "a@x.com", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = g.SignIn(ctx, "a@x.com", "pw2")
	assert.NoError(t, err)

	assert.Equal(t, "Goodbye!", g.SignOut(ctx).Message)

	assert.Equal(t, []string{events.UserSignedUp, events.PasswordReset}, rec.Types(events.TopicUsers))
	assert.Equal(t, []string{events.ItemCreated}, rec.Types(events.TopicItems))
	assert.Equal(t, []string{events.CartItemAdded, events.CartItemAdded}, rec.Types(events.TopicCart))
}

func TestGateway_DeleteItem_Authorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  func(t *testing.T, g *Gateway, owner Caller) Caller
		wantErr error
	}{
		{
			name:   "owner",
			caller: func(_ *testing.T, _ *Gateway, owner Caller) Caller { return owner },
		},
		{
			name:    "non-owner without permission",
			caller:  func(t *testing.T, g *Gateway, _ Caller) Caller { return signUp(t, g, "b@x.com") },
			wantErr: domain.ErrForbidden,
		},
		{
			name: "non-owner with ITEMDELETE",
			caller: func(t *testing.T, g *Gateway, _ Caller) Caller {
				return grant(t, g, signUp(t, g, "b@x.com"), permission.ItemDelete)
			},
		},
		{
			name: "non-owner with ADMIN",
			caller: func(t *testing.T, g *Gateway, _ Caller) Caller {
				return grant(t, g, signUp(t, g, "b@x.com"), permission.Admin)
			},
		},
		{
			name:    "anonymous",
			caller:  func(*testing.T, *Gateway, Caller) Caller { return Caller{} },
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, _ := newTestGateway(t)
			owner := signUp(t, g, "a@x.com")
			item, err := g.CreateItem(ctx, owner, ItemFields{Title: "Hat", Price: 10})
			require.NoError(t, err)

			deleted, err := g.DeleteItem(ctx, tt.caller(t, g, owner), item.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err = g.Repo.ItemByID(ctx, item.ID)
				assert.NoError(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, item.ID, deleted.ID)
			_, err = g.Repo.ItemByID(ctx, item.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestGateway_UpdatePermissions(t *testing.T) {
	t.Parallel()
	g, rec := newTestGateway(t)
	ctx := context.Background()

	target := signUp(t, g, "a@x.com")
	plain := signUp(t, g, "b@x.com")
	manager := grant(t, g, signUp(t, g, "c@x.com"), permission.PermissionUpdate)

	_, err := g.UpdatePermissions(ctx, Caller{}, target.UserID, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = g.UpdatePermissions(ctx, plain, target.UserID, permission.NewSet(permission.Admin))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	perms, err := g.Repo.UserPermissions(ctx, target.UserID)
	require.NoError(t, err)
	assert.Equal(t, permission.NewSet(permission.User), perms)

	user, err := g.UpdatePermissions(ctx, manager, target.UserID, permission.NewSet(permission.ItemCreate))
	require.NoError(t, err)
	assert.Equal(t, permission.NewSet(permission.ItemCreate), user.Permissions)

	user, err = g.UpdatePermissions(ctx, manager, target.UserID, permission.NewSet())
	require.NoError(t, err)
	assert.True(t, user.Permissions.IsEmpty())

	_, err = g.UpdatePermissions(ctx, manager, uuid.New(), permission.NewSet())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Contains(t, rec.Types(events.TopicUsers), events.PermissionsUpdated)
}

func TestGateway_UpdatePermissionLabels_GuardsBeforeParsing(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t)
	ctx := context.Background()

	target := signUp(t, g, "a@x.com")
	plain := signUp(t, g, "b@x.com")
	manager := grant(t, g, signUp(t, g, "c@x.com"), permission.PermissionUpdate)

	_, err := g.UpdatePermissionLabels(ctx, Caller{}, target.UserID, []string{"ROOT"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = g.UpdatePermissionLabels(ctx, plain, target.UserID, []string{"ROOT"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = g.UpdatePermissionLabels(ctx, manager, target.UserID, []string{"ROOT"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	user, err := g.UpdatePermissionLabels(ctx, manager, target.UserID, []string{"ITEMCREATE", "USER"})
	require.NoError(t, err)
	assert.Equal(t, permission.NewSet(permission.ItemCreate, permission.User), user.Permissions)
}

func TestGateway_Items(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t)
	ctx := context.Background()
	owner := signUp(t, g, "a@x.com")

	_, err := g.CreateItem(ctx, Caller{}, ItemFields{Title: "Hat"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = g.CreateItem(ctx, owner, ItemFields{Title: "Hat", Price: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = g.CreateItem(ctx, owner, ItemFields{Title: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, err := g.CreateItem(ctx, owner, ItemFields{Title: "Hat", Description: "Warm", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, item.UserID)

	title := "Cap"
	updated, err := g.UpdateItem(ctx, Caller{}, item.ID, ItemPatch{Title: &title})
	require.NoError(t, err, "update carries no ownership check")
	assert.Equal(t, "Cap", updated.Title)
	assert.Equal(t, "Warm", updated.Description)
	assert.Equal(t, owner.UserID, updated.UserID)

	negative := int64(-5)
	_, err = g.UpdateItem(ctx, owner, item.ID, ItemPatch{Price: &negative})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = g.UpdateItem(ctx, owner, uuid.New(), ItemPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGateway_ResolveCaller(t *testing.T) {
	t.Parallel()
	g, _ := newTestGateway(t)
	ctx := context.Background()

	caller := signUp(t, g, "a@x.com")
	assert.True(t, caller.Authenticated())
	assert.Equal(t, permission.NewSet(permission.User), caller.Permissions)

	for _, token := range []string{"", "garbage"} {
		anon, err := g.ResolveCaller(ctx, token)
		require.NoError(t, err)
		assert.False(t, anon.Authenticated())
	}

	ghost, err := g.Tokens.Issue(uuid.New())
	require.NoError(t, err)
	anon, err := g.ResolveCaller(ctx, ghost)
	require.NoError(t, err)
	assert.False(t, anon.Authenticated())
}

func TestGateway_AddToCartRequiresSession(t *testing.T) {
	t.Parallel()
	g, rec := newTestGateway(t)

	_, err := g.AddToCart(context.Background(), Caller{}, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, rec.Types(events.TopicCart))
}
