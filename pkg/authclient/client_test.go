package authclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/sickfits/internal/events"
	"github.com/Skotchmaster/sickfits/internal/httpserver"
	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/notify"
	"github.com/Skotchmaster/sickfits/internal/repo/repotest"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/internal/service"
	"github.com/Skotchmaster/sickfits/pkg/authclient"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := repotest.Open(t)
	h := hash.New(bcrypt.MinCost)
	iss := tokens.NewIssuer([]byte("test-app-secret"))
	gw := &mutation.Gateway{
		Auth:   &service.AuthService{Repo: r, Hasher: h, Tokens: iss},
		Reset:  &service.ResetService{Repo: r, Hasher: h, Tokens: iss, Notifier: notify.Log{}},
		Cart:   &service.CartService{Repo: r},
		Repo:   r,
		Tokens: iss,
		Events: events.Nop{},
		Index:  search.Nop{},
	}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		DB:      r.DB,
		Gateway: gw,
		Repo:    r,
		Index:   gw.Index,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SessionLifecycle(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	ctx := context.Background()

	c, err := authclient.NewClient(srv.URL)
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Nil(t, me)

	up, err := c.SignUp(ctx, "a@x.com", "Wes", "pw")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, up.Permissions)

	me, err = c.Me(ctx)
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, up.ID, me.ID)

	require.NoError(t, c.SignOut(ctx))
	me, err = c.Me(ctx)
	require.NoError(t, err)
	assert.Nil(t, me)

	_, err = c.SignIn(ctx, "a@x.com", "wrong")
	var apiErr *authclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	in, err := c.SignIn(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, up.ID, in.ID)
}
