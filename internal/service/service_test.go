package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/sickfits/internal/notify"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/repo/repotest"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendReset(ctx context.Context, msg notify.Reset) error {
	return m.Called(ctx, msg).Error(0)
}

type testEnv struct {
	repo   *repo.GormRepo
	tokens *tokens.Issuer
	auth   *AuthService
	reset  *ResetService
	cart   *CartService
	mailer *mockNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repotest.Open(t)
	h := hash.New(bcrypt.MinCost)
	iss := tokens.NewIssuer([]byte("test-app-secret"))
	mailer := &mockNotifier{}

	return &testEnv{
		repo:   r,
		tokens: iss,
		auth:   &AuthService{Repo: r, Hasher: h, Tokens: iss},
		reset: &ResetService{
			Repo:     r,
			Hasher:   h,
			Tokens:   iss,
			Notifier: mailer,
			Template: notify.Template{FrontendURL: "http://localhost:7777"},
		},
		cart:   &CartService{Repo: r},
		mailer: mailer,
	}
}
