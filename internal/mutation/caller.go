package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/permission"
)

// Caller is the identity resolved once per request. The zero value is an
// anonymous caller.
type Caller struct {
	UserID      uuid.UUID
	Permissions permission.Set
}

func (c Caller) Authenticated() bool { return c.UserID != uuid.Nil }

func (c Caller) requireSession() error {
	if !c.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// ResolveCaller turns a session token into a Caller with one store read.
// A missing or invalid token, or a user that no longer exists, yields an
// anonymous caller. Only infrastructure failures are returned.
func (g *Gateway) ResolveCaller(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Caller{}, nil
	}
	userID, err := g.Tokens.Verify(token)
	if err != nil {
		return Caller{}, nil
	}

	perms, err := g.Repo.UserPermissions(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return Caller{}, nil
	}
	if err != nil {
		return Caller{}, err
	}
	return Caller{UserID: userID, Permissions: perms}, nil
}
