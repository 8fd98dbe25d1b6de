package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/models"
	"github.com/Skotchmaster/sickfits/internal/permission"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/logging"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

// DefaultPermissions is assigned to every new account.
var DefaultPermissions = permission.NewSet(permission.User)

// Session is the result of every credential-issuing operation. Token is meant
// for the session cookie only.
type Session struct {
	User  *models.User
	Token string
}

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher *hash.Hasher
	Tokens *tokens.Issuer
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, email, name, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_up")

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	digest, err := hashPassword(s.Hasher, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: digest,
		Permissions:  DefaultPermissions,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		l.Warn("sign_up_failed", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session: %v", domain.ErrInfrastructure, err)
	}

	l.Info("signed_up", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in")

	user, err := s.Repo.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		l.Warn("sign_in_failed", "error", err)
		return nil, err
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Warn("sign_in_failed", "user_id", user.ID, "error", domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session: %v", domain.ErrInfrastructure, err)
	}

	l.Info("signed_in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// SignOut has no server-side state to clear; the transport drops the cookie.
func (s *AuthService) SignOut(ctx context.Context) {
	logging.FromContext(ctx).Info("signed_out")
}

func hashPassword(h *hash.Hasher, password string) (string, error) {
	digest, err := h.Hash(password)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", fmt.Errorf("%w: password is too long", domain.ErrValidation)
	case err != nil:
		return "", fmt.Errorf("%w: hash password: %v", domain.ErrInfrastructure, err)
	}
	return digest, nil
}
