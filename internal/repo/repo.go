package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/models"
)

// GormRepo is the data store collaborator. Every method is safe for
// concurrent use; multi-column updates run inside single transactions.
type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation    = "23505"
	sqliteConstraintPK   = 1555
	sqliteConstraintUniq = 2067
)

// isUniqueViolation reports a unique index conflict. The dialector
// translation covers the common case; the typed driver errors cover
// dialectors that pass the raw error through.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		code := coded.Code()
		return code == sqliteConstraintUniq || code == sqliteConstraintPK
	}
	return false
}

// storeErr maps store failures onto the domain taxonomy. Anything that is
// not a missing record or a uniqueness violation is an infrastructure failure.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, what)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrInfrastructure, what, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
