// Package repotest opens throwaway in-memory stores for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/pkg/db"
)

// Open returns a migrated repository over a private in-memory sqlite
// database. The pool is pinned to one connection so every statement sees the
// same database.
func Open(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	opts := db.DefaultOptions()
	opts.MaxOpenConns = 1
	opts.PrepareStmt = false
	opts.Logger = logger.Default.LogMode(logger.Silent)

	gdb, err := db.Open(context.Background(), sqlite.Open(dsn), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}
