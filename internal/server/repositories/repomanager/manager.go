package repomanager

import (
	"context"
	"database/sql"

	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/files"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/users"
)

// RepositoryManager vends metadata repositories bound to a database handle
// or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
}
