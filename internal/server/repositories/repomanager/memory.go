package repomanager

import (
	"context"
	"database/sql"

	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/files"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/users"
)

// MemoryRepositoryManager serves the same in-memory repositories regardless
// of the handle it is given. It backs single-process demos and tests.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	files *files.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		files: files.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Files(dbx.DBTX) files.Repository { return m.files }

// RunMigrations is a no-op; there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// PingContext always succeeds.
func (m *MemoryRepositoryManager) PingContext(context.Context) error { return nil }
