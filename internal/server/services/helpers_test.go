package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/files"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/users"
	"github.com/osamanazar47/alx-files-manager/internal/server/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

type env struct {
	rm       *repomanager.MemoryRepositoryManager
	store    *content.MemoryStore
	queue    *queue.MemoryQueue
	sessions *sessions.Store
	users    *UserService
	files    *FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	sess, err := sessions.Open("", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	e := &env{
		rm:       repomanager.NewMemoryRepositoryManager(),
		store:    content.NewMemoryStore(),
		queue:    queue.NewMemoryQueue(),
		sessions: sess,
	}
	log := logging.NewNop()
	e.users = NewUserService(nil, e.rm, sess, log, WithBcryptCost(bcrypt.MinCost))
	e.files = NewFileService(nil, e.rm, e.store, e.queue, log, nil)
	return e
}

func (e *env) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), email, "toto1234!")
	require.NoError(t, err)
	return u
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Enqueue(context.Context, models.ThumbnailJob) error {
	p.calls++
	return errBoom
}

type failingStore struct{ content.Store }

func (failingStore) Write(context.Context, []byte) (string, error) {
	return "", errors.Join(content.ErrStorage, errBoom)
}

// fakeRepoManager returns repositories that fail every call.
type fakeRepoManager struct{}

func (fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (fakeRepoManager) Users(dbx.DBTX) users.Repository              { return brokenUsers{} }
func (fakeRepoManager) Files(dbx.DBTX) files.Repository              { return brokenFiles{} }

type brokenUsers struct{ users.Repository }

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errBoom }
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, errBoom }
func (brokenUsers) Count(context.Context) (int64, error)                       { return 0, errBoom }

type brokenFiles struct{ files.Repository }

func (brokenFiles) Count(context.Context) (int64, error) { return 0, errBoom }
func (brokenFiles) Create(context.Context, *models.FileNode) (*models.FileNode, error) {
	return nil, errBoom
}
