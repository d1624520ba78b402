// Package services contains server-side business logic: account and
// session handling, the file registry and health statistics.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// SessionStore is the token -> user id mapping used for authentication.
type SessionStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, bool, error)
	Revoke(ctx context.Context, token string) error
}

// UserService registers accounts and manages their sessions.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    SessionStore
	log         logging.Logger
	bcryptCost  int
	dummyHash   []byte
}

// UserOption customizes a UserService.
type UserOption func(*UserService)

// WithBcryptCost sets the bcrypt work factor; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) UserOption {
	return func(s *UserService) { s.bcryptCost = cost }
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions SessionStore, log logging.Logger, opts ...UserOption) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		log:         log.With("module", "users"),
		bcryptCost:  bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	// Compared against when the email is unknown so both failure paths cost the same.
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("files-manager"), s.bcryptCost)
	return s
}

// Register creates an account. The password is stored as a bcrypt digest.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error resolving session: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Logout revokes the session behind token. A token that does not resolve
// is common.ErrorUnauthorized.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}
