package users

import (
	"context"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// Repository persists accounts. Lookups return common.ErrorNotFound for
// unknown users and Create returns common.ErrorAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
