package files

import (
	"context"
	"iter"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// Repository persists FileNodes. Root is virtual: a node whose ParentID is
// models.RootParentID is stored without a parent.
//
// Lookups of unknown or malformed ids return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error)
	GetByID(ctx context.Context, id string) (*models.FileNode, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileNode, error)
	// List yields at most limit nodes of userID under parentID, newest first,
	// skipping offset. The query runs when the sequence is ranged over.
	List(ctx context.Context, userID, parentID string, limit, offset int) iter.Seq2[*models.FileNode, error]
	// SetVisibility updates is_public for a node owned by userID and returns
	// the updated node.
	SetVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.FileNode, error)
	Count(ctx context.Context) (int64, error)
}
