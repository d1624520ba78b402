package files

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// MemoryRepository keeps nodes in process memory. It is safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int64
	nodes map[string]*models.FileNode
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nodes: make(map[string]*models.FileNode)}
}

func (r *MemoryRepository) Create(_ context.Context, node *models.FileNode) (*models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[node.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.seq++
	node.Seq = r.seq
	node.CreatedAt = time.Now().UTC()
	if node.ParentIsRoot() {
		node.ParentID = models.RootParentID
	}
	stored := *node
	r.nodes[node.ID] = &stored
	return node, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.FileNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (r *MemoryRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileNode, error) {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

// List snapshots the matching nodes when ranged over.
func (r *MemoryRepository) List(_ context.Context, userID, parentID string, limit, offset int) iter.Seq2[*models.FileNode, error] {
	return func(yield func(*models.FileNode, error) bool) {
		if models.IsRoot(parentID) {
			parentID = models.RootParentID
		}

		r.mu.RLock()
		var page []*models.FileNode
		for _, n := range r.nodes {
			if n.UserID == userID && n.ParentID == parentID {
				c := *n
				page = append(page, &c)
			}
		}
		r.mu.RUnlock()

		slices.SortFunc(page, func(a, b *models.FileNode) int {
			switch {
			case a.Seq > b.Seq:
				return -1
			case a.Seq < b.Seq:
				return 1
			default:
				return 0
			}
		})

		if offset < 0 || offset >= len(page) {
			return
		}
		page = page[offset:]
		if len(page) > limit {
			page = page[:limit]
		}
		for _, n := range page {
			if !yield(n, nil) {
				return
			}
		}
	}
}

func (r *MemoryRepository) SetVisibility(_ context.Context, id, userID string, isPublic bool) (*models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	n.IsPublic = isPublic
	c := *n
	return &c, nil
}

func (r *MemoryRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.nodes)), nil
}
