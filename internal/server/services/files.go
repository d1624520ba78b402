package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
)

// CreateFileInput is an upload request. Data holds the decoded bytes and is
// ignored for folders.
type CreateFileInput struct {
	Name     string
	Type     models.FileType
	ParentID string
	IsPublic bool
	Data     []byte
}

// Content is a resolved payload ready to be served.
type Content struct {
	Data        []byte
	ContentType string
}

const defaultContentType = "text/plain"

// FileService is the hierarchical file registry. Every operation except
// ResolveForRead and ReadContent is scoped to the calling user, and nodes
// owned by someone else look exactly like missing ones.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	content     content.Store
	thumbnails  queue.Publisher
	log         logging.Logger
	metrics     *metrics.Metrics
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store content.Store, thumbnails queue.Publisher, log logging.Logger, mtr *metrics.Metrics) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		content:     store,
		thumbnails:  thumbnails,
		log:         log.With("module", "files"),
		metrics:     mtr,
	}
}

// Create validates in, stores its bytes and records the node. For images a
// thumbnail job is enqueued; a failed enqueue is logged and does not fail
// the upload. Nothing is persisted when validation fails.
func (s *FileService) Create(ctx context.Context, ownerID string, in CreateFileInput) (*models.FileNode, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !in.Type.Valid() {
		return nil, ErrMissingType
	}
	if in.Type.HasContent() && len(in.Data) == 0 {
		return nil, ErrMissingData
	}

	repo := s.repomanager.Files(s.db)

	parentID := models.RootParentID
	if !models.IsRoot(in.ParentID) {
		parent, err := repo.GetByIDAndOwner(ctx, in.ParentID, ownerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("error loading parent: %w", err)
		}
		if parent.Type != models.FileTypeFolder {
			return nil, ErrParentNotFolder
		}
		parentID = parent.ID
	}

	node := &models.FileNode{
		ID:       uuid.NewString(),
		UserID:   ownerID,
		Name:     in.Name,
		Type:     in.Type,
		ParentID: parentID,
		IsPublic: in.IsPublic,
	}

	if in.Type.HasContent() {
		ref, err := s.content.Write(ctx, in.Data)
		if err != nil {
			return nil, fmt.Errorf("error writing content: %w", err)
		}
		node.ContentRef = ref
	}

	created, err := repo.Create(ctx, node)
	if err != nil {
		if node.ContentRef != "" {
			if derr := s.content.Delete(context.WithoutCancel(ctx), node.ContentRef); derr != nil {
				s.log.Warn(ctx, "content left without metadata", "content_ref", node.ContentRef, "error", derr)
			}
		}
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	s.metrics.FileCreated(string(created.Type))

	if created.Type == models.FileTypeImage && s.thumbnails != nil {
		job := models.ThumbnailJob{UserID: ownerID, FileID: created.ID}
		if err := s.thumbnails.Enqueue(ctx, job); err != nil {
			s.metrics.EnqueueFailed()
			s.log.Error(ctx, "failed to enqueue thumbnail job", "file_id", created.ID, "error", err)
		}
	}

	s.log.Debug(ctx, "file created", "file_id", created.ID, "type", created.Type)
	return created, nil
}

// Get returns the node when it exists and belongs to ownerID.
func (s *FileService) Get(ctx context.Context, ownerID, id string) (*models.FileNode, error) {
	return s.repomanager.Files(s.db).GetByIDAndOwner(ctx, id, ownerID)
}

// List yields one page (common.PageSize nodes) of ownerID's children of
// parentID, newest first. Negative pages are treated as page 0 and pages
// whose offset does not fit an int are empty. The query runs each time the
// sequence is ranged over.
func (s *FileService) List(ctx context.Context, ownerID, parentID string, page int) iter.Seq2[*models.FileNode, error] {
	if page < 0 {
		page = 0
	}
	if page > math.MaxInt/common.PageSize {
		return func(func(*models.FileNode, error) bool) {}
	}
	return s.repomanager.Files(s.db).List(ctx, ownerID, parentID, common.PageSize, page*common.PageSize)
}

// SetVisibility sets IsPublic on a node owned by ownerID. Repeating the
// same value is a no-op that still returns the node.
func (s *FileService) SetVisibility(ctx context.Context, ownerID, id string, isPublic bool) (*models.FileNode, error) {
	return s.repomanager.Files(s.db).SetVisibility(ctx, id, ownerID, isPublic)
}

func (s *FileService) Publish(ctx context.Context, ownerID, id string) (*models.FileNode, error) {
	return s.SetVisibility(ctx, ownerID, id, true)
}

func (s *FileService) Unpublish(ctx context.Context, ownerID, id string) (*models.FileNode, error) {
	return s.SetVisibility(ctx, ownerID, id, false)
}

// ResolveForRead looks a node up regardless of owner. The caller decides
// whether the requester may see it.
func (s *FileService) ResolveForRead(ctx context.Context, id string) (*models.FileNode, error) {
	return s.repomanager.Files(s.db).GetByID(ctx, id)
}

// ReadContent returns the bytes of a node for requesterID, which may be
// empty for anonymous callers. Private nodes of other users are reported
// as common.ErrorNotFound. A positive size on an image selects the resized
// variant, falling back to the original while it does not exist yet.
func (s *FileService) ReadContent(ctx context.Context, requesterID, id string, size int) (*Content, error) {
	node, err := s.ResolveForRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if !node.IsPublic && (requesterID == "" || node.UserID != requesterID) {
		return nil, common.ErrorNotFound
	}
	if node.Type == models.FileTypeFolder {
		return nil, ErrFolderHasNoContent
	}

	ref := node.ContentRef
	if size > 0 && node.Type == models.FileTypeImage {
		derived := content.DerivedRef(ref, size)
		ok, err := s.content.Exists(ctx, derived)
		if err != nil {
			return nil, fmt.Errorf("error checking variant: %w", err)
		}
		if ok {
			ref = derived
		}
	}

	data, err := s.content.Read(ctx, ref)
	if err != nil {
		if errors.Is(err, content.ErrContentNotFound) {
			return nil, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
		}
		return nil, fmt.Errorf("error reading content: %w", err)
	}

	return &Content{Data: data, ContentType: ContentTypeFor(node.Name)}, nil
}

// ContentTypeFor derives a MIME type from the file name extension.
func ContentTypeFor(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}
