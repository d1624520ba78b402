package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

const columns = `id, user_id, name, type, parent_id, is_public, content_ref, created_at, seq`

// PostgresRepository implements file metadata storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner) (*models.FileNode, error) {
	var (
		n          models.FileNode
		parentID   sql.NullString
		contentRef sql.NullString
	)
	if err := s.Scan(&n.ID, &n.UserID, &n.Name, &n.Type, &parentID, &n.IsPublic, &contentRef, &n.CreatedAt, &n.Seq); err != nil {
		return nil, err
	}
	n.ParentID = models.RootParentID
	if parentID.Valid {
		n.ParentID = parentID.String
	}
	n.ContentRef = contentRef.String
	return &n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts node and fills in the store-assigned fields.
func (r *PostgresRepository) Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error) {
	query := `
		INSERT INTO files (id, user_id, name, type, parent_id, is_public, content_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, seq
	`
	parent := sql.NullString{}
	if !node.ParentIsRoot() {
		parent = nullable(node.ParentID)
	}

	err := r.db.QueryRowContext(ctx, query,
		node.ID, node.UserID, node.Name, node.Type, parent, node.IsPublic, nullable(node.ContentRef)).
		Scan(&node.CreatedAt, &node.Seq)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if node.ParentIsRoot() {
		node.ParentID = models.RootParentID
	}
	return node, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileNode, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + columns + ` FROM files WHERE id = $1`
	return r.one(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileNode, error) {
	if uuid.Validate(id) != nil || uuid.Validate(userID) != nil {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + columns + ` FROM files WHERE id = $1 AND user_id = $2`
	return r.one(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) one(row *sql.Row) (*models.FileNode, error) {
	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// List returns a lazy page of userID's nodes under parentID ordered by seq
// descending. A malformed parent id yields an empty sequence.
func (r *PostgresRepository) List(ctx context.Context, userID, parentID string, limit, offset int) iter.Seq2[*models.FileNode, error] {
	return func(yield func(*models.FileNode, error) bool) {
		if uuid.Validate(userID) != nil || offset < 0 {
			return
		}

		var (
			rows *sql.Rows
			err  error
		)
		if models.IsRoot(parentID) {
			query := `SELECT ` + columns + ` FROM files
				WHERE user_id = $1 AND parent_id IS NULL
				ORDER BY seq DESC LIMIT $2 OFFSET $3`
			rows, err = r.db.QueryContext(ctx, query, userID, limit, offset)
		} else {
			if uuid.Validate(parentID) != nil {
				return
			}
			query := `SELECT ` + columns + ` FROM files
				WHERE user_id = $1 AND parent_id = $2
				ORDER BY seq DESC LIMIT $3 OFFSET $4`
			rows, err = r.db.QueryContext(ctx, query, userID, parentID, limit, offset)
		}
		if err != nil {
			yield(nil, fmt.Errorf("failed to select files: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			n, err := scanNode(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(n, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// SetVisibility flips is_public in one statement; concurrent calls on the
// same row serialize in the database.
func (r *PostgresRepository) SetVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.FileNode, error) {
	if uuid.Validate(id) != nil || uuid.Validate(userID) != nil {
		return nil, common.ErrorNotFound
	}
	query := `UPDATE files SET is_public = $3 WHERE id = $1 AND user_id = $2 RETURNING ` + columns
	return r.one(r.db.QueryRowContext(ctx, query, id, userID, isPublic))
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
