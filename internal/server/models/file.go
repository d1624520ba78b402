// Package models defines server-side data models persisted in the database.
package models

import (
	"strconv"
	"time"
)

// FileType is the kind of a FileNode.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the known node kinds.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	default:
		return false
	}
}

// HasContent reports whether nodes of this kind carry stored bytes.
func (t FileType) HasContent() bool {
	return t == FileTypeFile || t == FileTypeImage
}

// RootParentID is the sentinel parent of top-level nodes. Root is virtual:
// it is never stored as a node and no real id can equal it.
const RootParentID = "0"

// IsRoot reports whether parentID designates the virtual root folder.
// Empty strings and "0" are both accepted.
func IsRoot(parentID string) bool {
	return parentID == "" || parentID == RootParentID
}

// FileNode is one folder, file or image in a user's hierarchy.
type FileNode struct {
	// ID is the node identifier (uuid).
	ID string
	// UserID owns the node and never changes.
	UserID string
	Name   string
	Type   FileType
	// ParentID is RootParentID or the id of a folder node.
	ParentID string
	IsPublic bool
	// ContentRef locates the bytes in the content store; empty for folders.
	ContentRef string
	CreatedAt  time.Time
	// Seq is the store-assigned insertion sequence; listings sort on it.
	Seq int64
}

// ParentIsRoot reports whether the node sits directly under root.
func (n *FileNode) ParentIsRoot() bool {
	return IsRoot(n.ParentID)
}

// String is used in log lines.
func (n *FileNode) String() string {
	return n.Name + "#" + n.ID + "@" + strconv.FormatInt(n.Seq, 10)
}
