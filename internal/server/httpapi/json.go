package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// ParentRef is a parent id on the wire. Root is the number 0; clients may
// also send "0", an empty string or null for it.
type ParentRef string

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if models.IsRoot(string(p)) {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ParentRef(models.RootParentID)
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = ParentRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = ParentRef(strconv.FormatInt(i, 10))
		return nil
	}
	*p = ParentRef(n.String())
	return nil
}

type nodeResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentRef `json:"parentId"`
}

func toNodeResponse(n *models.FileNode) nodeResponse {
	return nodeResponse{
		ID:       n.ID,
		UserID:   n.UserID,
		Name:     n.Name,
		Type:     string(n.Type),
		IsPublic: n.IsPublic,
		ParentID: ParentRef(n.ParentID),
	}
}

type createFileRequest struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ParentID ParentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
