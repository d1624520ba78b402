package httpapi

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
)

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req createFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var data []byte
	if req.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidData)
			return
		}
		data = decoded
	}

	node, err := s.files.Create(r.Context(), user.ID, services.CreateFileInput{
		Name:     req.Name,
		Type:     models.FileType(req.Type),
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNodeResponse(node))
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	node, err := s.files.Get(r.Context(), userFrom(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeResponse(node))
}

// handleListFiles serves one page of children. A missing parentId means
// root; a missing or malformed page means page 0.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parentID := q.Get("parentId")
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 0
	}

	out := make([]nodeResponse, 0)
	for node, err := range s.files.List(r.Context(), userFrom(r.Context()).ID, parentID, page) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, toNodeResponse(node))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

func (s *Server) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	node, err := s.files.SetVisibility(r.Context(), userFrom(r.Context()).ID, r.PathValue("id"), isPublic)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeResponse(node))
}

// handleFileData streams the stored bytes. size selects a thumbnail width;
// values that are not positive integers are ignored.
func (s *Server) handleFileData(w http.ResponseWriter, r *http.Request) {
	var requesterID string
	if user := userFrom(r.Context()); user != nil {
		requesterID = user.ID
	}

	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 0 {
		size = 0
	}

	c, err := s.files.ReadContent(r.Context(), requesterID, r.PathValue("id"), size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}
