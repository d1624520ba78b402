package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
)

const (
	msgNotFound     = "Not found"
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Internal server error"
	msgInvalidBody  = "Invalid request body"
	msgInvalidData  = "Invalid data"
)

// maxBodyBytes caps JSON request bodies, base64 payload included.
const maxBodyBytes = 64 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors to status codes. Anything not classified
// is logged and reported as 500 without details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSONError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, common.ErrorValidation):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeJSONError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
