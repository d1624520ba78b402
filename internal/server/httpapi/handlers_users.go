package httpapi

import (
	"net/http"

	"github.com/osamanazar47/alx-files-manager/internal/common"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// handleConnect exchanges Basic credentials for a session token.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), r.Header.Get(common.TokenHeaderName)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}
