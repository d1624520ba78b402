package httpapi

import "net/http"

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.stats.Status(r.Context())
	code := http.StatusOK
	if !st.Healthy() {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, st)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
