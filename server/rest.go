package server

import (
	"net/http"
	"time"

	"github.com/go-pkgz/rest"
)

// statusHandler returns server status with the loading and modal state of the requesting page
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientFromRequest(r)
	if err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	st := s.viewer.Status(clientID)
	rest.RenderJSON(w, rest.JSON{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"loading":    st.Loading,
		"modal":      st.Modal,
		"view_size":  st.ViewSize,
		"loaded":     st.Loaded,
		"last_token": st.LastToken,
		"clients":    st.Clients,
	})
}
