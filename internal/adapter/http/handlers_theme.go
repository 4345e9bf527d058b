package adapthttp

import "net/http"

type themeResponse struct {
	Dark bool `json:"dark"`
}

func (s *Server) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Dark: s.theme.IsDark()})
}

func (s *Server) handleThemePut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dark *bool `json:"dark"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Dark == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "dark is required", "field": "dark"})
		return
	}
	s.theme.SetDark(*req.Dark)
	writeJSON(w, http.StatusOK, themeResponse{Dark: *req.Dark})
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Dark: s.theme.Toggle()})
}
