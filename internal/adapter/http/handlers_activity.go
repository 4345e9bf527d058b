package adapthttp

import (
	"errors"
	"net/http"
	"time"
)

func (s *Server) writeItems(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]any{"items": s.activities.Items()})
}

func (s *Server) handleActivitiesList(w http.ResponseWriter, r *http.Request) {
	s.writeItems(w, http.StatusOK)
}

func (s *Server) handleActivityAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.activities.Add(req.Text) {
		writeError(w, http.StatusBadRequest, errors.New("text must not be blank"))
		return
	}
	s.writeItems(w, http.StatusCreated)
}

func (s *Server) handleActivityToggle(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.activities.Toggle(i); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeItems(w, http.StatusOK)
}

func (s *Server) handleActivityDelete(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.activities.Delete(i); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeItems(w, http.StatusOK)
}

func (s *Server) handleActivitiesClear(w http.ResponseWriter, r *http.Request) {
	s.activities.ClearAll()
	s.writeItems(w, http.StatusOK)
}

func (s *Server) handleActivitiesLoadCache(w http.ResponseWriter, r *http.Request) {
	loaded := s.activities.LoadFromCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"loaded": loaded, "items": s.activities.Items()})
}

func (s *Server) handleActivitiesCache(w http.ResponseWriter, r *http.Request) {
	ts, ok := s.activities.CacheTimestamp(r.Context())
	var cachedAt *string
	if ok {
		v := ts.UTC().Format(time.RFC3339Nano)
		cachedAt = &v
	}
	writeJSON(w, http.StatusOK, map[string]any{"cached": ok, "cachedAt": cachedAt})
}

func (s *Server) handleActivitiesClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.activities.ClearCache(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
