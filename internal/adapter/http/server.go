// Package adapthttp implements the local HTTP adapter through which the UI
// drives the stores.
package adapthttp

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tracker/internal/app"
)

// Stores groups the state stores served over HTTP.
type Stores struct {
	Session    *app.SessionStore
	Counter    *app.CounterStore
	Activities *app.ActivityStore
	Theme      *app.ThemeStore
}

// Server is the driving HTTP adapter that routes requests to the stores.
type Server struct {
	session    *app.SessionStore
	counter    *app.CounterStore
	activities *app.ActivityStore
	theme      *app.ThemeStore
	oidcConfig *OIDCConfig
	log        zerolog.Logger
	webDir     string
	upgrader   websocket.Upgrader
}

// New creates a Server wired to the given stores.
func New(st Stores, webDir string, log zerolog.Logger) *Server {
	return &Server{
		session:    st.Session,
		counter:    st.Counter,
		activities: st.Activities,
		theme:      st.Theme,
		oidcConfig: &OIDCConfig{},
		log:        log.With().Str("component", "http").Logger(),
		webDir:     webDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// WithOIDC enables single sign-on through the given provider.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	s.handle(api, "GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	s.handle(api, "GET /session/config", s.handleSessionConfig)
	s.handle(api, "POST /session/register", s.handleRegister)
	s.handle(api, "POST /session/login", s.handleLogin)
	s.handle(api, "POST /session/logout", s.handleLogout)
	s.handle(api, "GET /session/profile", s.handleProfile)
	s.handle(api, "GET /session/sso/login", s.handleSSOLogin)
	s.handle(api, "GET /session/sso/callback", s.handleSSOCallback)

	s.handle(api, "GET /counter", s.handleCounterGet)
	s.handle(api, "POST /counter/increment", s.handleCounterIncrement)
	s.handle(api, "POST /counter/decrement", s.handleCounterDecrement)
	s.handle(api, "POST /counter/reset", s.handleCounterReset)
	s.handle(api, "GET /counter/ws", s.handleCounterStream)

	s.handle(api, "GET /activities", s.handleActivitiesList)
	s.handle(api, "POST /activities", s.handleActivityAdd)
	s.handle(api, "POST /activities/{index}/toggle", s.handleActivityToggle)
	s.handle(api, "DELETE /activities/{index}", s.handleActivityDelete)
	s.handle(api, "POST /activities/clear", s.handleActivitiesClear)
	s.handle(api, "POST /activities/load-cache", s.handleActivitiesLoadCache)
	s.handle(api, "GET /activities/cache", s.handleActivitiesCache)
	s.handle(api, "DELETE /activities/cache", s.handleActivitiesClearCache)

	s.handle(api, "GET /theme", s.handleThemeGet)
	s.handle(api, "PUT /theme", s.handleThemePut)
	s.handle(api, "POST /theme/toggle", s.handleThemeToggle)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /metrics", promhttp.Handler())
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, instrument(pattern, h))
}
