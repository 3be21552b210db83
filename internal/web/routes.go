package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rook-computer/carousel/internal/assets"
)

type RouterConfig struct {
	// StaticDir, when set to an existing directory, is served at "/" instead
	// of the embedded UI.
	StaticDir string
	DevMode   bool
	Logger    zerolog.Logger
	API       APIV1Deps
}

// NewHandler builds the handler used by both the device and the simulator:
//   - /api/v1/* for the API
//   - / for the web UI
func NewHandler(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/fonts.css", handleFontsCSS).Methods(http.MethodGet)
	registerAPIV1(api, cfg.API)
	r.PathPrefix("/").Handler(StaticUIHandler(cfg.StaticDir))

	h := ChainMiddleware(r, WithLogging, WithRecovery, WithRequestID(cfg.Logger))
	if cfg.DevMode {
		h = WithDevCORS(h)
	}
	return h
}

// StaticUIHandler serves either the embedded UI or a directory.
func StaticUIHandler(dir string) http.Handler {
	var root http.FileSystem = http.FS(assets.WebUI)
	if dir != "" {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return http.NotFoundHandler()
		}
		root = http.Dir(dir)
	}
	fileServer := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid parent directory traversal.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
