// Package site serves the built single-page site next to the API.
package site

import (
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/resyne/site-api/internal/interfaces/http/common"
)

// Routes are the pages rendered by the client router.
var Routes = []string{"/", "/audit", "/website-in-1-day", "/book-a-call"}

const indexFile = "index.html"

// Handler serves index.html for known pages, static assets as files and the
// index with a 404 status for everything else.
type Handler struct {
	logger *log.Logger
	files  fs.FS
	static http.Handler
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger *log.Logger
	Files  fs.FS
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger: cfg.Logger,
		files:  cfg.Files,
		static: http.FileServer(http.FS(cfg.Files)),
	}
}

// Register mounts the page routes and installs the fallback as the router's
// NotFound handler.
func (h *Handler) Register(r chi.Router) {
	for _, route := range Routes {
		r.Get(route, h.pageHandler())
	}
	r.NotFound(h.fallbackHandler())
}

func (h *Handler) pageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.serveIndex(w, http.StatusOK)
	}
}

func (h *Handler) fallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			common.WriteMessage(h.logger, w, http.StatusNotFound, "not found")
			return
		}
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" && name != indexFile {
			if info, err := fs.Stat(h.files, name); err == nil && !info.IsDir() {
				h.static.ServeHTTP(w, r)
				return
			}
		}
		h.serveIndex(w, http.StatusNotFound)
	}
}

func (h *Handler) serveIndex(w http.ResponseWriter, status int) {
	data, err := fs.ReadFile(h.files, indexFile)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("site index unavailable: %v", err)
		}
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
