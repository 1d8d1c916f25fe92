package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// pageSlugs is the allowlist of static pages served by GET /api/pages/{slug}.
var pageSlugs = map[string]bool{
	"privacy":    true,
	"terms":      true,
	"disclaimer": true,
}

// PagesHandler serves the site's Markdown pages from a directory.
type PagesHandler struct {
	dir string
}

// NewPagesHandler creates a PagesHandler reading <dir>/<slug>.md.
func NewPagesHandler(dir string) *PagesHandler {
	return &PagesHandler{dir: dir}
}

// Page handles GET /api/pages/{slug}.
// Rejects traversal attempts with 400 and unknown or missing pages with 404.
func (h *PagesHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !pageSlugs[slug] {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	// os.Root refuses to resolve anything outside dir, symlinks included.
	root, err := os.OpenRoot(h.dir)
	if err != nil {
		slog.Error("pages directory unavailable", "dir", h.dir, "error", err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer root.Close()

	f, err := root.Open(slug + ".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to open page", "slug", slug, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, slug+".md", info.ModTime(), f)
}
