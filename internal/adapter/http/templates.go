package adapthttp

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"rockbuster/internal/domain"
)

// pageData is the payload every template receives.
type pageData struct {
	Title  string
	User   *domain.User
	Notice string
	Error  string
	Data   any
}

// Renderer executes the HTML templates parsed at startup.
type Renderer struct {
	t   *template.Template
	log *slog.Logger
}

// NewRenderer parses every template under dir.
func NewRenderer(dir string, log *slog.Logger) (*Renderer, error) {
	t, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t, log: log}, nil
}

// Render writes the named template. The template runs against a
// buffer first so an execution fault cannot leave a half-written
// page behind a 200 header.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := rd.t.ExecuteTemplate(&buf, name, data); err != nil {
		rd.log.Error("render failed", "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// page assembles pageData for a request, draining any flash notices.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string, data any) pageData {
	user, _ := UserFromContext(r.Context())
	return pageData{
		Title:  title,
		User:   user,
		Notice: popFlash(w, r, flashNotice),
		Error:  popFlash(w, r, flashError),
		Data:   data,
	}
}

func (s *Server) renderBadGateway(w http.ResponseWriter, r *http.Request) {
	s.render.Render(w, http.StatusBadGateway, "502.html", s.page(w, r, "502", nil))
}

func (s *Server) renderUnavailable(w http.ResponseWriter, r *http.Request) {
	s.render.Render(w, http.StatusServiceUnavailable, "503.html", s.page(w, r, "503", nil))
}
