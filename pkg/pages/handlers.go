package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/etc-team/bestellung/pkg/auth"
	"github.com/etc-team/bestellung/pkg/logger"
	"github.com/etc-team/bestellung/pkg/session"
)

//go:embed templates
var templateFS embed.FS

type Handler struct {
	tmpl *template.Template
}

func NewHandler() (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("pages: can't parse templates, %w", err)
	}
	return &Handler{tmpl: tmpl}, nil
}

// Login renders the login form. ?from= becomes the post-login target.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", struct {
		From string
	}{
		From: auth.SafeRedirect(r.URL.Query().Get("from")),
	})
}

// Index is the landing page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p, _ := session.FromContext(r.Context())
	h.render(w, r, "index.html", struct {
		Subject string
	}{
		Subject: p.Subject,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Log(r.Context()).Errorf("pages: can't render %s, %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
