package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"list.html",
	"view.html",
	"create.html",
	"edit.html",
	"login.html",
	"register.html",
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	m := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		m[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return m
}

// navData feeds the navigation bar in the layout.
type navData struct {
	User        *model.User
	DisplayName string
}

// nav derives the navigation bar state from the visitor's auth slice.
func (h *Handler) nav(st *store.Store) navData {
	u := st.Snapshot().Auth.User
	name := u.DisplayName()
	if name == "" && u != nil {
		name = u.Email
	}
	if u == nil {
		name = "Guest"
	}
	return navData{User: u, DisplayName: name}
}

// render executes a page template into a buffer first so a template
// failure can still become a clean 500 instead of a torn page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := templates[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		slog.Error("rendering template", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
