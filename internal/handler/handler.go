// Package handler serves the client-visible pages: list, single post,
// create, edit/delete, login and register, plus the route guards around
// them. Handlers read the visitor's store, trigger data access functions,
// write results back through the store, and render from the snapshot.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kingwell47/blogfront/internal/middleware"
	"github.com/kingwell47/blogfront/internal/service"
	"github.com/kingwell47/blogfront/internal/session"
)

// Handler wires the page handlers to their collaborators.
type Handler struct {
	blogs    *service.BlogService
	auth     *service.AuthService
	sessions *session.Manager
	cookie   string
}

// New creates a Handler.
func New(blogs *service.BlogService, auth *service.AuthService, sessions *session.Manager, cookieName string) *Handler {
	return &Handler{
		blogs:    blogs,
		auth:     auth,
		sessions: sessions,
		cookie:   cookieName,
	}
}

// Router builds the route tree: anonymous-only credential pages, the
// authenticated blog pages, and a redirect to the list for everything
// else.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.withVisitor)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAnon)
			r.Use(middleware.RateLimit(5, 10))
			r.Get("/login", h.handleLoginForm)
			r.Post("/login", h.handleLogin)
			r.Get("/register", h.handleRegisterForm)
			r.Post("/register", h.handleRegister)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/blogs", h.handleList)
			r.Get("/blogs/create", h.handleCreateForm)
			r.Post("/blogs/create", h.handleCreate)
			r.Get("/blogs/{id}", h.handleView)
			r.Get("/blogs/{id}/edit", h.handleEditForm)
			r.Post("/blogs/{id}/edit", h.handleUpdate)
			r.Post("/blogs/{id}/delete", h.handleDelete)
			r.Post("/logout", h.handleLogout)
		})
	})

	// Unknown paths land on the list, which redirects to login when
	// anonymous.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
	})

	return r
}
