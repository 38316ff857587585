package handler

import (
	"context"
	"net/http"

	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/store"
)

type contextKey struct{}

var visitorKey contextKey

// withVisitor resolves the visitor cookie to its store-and-session entry,
// minting a new one for first-time visitors, and keeps the gateway
// session fresh before any page logic runs.
func (h *Handler) withVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(h.cookie); err == nil {
			id = c.Value
		}

		canonical, _ := h.sessions.Attach(id)
		if canonical != id {
			http.SetCookie(w, &http.Cookie{
				Name:     h.cookie,
				Value:    canonical,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		// Refresh pass: an externally expired session is observed here
		// and surfaces as a sign-out before the guards evaluate.
		h.sessions.Fresh(r.Context(), canonical)

		ctx := context.WithValue(r.Context(), visitorKey, canonical)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// visitorID extracts the visitor ID placed by withVisitor.
func visitorID(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey).(string)
	return id
}

// store returns the visitor's store for this request.
func (h *Handler) store(r *http.Request) *store.Store {
	return h.sessions.StoreFor(visitorID(r.Context()))
}

// session returns the visitor's gateway session, or nil.
func (h *Handler) session(r *http.Request) *model.Session {
	return h.sessions.Session(visitorID(r.Context()))
}

// token returns the access token for gateway calls, or "" when
// anonymous.
func (h *Handler) token(r *http.Request) string {
	if sess := h.session(r); sess != nil {
		return sess.AccessToken
	}
	return ""
}
