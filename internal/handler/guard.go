package handler

import "net/http"

// requireAuth lets the request through only for an authenticated visitor;
// everyone else is redirected to the login page. The check is a
// synchronous predicate over the auth slice.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := h.store(r)
		if st == nil || st.Snapshot().Auth.User == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAnon is the inverse guard: authenticated visitors have no
// business on the credential pages and are sent to the list.
func (h *Handler) requireAnon(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := h.store(r)
		if st != nil && st.Snapshot().Auth.User != nil {
			http.Redirect(w, r, "/blogs", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
