package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/service"
	"github.com/kingwell47/blogfront/internal/store"
)

type loginPage struct {
	Title     string
	Nav       navData
	Email     string
	Error     string
	Flash     string
	IsLoading bool
}

type registerPage struct {
	Title       string
	Nav         navData
	DisplayName string
	Email       string
	Error       string
	Success     string
	IsLoading   bool
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	page := loginPage{Title: "Login", Nav: h.nav(st), Error: st.Snapshot().Auth.Error}
	if r.URL.Query().Get("out") == "1" {
		page.Flash = "Logged out successfully!"
	}
	h.render(w, http.StatusOK, "login.html", page)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	st.Dispatch(store.SetAuthLoading{Loading: true})
	st.Dispatch(store.SetAuthError{})

	sess, err := h.auth.Authenticate(r.Context(), model.LoginRequest{Email: email, Password: password})
	if err != nil {
		st.Dispatch(store.SetAuthError{Message: err.Error()})
		st.Dispatch(store.SetAuthLoading{Loading: false})
		h.render(w, http.StatusOK, "login.html", loginPage{
			Title: "Login",
			Nav:   h.nav(st),
			Email: email,
			Error: st.Snapshot().Auth.Error,
		})
		return
	}

	user := sess.User
	st.Dispatch(store.SetUser{User: &user})
	h.sessions.SetSession(visitorID(r.Context()), sess)
	st.Dispatch(store.SetAuthLoading{Loading: false})

	http.Redirect(w, r, "/blogs", http.StatusSeeOther)
}

func (h *Handler) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	h.render(w, http.StatusOK, "register.html", registerPage{
		Title: "Register",
		Nav:   h.nav(st),
		Error: st.Snapshot().Auth.Error,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	st.Dispatch(store.SetAuthLoading{Loading: true})
	st.Dispatch(store.SetAuthError{})

	// Client-side validation; a mismatch never reaches the gateway.
	if verr := validateSignUp(displayName, email, password, confirm); verr != nil {
		st.Dispatch(store.SetAuthError{Message: verr.Error()})
		st.Dispatch(store.SetAuthLoading{Loading: false})
		h.render(w, http.StatusOK, "register.html", registerPage{
			Title:       "Register",
			Nav:         h.nav(st),
			DisplayName: displayName,
			Email:       email,
			Error:       verr.Error(),
		})
		return
	}

	user, sess, err := h.auth.Register(r.Context(), model.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		st.Dispatch(store.SetAuthError{Message: err.Error()})
		st.Dispatch(store.SetAuthLoading{Loading: false})
		h.render(w, http.StatusOK, "register.html", registerPage{
			Title:       "Register",
			Nav:         h.nav(st),
			DisplayName: displayName,
			Email:       email,
			Error:       st.Snapshot().Auth.Error,
		})
		return
	}

	st.Dispatch(store.SetUser{User: &user})
	if sess != nil {
		h.sessions.SetSession(visitorID(r.Context()), sess)
	}
	st.Dispatch(store.SetAuthLoading{Loading: false})

	// Transient confirmation before the redirect, so the user sees the
	// registration succeed.
	h.render(w, http.StatusOK, "register.html", registerPage{
		Title:   "Register",
		Nav:     h.nav(st),
		Success: "Registration successful! Redirecting...",
	})
}

func validateSignUp(displayName, email, password, confirm string) *service.ValidationError {
	if displayName == "" || email == "" || password == "" || confirm == "" {
		return &service.ValidationError{Message: "All fields are required."}
	}
	if password != confirm {
		return &service.ValidationError{Message: "Passwords do not match."}
	}
	return nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := visitorID(r.Context())
	sess := h.sessions.Session(id)

	if err := h.auth.Deauthenticate(r.Context(), sess); err != nil {
		// Stay signed in locally when the gateway refuses the sign-out;
		// the user can retry.
		slog.Error("logout failed", "error", err)
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}

	h.store(r).Dispatch(store.SetUser{})
	h.sessions.ClearSession(id)
	http.Redirect(w, r, "/login?out=1", http.StatusSeeOther)
}
