package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/service"
	"github.com/kingwell47/blogfront/internal/session"
	"github.com/kingwell47/blogfront/internal/store"
)

const cookieName = "sid"

type fixture struct {
	router    http.Handler
	sessions  *session.Manager
	visitorID string
	store     *store.Store
}

func newFixture(t *testing.T, gwHandler http.HandlerFunc) *fixture {
	t.Helper()
	if gwHandler == nil {
		gwHandler = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected gateway call: %s %s", r.Method, r.URL.Path)
		}
	}
	srv := httptest.NewServer(gwHandler)
	t.Cleanup(srv.Close)

	gw := gateway.New(srv.URL, "anon-key", time.Second)
	sessions := session.NewManager(gw, 10)
	t.Cleanup(session.BindStores(sessions))

	h := New(service.NewBlogService(gw), service.NewAuthService(gw), sessions, cookieName)
	id, st := sessions.Attach("")

	return &fixture{router: h.Router(), sessions: sessions, visitorID: id, store: st}
}

func freshToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte("gateway-side-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return s
}

func (f *fixture) signIn(t *testing.T, user model.User) {
	t.Helper()
	f.sessions.SetSession(f.visitorID, &model.Session{
		AccessToken: freshToken(t),
		User:        user,
	})
}

func (f *fixture) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: cookieName, Value: f.visitorID})
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body: %s)", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	f := newFixture(t, nil)
	assertRedirect(t, f.do(http.MethodGet, "/blogs/create", nil), "/login")
}

func TestRequireAnon_RedirectsAuthenticated(t *testing.T) {
	f := newFixture(t, nil)
	f.signIn(t, model.User{ID: "u1"})
	assertRedirect(t, f.do(http.MethodGet, "/login", nil), "/blogs")
}

func TestUnknownPath_RedirectsToList(t *testing.T) {
	f := newFixture(t, nil)
	assertRedirect(t, f.do(http.MethodGet, "/does/not/exist", nil), "/blogs")
}

func TestList_SinglePageDisablesBothControls(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/blogs":
			w.Header().Set("Content-Range", "0-1/2")
			json.NewEncoder(w).Encode([]model.Post{
				{ID: "a", Title: "First", AuthorID: "u1", CreatedAt: time.Now()},
				{ID: "b", Title: "Second", AuthorID: "u1", CreatedAt: time.Now()},
			})
		case "/rest/v1/profiles":
			json.NewEncoder(w).Encode(model.Profile{ID: "u1", DisplayName: "Alice"})
		default:
			t.Errorf("unexpected gateway call: %s", r.URL.Path)
		}
	})
	f.signIn(t, model.User{ID: "u1"})

	rr := f.do(http.MethodGet, "/blogs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()

	if !strings.Contains(body, "Page 1 of 1") {
		t.Error("expected a single page")
	}
	if strings.Contains(body, "/blogs?page=") {
		t.Error("expected no pager links on a single page")
	}
	if strings.Count(body, "<button disabled>") != 2 {
		t.Error("expected both pager controls disabled")
	}
	if !strings.Contains(body, "by Alice") {
		t.Error("expected the resolved author name")
	}
}

func TestList_FailedAuthorLookupFallsBackToID(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/blogs":
			w.Header().Set("Content-Range", "0-2/3")
			json.NewEncoder(w).Encode([]model.Post{
				{ID: "a", Title: "A", AuthorID: "u1"},
				{ID: "b", Title: "B", AuthorID: "u2"},
				{ID: "c", Title: "C", AuthorID: "u3"},
			})
		case "/rest/v1/profiles":
			id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
			if id == "u2" {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
				return
			}
			json.NewEncoder(w).Encode(model.Profile{ID: id, DisplayName: "Name-" + id})
		}
	})
	f.signIn(t, model.User{ID: "u1"})

	body := f.do(http.MethodGet, "/blogs", nil).Body.String()

	if !strings.Contains(body, "by Name-u1") || !strings.Contains(body, "by Name-u3") {
		t.Error("expected resolved names for the successful lookups")
	}
	if !strings.Contains(body, "by u2") {
		t.Error("expected the raw author id for the failed lookup")
	}
	if strings.Contains(body, `class="error"`) {
		t.Error("a failed author lookup must not set a page error")
	}
}

func TestView_EditAffordanceOnlyForAuthor(t *testing.T) {
	gwHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/blogs":
			json.NewEncoder(w).Encode(model.Post{ID: "p1", Title: "T", Content: "C", AuthorID: "owner-1"})
		case "/rest/v1/profiles":
			json.NewEncoder(w).Encode(model.Profile{ID: "owner-1", DisplayName: "Owner"})
		}
	}

	f := newFixture(t, gwHandler)
	f.signIn(t, model.User{ID: "owner-1"})
	body := f.do(http.MethodGet, "/blogs/p1", nil).Body.String()
	if !strings.Contains(body, "/blogs/p1/edit") {
		t.Error("author must see the edit affordance")
	}

	f = newFixture(t, gwHandler)
	f.signIn(t, model.User{ID: "someone-else"})
	body = f.do(http.MethodGet, "/blogs/p1", nil).Body.String()
	if strings.Contains(body, "/blogs/p1/edit") {
		t.Error("non-author must not see the edit affordance")
	}
}

func TestView_NotFound(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		json.NewEncoder(w).Encode(map[string]string{"message": "no rows"})
	})
	f.signIn(t, model.User{ID: "u1"})

	rr := f.do(http.MethodGet, "/blogs/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No blog found.") {
		t.Error("expected the not-found message")
	}
}

func TestRegister_PasswordMismatchNeverReachesGateway(t *testing.T) {
	f := newFixture(t, nil)

	form := url.Values{
		"display_name":     {"Alice"},
		"email":            {"a@b.c"},
		"password":         {"secret1"},
		"confirm_password": {"secret2"},
	}
	rr := f.do(http.MethodPost, "/register", form)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Passwords do not match.") {
		t.Error("expected the mismatch message inline")
	}
	if f.store.Snapshot().Auth.User != nil {
		t.Error("no user may be set on a rejected registration")
	}
}

func TestRegister_SuccessShowsConfirmation(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected gateway call: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.Session{
			AccessToken:  freshToken(t),
			RefreshToken: "rt",
			User: model.User{
				ID:       "u1",
				Email:    "a@b.c",
				Metadata: model.UserMetadata{DisplayName: "Alice"},
			},
		})
	})

	form := url.Values{
		"display_name":     {"Alice"},
		"email":            {"a@b.c"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}
	rr := f.do(http.MethodPost, "/register", form)

	if !strings.Contains(rr.Body.String(), "Registration successful!") {
		t.Error("expected the transient success message")
	}
	if u := f.store.Snapshot().Auth.User; u == nil || u.ID != "u1" {
		t.Errorf("store user = %+v after registration", u)
	}
	if f.sessions.Session(f.visitorID) == nil {
		t.Error("expected the gateway session to be installed")
	}
}

func TestLogin_SuccessRedirectsToList(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Session{
			AccessToken: freshToken(t),
			User:        model.User{ID: "u1", Email: "a@b.c"},
		})
	})

	form := url.Values{"email": {"a@b.c"}, "password": {"pw"}}
	assertRedirect(t, f.do(http.MethodPost, "/login", form), "/blogs")

	if u := f.store.Snapshot().Auth.User; u == nil || u.ID != "u1" {
		t.Errorf("store user = %+v after login", u)
	}
}

func TestLogin_FailureStaysWithInlineError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	form := url.Values{"email": {"a@b.c"}, "password": {"bad"}}
	rr := f.do(http.MethodPost, "/login", form)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Invalid login credentials") {
		t.Error("expected the gateway error inline")
	}
	if f.store.Snapshot().Auth.User != nil {
		t.Error("no user may be set on a failed login")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected gateway call: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	f.signIn(t, model.User{ID: "u1"})

	assertRedirect(t, f.do(http.MethodPost, "/logout", nil), "/login?out=1")

	if f.sessions.Session(f.visitorID) != nil {
		t.Error("session survived logout")
	}
	if f.store.Snapshot().Auth.User != nil {
		t.Error("store user survived logout")
	}
}

func TestCreate_SuccessRedirectsToList(t *testing.T) {
	var inserted model.NewPost
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			json.NewEncoder(w).Encode(model.User{ID: "u1"})
		case "/rest/v1/blogs":
			json.NewDecoder(r.Body).Decode(&inserted)
			w.WriteHeader(http.StatusCreated)
		}
	})
	f.signIn(t, model.User{ID: "u1"})

	form := url.Values{"title": {"T"}, "content": {"C"}}
	assertRedirect(t, f.do(http.MethodPost, "/blogs/create", form), "/blogs")

	if inserted.AuthorID != "u1" || inserted.Title != "T" {
		t.Errorf("inserted row = %+v", inserted)
	}
}

func TestCreate_FailureStaysOnPage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			json.NewEncoder(w).Encode(model.User{ID: "u1"})
		case "/rest/v1/blogs":
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "row-level security violation"})
		}
	})
	f.signIn(t, model.User{ID: "u1"})

	form := url.Values{"title": {"T"}, "content": {"C"}}
	rr := f.do(http.MethodPost, "/blogs/create", form)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want the form re-rendered", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "row-level security violation") {
		t.Error("expected the gateway error inline")
	}
}

func TestUpdate_RedirectsToViewPage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	f.signIn(t, model.User{ID: "u1"})

	form := url.Values{"title": {"T2"}, "content": {"C2"}}
	assertRedirect(t, f.do(http.MethodPost, "/blogs/p1/edit", form), "/blogs/p1")
}

func TestDelete_RedirectsToList(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	f.signIn(t, model.User{ID: "u1"})

	assertRedirect(t, f.do(http.MethodPost, "/blogs/p1/delete", nil), "/blogs")

	if f.store.Snapshot().Posts.CurrentPost != nil {
		t.Error("current post must be cleared after delete")
	}
}

func TestNavBar_AffordancesFollowAuthState(t *testing.T) {
	f := newFixture(t, nil)

	body := f.do(http.MethodGet, "/login", nil).Body.String()
	if !strings.Contains(body, "Welcome, Guest") {
		t.Error("anonymous visitors are greeted as Guest")
	}
	if strings.Contains(body, "/logout") {
		t.Error("anonymous visitors must not see the logout affordance")
	}

	f = newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "*/0")
		json.NewEncoder(w).Encode([]model.Post{})
	})
	f.signIn(t, model.User{ID: "u1", Metadata: model.UserMetadata{DisplayName: "Alice"}})
	body = f.do(http.MethodGet, "/blogs", nil).Body.String()
	if !strings.Contains(body, "Welcome, Alice") {
		t.Error("expected the display name in the greeting")
	}
	if !strings.Contains(body, "/blogs/create") || !strings.Contains(body, "/logout") {
		t.Error("authenticated visitors see the create and logout affordances")
	}
}
