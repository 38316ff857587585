package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/service"
	"github.com/kingwell47/blogfront/internal/store"
)

type postItem struct {
	ID      string
	Title   string
	Author  string
	Created string
}

type listPage struct {
	Title      string
	Nav        navData
	IsLoading  bool
	Error      string
	Posts      []postItem
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
	CanPrev    bool
	CanNext    bool
}

type viewPage struct {
	Title      string
	Nav        navData
	Error      string
	NotFound   bool
	Post       *model.Post
	AuthorName string
	Created    string
	IsOwner    bool
}

type editorPage struct {
	Title       string
	Nav         navData
	Heading     string
	Action      string
	PostID      string
	FormTitle   string
	FormContent string
	Error       string
	NotFound    bool
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)

	page := st.Snapshot().Posts.Page
	if q := r.URL.Query().Get("page"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n >= 1 {
			page = n
		}
	}
	snap := st.Dispatch(store.SetPage{Page: page})

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	from, to := store.RowRange(page, snap.Posts.PageSize)
	token := h.token(r)
	posts, total, err := h.blogs.ListPosts(r.Context(), token, gateway.RowRange{From: from, To: to})
	if err != nil {
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
	} else {
		st.Dispatch(store.SetPosts{Generation: gen, Posts: posts, Total: total})
	}
	st.Dispatch(store.SetPostsLoading{Loading: false})

	// Author names are best-effort and must never fail the page.
	names := h.blogs.ResolveAuthors(r.Context(), token, posts)

	snap = st.Snapshot()
	data := listPage{
		Title:      "Blog Posts",
		Nav:        h.nav(st),
		IsLoading:  snap.Posts.IsLoading,
		Error:      snap.Posts.Error,
		Page:       snap.Posts.Page,
		TotalPages: snap.Posts.TotalPages(),
		PrevPage:   snap.Posts.Page - 1,
		NextPage:   snap.Posts.Page + 1,
		CanPrev:    snap.Posts.CanPrev(),
		CanNext:    snap.Posts.CanNext(),
	}
	for _, p := range snap.Posts.List {
		data.Posts = append(data.Posts, postItem{
			ID:      p.ID,
			Title:   p.Title,
			Author:  authorLabel(names, p.AuthorID),
			Created: p.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	h.render(w, http.StatusOK, "list.html", data)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	id := chi.URLParam(r, "id")
	token := h.token(r)

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	post, err := h.blogs.GetPost(r.Context(), token, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		st.Dispatch(store.SetCurrentPost{Generation: gen})
		st.Dispatch(store.SetPostsLoading{Loading: false})
		h.render(w, http.StatusNotFound, "view.html", viewPage{
			Title:    "Not Found",
			Nav:      h.nav(st),
			NotFound: true,
		})
		return
	case err != nil:
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
		st.Dispatch(store.SetPostsLoading{Loading: false})
		h.render(w, http.StatusOK, "view.html", viewPage{
			Title: "Blog",
			Nav:   h.nav(st),
			Error: st.Snapshot().Posts.Error,
		})
		return
	}

	st.Dispatch(store.SetCurrentPost{Generation: gen, Post: &post})
	st.Dispatch(store.SetPostsLoading{Loading: false})

	// Secondary lookup: a failure degrades the byline, never the page.
	names := h.blogs.ResolveAuthors(r.Context(), token, []model.Post{post})

	sess := h.session(r)
	h.render(w, http.StatusOK, "view.html", viewPage{
		Title:      post.Title,
		Nav:        h.nav(st),
		Post:       &post,
		AuthorName: authorLabel(names, post.AuthorID),
		Created:    post.CreatedAt.Format("Jan 2, 2006 15:04"),
		IsOwner:    sess != nil && sess.User.ID == post.AuthorID,
	})
}

func (h *Handler) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	h.render(w, http.StatusOK, "create.html", editorPage{
		Title:   "Create New Blog",
		Nav:     h.nav(st),
		Heading: "Create New Blog",
		Action:  "/blogs/create",
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	form := postFormFrom(r)

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	err := validatePostForm(form)
	if err == nil {
		err = h.blogs.CreatePost(r.Context(), h.session(r), form)
	}
	if err != nil {
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
		st.Dispatch(store.SetPostsLoading{Loading: false})
		h.render(w, http.StatusOK, "create.html", editorPage{
			Title:       "Create New Blog",
			Nav:         h.nav(st),
			Heading:     "Create New Blog",
			Action:      "/blogs/create",
			FormTitle:   form.Title,
			FormContent: form.Content,
			Error:       st.Snapshot().Posts.Error,
		})
		return
	}

	st.Dispatch(store.SetPostsLoading{Loading: false})
	http.Redirect(w, r, "/blogs", http.StatusSeeOther)
}

func (h *Handler) handleEditForm(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	id := chi.URLParam(r, "id")

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	post, err := h.blogs.GetPost(r.Context(), h.token(r), id)
	st.Dispatch(store.SetPostsLoading{Loading: false})
	if errors.Is(err, service.ErrNotFound) {
		st.Dispatch(store.SetCurrentPost{Generation: gen})
		h.render(w, http.StatusNotFound, "edit.html", editorPage{
			Title:    "Not Found",
			Nav:      h.nav(st),
			NotFound: true,
		})
		return
	}
	if err != nil {
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
		h.render(w, http.StatusOK, "edit.html", editorPage{
			Title: "Edit Blog",
			Nav:   h.nav(st),
			Error: st.Snapshot().Posts.Error,
		})
		return
	}

	st.Dispatch(store.SetCurrentPost{Generation: gen, Post: &post})
	h.render(w, http.StatusOK, "edit.html", editorPage{
		Title:       "Edit Blog",
		Nav:         h.nav(st),
		Heading:     "Edit Blog",
		Action:      "/blogs/" + post.ID + "/edit",
		PostID:      post.ID,
		FormTitle:   post.Title,
		FormContent: post.Content,
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	id := chi.URLParam(r, "id")
	form := postFormFrom(r)

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	err := validatePostForm(form)
	if err == nil {
		err = h.blogs.UpdatePost(r.Context(), h.session(r), id, form)
	}
	st.Dispatch(store.SetPostsLoading{Loading: false})
	if err != nil {
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
		h.render(w, http.StatusOK, "edit.html", editorPage{
			Title:       "Edit Blog",
			Nav:         h.nav(st),
			Heading:     "Edit Blog",
			Action:      "/blogs/" + id + "/edit",
			PostID:      id,
			FormTitle:   form.Title,
			FormContent: form.Content,
			Error:       st.Snapshot().Posts.Error,
		})
		return
	}

	http.Redirect(w, r, "/blogs/"+id, http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	st := h.store(r)
	id := chi.URLParam(r, "id")

	gen := st.Dispatch(store.BeginPostsRequest{}).Posts.Generation
	st.Dispatch(store.SetPostsLoading{Loading: true})
	st.Dispatch(store.SetPostsError{Generation: gen})

	err := h.blogs.DeletePost(r.Context(), h.session(r), id)
	st.Dispatch(store.SetPostsLoading{Loading: false})
	if err != nil {
		st.Dispatch(store.SetPostsError{Generation: gen, Message: err.Error()})
		slog.Error("delete failed", "post", id, "error", err)
		h.render(w, http.StatusOK, "edit.html", editorPage{
			Title:   "Edit Blog",
			Nav:     h.nav(st),
			Heading: "Edit Blog",
			Action:  "/blogs/" + id + "/edit",
			PostID:  id,
			Error:   st.Snapshot().Posts.Error,
		})
		return
	}

	st.Dispatch(store.SetCurrentPost{Generation: gen})
	http.Redirect(w, r, "/blogs", http.StatusSeeOther)
}

func postFormFrom(r *http.Request) model.PostForm {
	return model.PostForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
}

func validatePostForm(form model.PostForm) error {
	if form.Title == "" || form.Content == "" {
		return &service.ValidationError{Message: "Title and content are required."}
	}
	return nil
}

// authorLabel prefers a resolved display name and falls back to the raw
// author identifier.
func authorLabel(names map[string]string, authorID string) string {
	if name, ok := names[authorID]; ok {
		return name
	}
	return authorID
}
