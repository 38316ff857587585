// Package service holds the data access functions: thin wrappers that
// each issue one gateway call and map the response, or its failure, into
// the closed error set the pages understand.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/model"
)

const (
	postsTable    = "blogs"
	profilesTable = "profiles"
)

// BlogService exposes the post and profile operations.
type BlogService struct {
	gw *gateway.Client
}

// NewBlogService creates a BlogService over the given gateway client.
func NewBlogService(gw *gateway.Client) *BlogService {
	return &BlogService{gw: gw}
}

// ListPosts fetches one page of posts ordered by creation time, newest
// first, along with the exact total row count.
func (s *BlogService) ListPosts(ctx context.Context, token string, rng gateway.RowRange) ([]model.Post, int, error) {
	var posts []model.Post
	total, err := s.gw.Select(ctx, token, postsTable, gateway.SelectOptions{
		OrderBy:    "created_at",
		Descending: true,
		Range:      &rng,
		ExactCount: true,
	}, &posts)
	if err != nil {
		return nil, 0, remoteErr("list posts", err)
	}
	if total < 0 {
		total = len(posts)
	}
	return posts, total, nil
}

// GetPost fetches exactly one post by ID. Zero or multiple matches fail
// with ErrNotFound.
func (s *BlogService) GetPost(ctx context.Context, token, id string) (model.Post, error) {
	var post model.Post
	_, err := s.gw.Select(ctx, token, postsTable, gateway.SelectOptions{
		Filter: map[string]string{"id": id},
		Single: true,
	}, &post)
	if errors.Is(err, gateway.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, remoteErr("fetch post", err)
	}
	return post, nil
}

// CreatePost inserts a new post authored by the session's user. The user
// is fetched fresh from the gateway rather than trusted from local state;
// without a valid session the call fails with ErrAuthRequired.
func (s *BlogService) CreatePost(ctx context.Context, sess *model.Session, form model.PostForm) error {
	if sess == nil {
		return ErrAuthRequired
	}

	user, err := s.gw.User(ctx, sess.AccessToken)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return ErrAuthRequired
		}
		return remoteErr("create post", err)
	}

	row := model.NewPost{Title: form.Title, Content: form.Content, AuthorID: user.ID}
	if err := s.gw.Insert(ctx, sess.AccessToken, postsTable, row); err != nil {
		return remoteErr("create post", err)
	}
	return nil
}

// UpdatePost replaces the title and content of the post with the given
// ID. Authorship is not checked here: the gateway is the authorization
// boundary and rejects updates by non-authors.
func (s *BlogService) UpdatePost(ctx context.Context, sess *model.Session, id string, form model.PostForm) error {
	if sess == nil {
		return ErrAuthRequired
	}
	patch := model.PostPatch{Title: form.Title, Content: form.Content}
	if err := s.gw.Update(ctx, sess.AccessToken, postsTable, id, patch); err != nil {
		return remoteErr("update post", err)
	}
	return nil
}

// DeletePost removes the post with the given ID.
func (s *BlogService) DeletePost(ctx context.Context, sess *model.Session, id string) error {
	if sess == nil {
		return ErrAuthRequired
	}
	if err := s.gw.Delete(ctx, sess.AccessToken, postsTable, id); err != nil {
		return remoteErr("delete post", err)
	}
	return nil
}

// ResolveAuthors looks up the display name of every distinct author in
// posts, concurrently. It is best-effort by contract: a failed lookup is
// simply absent from the returned map and the caller falls back to the
// raw author ID. The fan-out is bounded by the page size.
func (s *BlogService) ResolveAuthors(ctx context.Context, token string, posts []model.Post) map[string]string {
	ids := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if p.AuthorID != "" {
			ids[p.AuthorID] = struct{}{}
		}
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		names = make(map[string]string, len(ids))
	)
	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			var prof model.Profile
			_, err := s.gw.Select(ctx, token, profilesTable, gateway.SelectOptions{
				Filter: map[string]string{"id": id},
				Single: true,
			}, &prof)
			if err != nil {
				slog.Debug("author lookup failed, falling back to id", "author", id, "error", err)
				return
			}
			if prof.DisplayName == "" {
				return
			}
			mu.Lock()
			names[id] = prof.DisplayName
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return names
}
