// Package store holds the client's two state slices, authentication and
// posts, behind pure reducers. Reading never fetches; pages trigger
// fetches explicitly and write the results back through actions.
package store

import (
	"sync"

	"github.com/kingwell47/blogfront/internal/model"
)

// AuthState is the authentication slice.
type AuthState struct {
	User      *model.User
	IsLoading bool
	Error     string
}

// PostsState is the posts slice. Generation counts primary requests so a
// superseded response can be recognized and dropped instead of
// overwriting newer state.
type PostsState struct {
	List        []model.Post
	CurrentPost *model.Post
	Page        int
	PageSize    int
	Total       int
	IsLoading   bool
	Error       string
	Generation  uint64
}

// State is the whole store: two independently-addressable slices.
type State struct {
	Auth  AuthState
	Posts PostsState
}

// NewState returns the initial state for the given page size.
func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = 10
	}
	return State{Posts: PostsState{Page: 1, PageSize: pageSize}}
}

// Action is one member of the closed set of state mutations.
type Action interface{ isAction() }

// SetUser wholesale-replaces the current user (nil for anonymous).
type SetUser struct{ User *model.User }

// SetAuthLoading flags an auth request in flight.
type SetAuthLoading struct{ Loading bool }

// SetAuthError replaces the auth slice's error message ("" clears it).
type SetAuthError struct{ Message string }

// BeginPostsRequest opens a new primary posts request and advances the
// generation; responses carrying an older generation are ignored.
type BeginPostsRequest struct{}

// SetPosts replaces the list and total from a response of the given
// generation.
type SetPosts struct {
	Generation uint64
	Posts      []model.Post
	Total      int
}

// SetCurrentPost replaces the single-post view state from a response of
// the given generation.
type SetCurrentPost struct {
	Generation uint64
	Post       *model.Post
}

// SetPostsError replaces the posts slice's error message ("" clears it)
// for a response of the given generation.
type SetPostsError struct {
	Generation uint64
	Message    string
}

// SetPage replaces the current 1-based page number.
type SetPage struct{ Page int }

// SetPostsLoading flags a posts request in flight.
type SetPostsLoading struct{ Loading bool }

func (SetUser) isAction()           {}
func (SetAuthLoading) isAction()    {}
func (SetAuthError) isAction()      {}
func (BeginPostsRequest) isAction() {}
func (SetPosts) isAction()          {}
func (SetCurrentPost) isAction()    {}
func (SetPostsError) isAction()     {}
func (SetPage) isAction()           {}
func (SetPostsLoading) isAction()   {}

// Reduce applies one action to a state and returns the next state. It
// never mutates its input; every setter is a total replacement of its
// field, with no partial merges and no append semantics.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetUser:
		s.Auth.User = a.User
	case SetAuthLoading:
		s.Auth.IsLoading = a.Loading
	case SetAuthError:
		s.Auth.Error = a.Message
	case BeginPostsRequest:
		s.Posts.Generation++
	case SetPosts:
		if a.Generation == s.Posts.Generation {
			s.Posts.List = a.Posts
			s.Posts.Total = a.Total
		}
	case SetCurrentPost:
		if a.Generation == s.Posts.Generation {
			s.Posts.CurrentPost = a.Post
		}
	case SetPostsError:
		if a.Generation == s.Posts.Generation {
			s.Posts.Error = a.Message
		}
	case SetPage:
		if a.Page >= 1 {
			s.Posts.Page = a.Page
		}
	case SetPostsLoading:
		s.Posts.IsLoading = a.Loading
	}
	return s
}

// Store is a mutex-guarded State with dispatch semantics.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates a store in its initial state.
func New(pageSize int) *Store {
	return &Store{state: NewState(pageSize)}
}

// Dispatch reduces the action into the store and returns the resulting
// state snapshot.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
