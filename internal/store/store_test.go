package store

import (
	"testing"

	"github.com/kingwell47/blogfront/internal/model"
)

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := NewState(10)
	user := &model.User{ID: "u1"}

	after := Reduce(before, SetUser{User: user})

	if before.Auth.User != nil {
		t.Error("input state was mutated by Reduce")
	}
	if after.Auth.User != user {
		t.Error("expected user to be set on the returned state")
	}
}

func TestReduce_SetPostsReplacesWholesale(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, BeginPostsRequest{})
	gen := s.Posts.Generation

	s = Reduce(s, SetPosts{Generation: gen, Posts: []model.Post{{ID: "a"}, {ID: "b"}}, Total: 12})
	s = Reduce(s, BeginPostsRequest{})
	s = Reduce(s, SetPosts{Generation: s.Posts.Generation, Posts: []model.Post{{ID: "c"}}, Total: 1})

	if len(s.Posts.List) != 1 || s.Posts.List[0].ID != "c" {
		t.Errorf("expected list to be replaced wholesale, got %v", s.Posts.List)
	}
	if s.Posts.Total != 1 {
		t.Errorf("expected total 1, got %d", s.Posts.Total)
	}
}

func TestReduce_StaleGenerationIgnored(t *testing.T) {
	s := NewState(10)

	s = Reduce(s, BeginPostsRequest{})
	stale := s.Posts.Generation
	s = Reduce(s, BeginPostsRequest{})
	current := s.Posts.Generation

	s = Reduce(s, SetPosts{Generation: current, Posts: []model.Post{{ID: "new"}}, Total: 1})
	s = Reduce(s, SetPosts{Generation: stale, Posts: []model.Post{{ID: "old"}}, Total: 99})

	if len(s.Posts.List) != 1 || s.Posts.List[0].ID != "new" {
		t.Errorf("stale response overwrote newer state: %v", s.Posts.List)
	}
	if s.Posts.Total != 1 {
		t.Errorf("stale total applied: %d", s.Posts.Total)
	}

	s = Reduce(s, SetPostsError{Generation: stale, Message: "boom"})
	if s.Posts.Error != "" {
		t.Errorf("stale error applied: %q", s.Posts.Error)
	}
}

func TestReduce_SetPageRejectsBelowOne(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, SetPage{Page: 3})
	s = Reduce(s, SetPage{Page: 0})

	if s.Posts.Page != 3 {
		t.Errorf("expected page 3, got %d", s.Posts.Page)
	}
}

func TestReduce_AuthSliceIndependentOfPosts(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, SetAuthError{Message: "login failed"})
	s = Reduce(s, BeginPostsRequest{})
	s = Reduce(s, SetPostsError{Generation: s.Posts.Generation, Message: "load failed"})

	if s.Auth.Error != "login failed" {
		t.Errorf("auth error clobbered: %q", s.Auth.Error)
	}
	if s.Posts.Error != "load failed" {
		t.Errorf("posts error wrong: %q", s.Posts.Error)
	}

	s = Reduce(s, SetAuthError{})
	if s.Auth.Error != "" {
		t.Error("expected empty message to clear the auth error")
	}
}

func TestStore_DispatchReturnsSnapshot(t *testing.T) {
	st := New(10)

	snap := st.Dispatch(BeginPostsRequest{})
	if snap.Posts.Generation != 1 {
		t.Errorf("expected generation 1, got %d", snap.Posts.Generation)
	}

	snap = st.Dispatch(BeginPostsRequest{})
	if snap.Posts.Generation != 2 {
		t.Errorf("expected generation 2, got %d", snap.Posts.Generation)
	}
	if st.Snapshot().Posts.Generation != 2 {
		t.Error("snapshot disagrees with dispatch result")
	}
}
