package session

import (
	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/store"
)

// BindStores is the root session-change subscription: it mirrors every
// session transition into the owning visitor's auth slice, so the store
// stays in sync no matter where the transition originated (login page,
// sign-out, token refresh, external expiry). The returned unsubscribe
// belongs to application teardown and is safe to call more than once.
func BindStores(m *Manager) (unsubscribe func()) {
	return m.Subscribe(func(_ Event, visitorID string, sess *model.Session) {
		st := m.StoreFor(visitorID)
		if st == nil {
			return
		}
		var user *model.User
		if sess != nil {
			u := sess.User
			user = &u
		}
		st.Dispatch(store.SetUser{User: user})
	})
}
