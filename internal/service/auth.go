package service

import (
	"context"

	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/model"
)

// AuthService delegates the three auth operations to the gateway and
// surfaces its errors verbatim inside RemoteError.
type AuthService struct {
	gw *gateway.Client
}

// NewAuthService creates an AuthService over the given gateway client.
func NewAuthService(gw *gateway.Client) *AuthService {
	return &AuthService{gw: gw}
}

// Register creates a new account. The returned session is nil when the
// gateway defers it pending confirmation.
func (s *AuthService) Register(ctx context.Context, req model.SignUpRequest) (model.User, *model.Session, error) {
	user, sess, err := s.gw.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return model.User{}, nil, remoteErr("register", err)
	}
	return user, sess, nil
}

// Authenticate exchanges credentials for a session.
func (s *AuthService) Authenticate(ctx context.Context, req model.LoginRequest) (*model.Session, error) {
	sess, err := s.gw.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, remoteErr("login", err)
	}
	return sess, nil
}

// Deauthenticate invalidates the session at the gateway.
func (s *AuthService) Deauthenticate(ctx context.Context, sess *model.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.gw.SignOut(ctx, sess.AccessToken); err != nil {
		return remoteErr("logout", err)
	}
	return nil
}
