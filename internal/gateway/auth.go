package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kingwell47/blogfront/internal/model"
)

type signUpBody struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Data     model.UserMetadata `json:"data"`
}

// signUpResponse covers both shapes the auth API returns from sign-up:
// a full session when the account is active immediately, or a bare user
// when confirmation is still pending.
type signUpResponse struct {
	model.Session
	ID       string             `json:"id"`
	Email    string             `json:"email"`
	Metadata model.UserMetadata `json:"user_metadata"`
}

// SignUp registers a new account. The display name travels in the user
// metadata payload. The returned session is nil when the gateway requires
// confirmation before issuing one.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (model.User, *model.Session, error) {
	body := signUpBody{
		Email:    email,
		Password: password,
		Data:     model.UserMetadata{DisplayName: displayName},
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", nil, "", body)
	if err != nil {
		return model.User{}, nil, err
	}

	var out signUpResponse
	if _, err := c.do(req, &out); err != nil {
		return model.User{}, nil, err
	}

	if out.AccessToken != "" {
		sess := out.Session
		return sess.User, &sess, nil
	}
	user := model.User{ID: out.ID, Email: out.Email, Metadata: out.Metadata}
	return user, nil, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token", q, "", body)
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if _, err := c.do(req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*model.Session, error) {
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token", q, "", body)
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if _, err := c.do(req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignOut invalidates the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

// User fetches the user behind the access token fresh from the gateway.
func (c *Client) User(ctx context.Context, accessToken string) (model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, nil)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if _, err := c.do(req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}
