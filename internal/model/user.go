package model

// UserMetadata is the free-form metadata blob the gateway attaches to a
// user at sign-up. The client only ever reads the display name out of it.
type UserMetadata struct {
	DisplayName string `json:"display_name,omitempty"`
}

// User is the client's snapshot of a gateway-managed identity.
type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

// DisplayName returns the user's display name, or the empty string when
// none was set at registration.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return u.Metadata.DisplayName
}

// Session is a gateway-issued session: an access token, the refresh token
// that can replace it, and the user it belongs to. The client treats the
// access token as opaque except for its expiry claim.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
