package model

// SignUpRequest is a registration form submission.
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginRequest is a login form submission.
type LoginRequest struct {
	Email    string
	Password string
}

// PostForm is a create/edit form submission.
type PostForm struct {
	Title   string
	Content string
}
