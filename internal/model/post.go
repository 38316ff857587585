// Package model holds the wire and form types shared across the client:
// posts, users, sessions, and the submissions the pages accept.
package model

import "time"

// Post is one row of the blogs table as the gateway returns it.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost is the insert payload for a post. The gateway assigns the ID
// and creation time.
type NewPost struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}

// PostPatch carries the columns an edit may change.
type PostPatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Profile is the public profile row keyed by user ID, used to resolve
// author display names.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
