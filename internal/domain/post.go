package domain

import "time"

// Post is a piece of user content. OwnerID references the authoring account;
// update and delete are restricted to the owner.
type Post struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imgUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostDraft carries the caller-supplied fields for creating or updating a post.
type PostDraft struct {
	Content  string `json:"content"`
	ImageURL string `json:"imgUrl,omitempty"`
}
