package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// User is a locally stored author profile.
type User struct {
	ID      string    `json:"id" validate:"required"`
	Name    string    `json:"name" validate:"required"`
	Email   string    `json:"email" validate:"omitempty,email"`
	Bio     string    `json:"bio"`
	Created time.Time `json:"created"`
}

// Post represents a blog post. Author and AuthorID are copied from the
// active user when the post is created and never follow later renames.
type Post struct {
	ID       string     `json:"id" validate:"required"`
	Title    string     `json:"title"`
	Excerpt  string     `json:"excerpt"`
	Content  string     `json:"content"`
	Tags     []string   `json:"tags" validate:"max=10,dive,required"`
	Author   string     `json:"author"`
	AuthorID string     `json:"authorId"`
	Created  time.Time  `json:"created"`
	Updated  *time.Time `json:"updated"`
	Status   Status     `json:"status" validate:"oneof=draft published"`
	Likes    int        `json:"likes" validate:"gte=0"`
}
