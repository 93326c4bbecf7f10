package models

import (
	"errors"
	"strings"
	"time"
)

// MaxTags is the most tags a post can carry.
const MaxTags = 10

// DefaultTitle is used when a new post is saved without a title.
const DefaultTitle = "Untitled"

var ErrInvalidStatus = errors.New("status must be draft or published")

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Created.IsZero() {
		return errors.New("created cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// Normalize repairs fields of a stored post that older or hand-edited data
// may leave unset: an unknown status becomes draft, missing tags become an
// empty list and a negative like count becomes zero.
func (p *Post) Normalize() {
	if p.Status != StatusDraft && p.Status != StatusPublished {
		p.Status = StatusDraft
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
}

// LastActivity is the time the post was last edited, or its creation time.
func (p *Post) LastActivity() time.Time {
	if p.Updated != nil {
		return *p.Updated
	}
	return p.Created
}

// Matches reports whether the lowercase query occurs in the title, excerpt,
// content, author or space-joined tags. An empty query matches every post.
func (p *Post) Matches(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Excerpt, p.Content, p.Author, strings.Join(p.Tags, " ")} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with p.
func (p *Post) Clone() *Post {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	if p.Updated != nil {
		u := *p.Updated
		c.Updated = &u
	}
	return &c
}

// CleanTags splits comma separated text into trimmed, non-empty tags and
// keeps the first MaxTags of them.
func CleanTags(text string) []string {
	tags := []string{}
	for _, t := range strings.Split(text, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		tags = append(tags, t)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

// ParseStatus maps user input to a Status. Empty input means draft.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", ErrInvalidStatus
}
