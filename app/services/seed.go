package services

import (
	"fmt"

	"techblog/app/models"
)

// DemoPostID is the id of the post added by Seed.
const DemoPostID = "p_demo_1"

var seedUsers = []struct{ name, email, bio string }{
	{"Ada Lovelace", "ada@example.com", "Tech writer"},
	{"Linus Torvalds", "linus@example.com", "Kernel tinkerer"},
}

// Seed fills an empty blog with two users and a welcome post. Collections
// that already hold data are left alone. The first user ends up active.
func (b *Blog) Seed() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.users) == 0 {
		for _, su := range seedUsers {
			if _, err := b.addUser(su.name, su.email, su.bio); err != nil {
				return fmt.Errorf("seed users: %w", err)
			}
		}
	}

	if len(b.posts) == 0 {
		author := b.users[0]
		demo := &models.Post{
			ID:       DemoPostID,
			Title:    "Welcome to TechBlog",
			Excerpt:  "A demo post to show how the platform works",
			Content:  "# Hello\nThis is a **demo** post. Write markdown on the left and it will appear here.",
			Tags:     []string{"demo", "welcome"},
			Author:   author.Name,
			AuthorID: author.ID,
			Created:  b.now(),
			Status:   models.StatusPublished,
			Likes:    7,
		}
		if err := b.appendPost(demo); err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}

	b.active = b.users[0]
	return nil
}
