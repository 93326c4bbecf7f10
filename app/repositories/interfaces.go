package repositories

import "techblog/app/models"

// Store persists the user and post collections in two independent slots.
// Load methods never fail: unreadable or absent data is an empty collection.
type Store interface {
	LoadUsers() []*models.User
	SaveUsers(users []*models.User) error
	LoadPosts() []*models.Post
	SavePosts(posts []*models.Post) error
	Close() error
}
