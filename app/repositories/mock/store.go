package mock

import (
	"encoding/json"
	"errors"
	"sync"

	"techblog/app/models"
)

// ErrWriteFailed is returned by Save* while FailWrites is set.
var ErrWriteFailed = errors.New("mock store: write failed")

// Store keeps the two collections as JSON in memory, so callers can never
// alias what was saved.
type Store struct {
	users      []byte
	posts      []byte
	mutex      sync.RWMutex
	FailWrites bool
	Saves      int
}

func NewStore() *Store {
	return &Store{}
}

func (m *Store) LoadUsers() []*models.User {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := []*models.User{}
	if len(m.users) > 0 {
		if err := json.Unmarshal(m.users, &users); err != nil {
			return []*models.User{}
		}
	}
	return users
}

func (m *Store) SaveUsers(users []*models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailWrites {
		return ErrWriteFailed
	}
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	m.users = data
	m.Saves++
	return nil
}

func (m *Store) LoadPosts() []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	if len(m.posts) > 0 {
		if err := json.Unmarshal(m.posts, &posts); err != nil {
			return []*models.Post{}
		}
	}
	return posts
}

func (m *Store) SavePosts(posts []*models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailWrites {
		return ErrWriteFailed
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	m.posts = data
	m.Saves++
	return nil
}

// SetRaw replaces the stored bytes of both slots, e.g. with corrupt data.
func (m *Store) SetRaw(users, posts string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.users = []byte(users)
	m.posts = []byte(posts)
}

func (m *Store) Close() error {
	return nil
}
