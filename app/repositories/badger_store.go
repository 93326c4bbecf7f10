package repositories

import (
	"errors"
	"fmt"
	"io"

	"techblog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerStore implements Store on top of BadgerDB. Each collection is one
// JSON array stored under its own key.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens the database at path. An empty path opens an
// in-memory database, which is what the tests use.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) LoadUsers() []*models.User {
	return loadSlot[models.User](s, UsersKey)
}

func (s *BadgerStore) SaveUsers(users []*models.User) error {
	return s.save(UsersKey, users)
}

func (s *BadgerStore) LoadPosts() []*models.Post {
	return loadSlot[models.Post](s, PostsKey)
}

func (s *BadgerStore) SavePosts(posts []*models.Post) error {
	return s.save(PostsKey, posts)
}

// Backup writes a full backup of the database to w.
func (s *BadgerStore) Backup(w io.Writer) error {
	_, err := s.db.Backup(w, 0)
	return err
}

// Restore loads a backup produced by Backup.
func (s *BadgerStore) Restore(r io.Reader) error {
	return s.db.Load(r, 4)
}

func (s *BadgerStore) save(key string, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// loadSlot reads one collection. Missing keys, read failures and bad JSON
// all yield an empty, non-nil slice; nil elements are dropped.
func loadSlot[T any](s *BadgerStore, key string) []*T {
	var items []*T
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &items)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logrus.WithError(err).WithField("key", key).Warn("discarding unreadable collection")
		}
		return []*T{}
	}

	out := make([]*T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}
