package services

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"techblog/app/models"
	"techblog/app/repositories"

	"github.com/sirupsen/logrus"
)

// MaxCloudTags caps the number of tags returned by Tags.
const MaxCloudTags = 30

var (
	ErrNoActiveUser = errors.New("please create and select a user first")
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalid      = errors.New("invalid input")
)

// PostInput carries the editable fields of a post. Tags is the raw comma
// separated text from the editor.
type PostInput struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
	Status  string `json:"status"`
}

// Blog owns the users, the posts and the active user, and mirrors every
// change to its Store. A mutation is committed in memory only after the
// store accepted the write.
type Blog struct {
	store  repositories.Store
	users  []*models.User
	posts  []*models.Post
	active *models.User
	now    func() time.Time
	mutex  sync.RWMutex
}

// NewBlog loads both collections from store. The first user, if any,
// becomes the active user.
func NewBlog(store repositories.Store) *Blog {
	b := &Blog{
		store: store,
		users: store.LoadUsers(),
		posts: store.LoadPosts(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, p := range b.posts {
		p.Normalize()
	}
	if len(b.users) > 0 {
		b.active = b.users[0]
	}
	logrus.WithFields(logrus.Fields{
		"users": len(b.users),
		"posts": len(b.posts),
	}).Debug("blog state loaded")
	return b
}

// Users

// CreateUser adds a user and makes it the active user.
func (b *Blog) CreateUser(name, email, bio string) (*models.User, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	u, err := b.addUser(name, email, bio)
	if err != nil {
		return nil, err
	}
	b.active = u
	return u, nil
}

// SetActiveUser selects the author for new posts. An unknown id clears
// the selection and reports false.
func (b *Blog) SetActiveUser(id string) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.active = b.findUser(id)
	return b.active != nil
}

// ActiveUser returns the selected author, or nil.
func (b *Blog) ActiveUser() *models.User {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.active
}

// Users returns all users in creation order.
func (b *Blog) Users() []*models.User {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return slices.Clone(b.users)
}

// User looks a user up by id.
func (b *Blog) User(id string) (*models.User, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if u := b.findUser(id); u != nil {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// Posts

// SavePost creates a post when existingID is empty, otherwise it updates
// the editable fields of that post and stamps Updated. Creation requires
// an active user.
func (b *Blog) SavePost(existingID string, in PostInput) (*models.Post, error) {
	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := b.now()
	if existingID == "" {
		return b.createPost(now, in, status)
	}

	i := b.indexOfPost(existingID)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	p := b.posts[i].Clone()
	p.Title = in.Title
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.Tags = models.CleanTags(in.Tags)
	p.Status = status
	p.Updated = &now

	if err := b.replacePost(i, p); err != nil {
		return nil, err
	}
	logrus.WithField("post", p.ID).Info("post updated")
	return p.Clone(), nil
}

// Like adds one like to the post.
func (b *Blog) Like(id string) (*models.Post, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	i := b.indexOfPost(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	p := b.posts[i].Clone()
	p.Likes++
	if err := b.replacePost(i, p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Delete removes the post.
func (b *Blog) Delete(id string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	i := b.indexOfPost(id)
	if i < 0 {
		return ErrPostNotFound
	}
	posts := slices.Delete(slices.Clone(b.posts), i, i+1)
	if err := b.commitPosts(posts); err != nil {
		return err
	}
	logrus.WithField("post", id).Info("post deleted")
	return nil
}

// Post looks a post up by id.
func (b *Blog) Post(id string) (*models.Post, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	i := b.indexOfPost(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	return b.posts[i].Clone(), nil
}

// Posts returns every post, most recently edited or created first.
func (b *Blog) Posts() []*models.Post {
	return b.Search("")
}

// Search returns the posts matching query case-insensitively, most recent
// first. An empty query matches every post.
func (b *Blog) Search(query string) []*models.Post {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	list := make([]*models.Post, 0, len(b.posts))
	for _, p := range b.posts {
		if p.Matches(query) {
			list = append(list, p.Clone())
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].LastActivity().After(list[j].LastActivity())
	})
	return list
}

// Tags returns the distinct tags across all posts in discovery order,
// capped at MaxCloudTags.
func (b *Blog) Tags() []string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range b.posts {
		for _, t := range p.Tags {
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
			if len(tags) == MaxCloudTags {
				return tags
			}
		}
	}
	return tags
}

// Helpers; callers hold the write lock.

func (b *Blog) addUser(name, email, bio string) (*models.User, error) {
	u := &models.User{
		ID:      b.uniqueUserID(),
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Bio:     strings.TrimSpace(bio),
		Created: b.now(),
	}
	u.BeforeCreate()
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	users := append(slices.Clone(b.users), u)
	if err := b.store.SaveUsers(users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	b.users = users
	logrus.WithFields(logrus.Fields{"user": u.ID, "name": u.Name}).Info("user created")
	return u, nil
}

func (b *Blog) createPost(now time.Time, in PostInput, status models.Status) (*models.Post, error) {
	if b.active == nil {
		return nil, ErrNoActiveUser
	}
	p := &models.Post{
		ID:       b.uniquePostID(now),
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Tags:     models.CleanTags(in.Tags),
		Author:   b.active.Name,
		AuthorID: b.active.ID,
		Created:  now,
		Status:   status,
	}
	p.BeforeCreate()
	if err := b.appendPost(p); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"post": p.ID, "status": p.Status}).Info("post created")
	return p.Clone(), nil
}

func (b *Blog) appendPost(p *models.Post) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return b.commitPosts(append(slices.Clone(b.posts), p))
}

func (b *Blog) replacePost(i int, p *models.Post) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	posts := slices.Clone(b.posts)
	posts[i] = p
	return b.commitPosts(posts)
}

func (b *Blog) commitPosts(posts []*models.Post) error {
	if err := b.store.SavePosts(posts); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	b.posts = posts
	return nil
}

func (b *Blog) findUser(id string) *models.User {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (b *Blog) indexOfPost(id string) int {
	return slices.IndexFunc(b.posts, func(p *models.Post) bool { return p.ID == id })
}

func (b *Blog) uniqueUserID() string {
	for {
		id := models.NewUserID(b.now())
		if b.findUser(id) == nil {
			return id
		}
	}
}

func (b *Blog) uniquePostID(now time.Time) string {
	for {
		id := models.NewPostID(now)
		if b.indexOfPost(id) < 0 {
			return id
		}
	}
}
