package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"techblog/app/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// MaxImageBytes bounds the size of an attached image.
const MaxImageBytes = 5 << 20

var (
	ErrImageTooLarge = errors.New("image is too large")
	ErrNotAnImage    = errors.New("file is not an image")
)

// ImageReference reads an image and returns the markdown snippet that embeds
// it as a data URL, surrounded by blank lines.
func ImageReference(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mtype.String())
	}

	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" {
		name = "image"
	}
	url := "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	return "\n\n![" + name + "](" + url + ")\n\n", nil
}

// AttachImage appends an image reference to the content of a post. The file
// is read before the blog is locked.
func (b *Blog) AttachImage(id, filename string, r io.Reader) (*models.Post, error) {
	ref, err := ImageReference(filename, r)
	if err != nil {
		return nil, err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	i := b.indexOfPost(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	p := b.posts[i].Clone()
	p.Content += ref
	now := b.now()
	p.Updated = &now
	if err := b.replacePost(i, p); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"post": id, "bytes": len(ref)}).Info("image attached")
	return p.Clone(), nil
}
