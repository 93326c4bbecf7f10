package models

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewUserID returns an id of the form u_<unix millis>_<6 chars>.
func NewUserID(now time.Time) string {
	return newID("u", now, 6)
}

// NewPostID returns an id of the form p_<unix millis>_<4 chars>.
func NewPostID(now time.Time) string {
	return newID("p", now, 4)
}

func newID(prefix string, now time.Time, size int) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), gonanoid.MustGenerate(idAlphabet, size))
}
