package models

import (
	"errors"
	"strings"
	"time"
)

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return err
	}
	if u.Created.IsZero() {
		return errors.New("created cannot be zero")
	}
	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	if u.Created.IsZero() {
		u.Created = time.Now().UTC()
	}
}

// Initials returns up to two uppercase initials of the user's name.
func (u *User) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(u.Name) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
