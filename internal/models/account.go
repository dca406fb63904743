package models

import "strings"

// Account is the credential record of one user. It is never deleted.
type Account struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required,max=120"`
	PasswordHash   string `json:"passwordHash"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Profile is the caller-supplied part of an Account at signup.
type Profile struct {
	Email          string `validate:"required,email"`
	Name           string `validate:"required,max=120"`
	ProfilePicture string
}

// ProfilePatch carries optional profile updates; nil fields are left as is.
type ProfilePatch struct {
	Name           *string `validate:"omitempty,min=1,max=120"`
	ProfilePicture *string
}

// NormalizeEmail lowercases and trims an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
