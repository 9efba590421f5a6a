package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account as persisted under the "users" key.
// PasswordHash is a bcrypt hash; plaintext passwords are never stored.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	Name           string    `json:"name,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the editable snapshot of the logged-in user cached under
// the "logged_in_user" key so screens can read it without scanning the
// full account set.
type Profile struct {
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Gender         string `json:"gender,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ProfileOf extracts the editable snapshot from an account.
func ProfileOf(u User) Profile {
	return Profile{
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Address:        u.Address,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
	}
}
