// Package models defines server-side data models persisted in the database.
package models

import "time"

// UserType is fixed at registration.
type UserType int

const (
	UserTypeFan      UserType = 0
	UserTypeStreamer UserType = 1
)

func (t UserType) String() string {
	switch t {
	case UserTypeFan:
		return "fan"
	case UserTypeStreamer:
		return "streamer"
	default:
		return "unknown"
	}
}

func (t UserType) Valid() bool {
	return t == UserTypeFan || t == UserTypeStreamer
}

// UserState is set to new on registration; approval happens elsewhere.
type UserState int

const (
	UserStateNew      UserState = 0
	UserStateApproved UserState = 1
)

// User is the credential record. Salt and PasswordHash are written once,
// together, at registration and must never leave the server.
type User struct {
	ID           string
	Email        string
	UserName     string
	PasswordHash string
	Salt         string
	Type         UserType
	State        UserState
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Profile is the part of a User that may be shown to its owner.
type Profile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	UserName    string     `json:"username"`
	Type        UserType   `json:"type"`
	State       UserState  `json:"state"`
	CreatedAt   time.Time  `json:"created_on"`
	LastLoginAt *time.Time `json:"last_login,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		UserName:    u.UserName,
		Type:        u.Type,
		State:       u.State,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
