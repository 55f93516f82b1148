package models

import "time"

// User represents a platform account as returned by the WiseTech API.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username,omitempty"`
	FullName     string     `json:"full_name"`
	Bio          string     `json:"bio,omitempty"`
	ProfilePhoto string     `json:"profile_photo,omitempty"`
	IsAdmin      bool       `json:"is_admin"`
	JoinedDate   *time.Time `json:"joined_date,omitempty"`

	// ReviewCount is merged in by the admin list retrieval; the profile
	// endpoints do not populate it.
	ReviewCount int `json:"review_count,omitempty"`
}

// DisplayName returns the name shown in the UI, falling back to the email
// when the account has no full name.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Role returns the legacy role string derived from the admin flag.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// UserCreate is the payload for registration and admin user creation.
type UserCreate struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"is_admin,omitempty"`
}

// UserUpdate is the payload for profile and admin user edits. Nil fields are
// omitted so the API only touches what the caller set.
type UserUpdate struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}
