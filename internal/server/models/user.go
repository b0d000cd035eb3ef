// Package models defines server-side data models persisted in the database.
package models

import "time"

// DefaultImgURL is assigned to freshly registered users.
const DefaultImgURL = "/assets/img/boy-1.png"

// User is a directory record. PasswordHash is only populated when the
// directory was asked to include secrets. An empty RefreshToken means the
// user has no live session.
type User struct {
	ID               string
	UserName         string
	Mail             string
	FirstName        string
	LastName         string
	ImgURL           string
	PasswordHash     string
	Disabled         bool
	AccountActivated bool
	Roles            []Role
	RefreshToken     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasRole reports whether r is among the user's roles.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// RoleNames returns the user's roles as plain strings, in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

// WithoutSecrets returns a copy safe to hand to callers outside the auth flows.
func (u *User) WithoutSecrets() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	c.Roles = append([]Role(nil), u.Roles...)
	return &c
}
