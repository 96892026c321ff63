// Package models defines client-side data models used by the notes client:
// the session, the user, notes, and the request/response payloads of every
// endpoint the client talks to.
package models

// User is the account record returned by the auth endpoints.
type User struct {
	// ID is assigned by the service and never changes afterwards.
	ID string `json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`

	// EmailVerified reports whether the verification link was followed.
	EmailVerified bool `json:"isEmailVerified"`
}

// Session is the authenticated-identity context held by the client.
// Token and User are either both set or both empty.
type Session struct {
	Token string
	User  *User
}

// Valid reports whether s carries both a token and a user.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}
