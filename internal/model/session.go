package model

import "github.com/google/uuid"

// Session identifies the caller of one request. It is built by the auth
// middleware from a verified token and handed down explicitly.
type Session struct {
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Actor is the value written into audit columns.
func (s Session) Actor() string {
	return s.UserID.String()
}
