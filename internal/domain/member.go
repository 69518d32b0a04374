// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUsernameAlreadyExists indicates that the member with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailAlreadyExists indicates that the member with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrMemberNotFound indicates that the member is not found.
	ErrMemberNotFound = errors.New("member not found")
)

// Member is a person taking part in group expenses.
type Member struct {
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMemberParams is the input data to create a member.
type CreateMemberParams struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
