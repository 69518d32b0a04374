package domain

import (
	"errors"
	"time"
)

var (
	// ErrGroupNotFound indicates that the group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrNotGroupMember indicates that the member does not belong to the group.
	ErrNotGroupMember = errors.New("member is not in the group")
	// ErrNotGroupAdmin indicates that only the group admin may perform the action.
	ErrNotGroupAdmin = errors.New("only the group admin can do that")
)

// Group is a set of members sharing expenses.
type Group struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Admin         string    `json:"admin"`
	Members       []string  `json:"members"`
	TotalExpenses string    `json:"total_expenses"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateGroupParams is the input data to create a group.
type CreateGroupParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Admin       string `json:"admin"`
}

// GroupSnapshot is a consistent read of everything needed to settle a group.
type GroupSnapshot struct {
	GroupID  int32
	Members  []string
	Expenses []Expense
}

// UpdateGroupParams changes the name and description of a group.
// Nil fields keep their current value.
type UpdateGroupParams struct {
	ID          int32   `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
