package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no record has the id.
var ErrNotFound = errors.New("user not found")

// User is a stored user record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Repository persists users.
//
// Save inserts when u.ID is zero, assigning a fresh positive id, and
// replaces the stored record otherwise. FindByID and Delete return
// ErrNotFound for unknown ids.
type Repository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int) (User, error)
	Save(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, u User) error
}
