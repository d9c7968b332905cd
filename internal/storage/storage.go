package storage

import (
	"context"
	"errors"

	"github.com/avgarcia/go-tasklist/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Store holds users and their tasks. User names are unique; every task
// belongs to exactly one user and stays with that user for its lifetime.
type Store interface {
	// FindUserByName returns ErrUserNotFound if no user has the given name.
	FindUserByName(ctx context.Context, name string) (*models.User, error)

	// FindUserByID returns ErrUserNotFound if no user has the given id.
	FindUserByID(ctx context.Context, id int64) (*models.User, error)

	// CreateUser persists a new user with an already hashed password.
	// It returns ErrUserExists if the name is taken.
	CreateUser(ctx context.Context, name, passwordHash string) (*models.User, error)

	// ListTasksForUser returns the user's tasks in insertion order.
	ListTasksForUser(ctx context.Context, userID int64) ([]models.Task, error)

	// CreateTask persists a task owned by the given user.
	CreateTask(ctx context.Context, description string, userID int64) (*models.Task, error)

	// DeleteTask deletes the task only if it exists and belongs to the
	// given user, and reports whether a row was deleted.
	DeleteTask(ctx context.Context, taskID, userID int64) (bool, error)
}
