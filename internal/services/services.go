package services

import (
	"context"
	"errors"

	"github.com/avgarcia/go-tasklist/internal/models"
)

var (
	ErrCredentialsRequired  = errors.New("name and password are required")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
)

type AuthService interface {
	// Authenticate validates the submitted credentials and resolves them
	// to a user.
	//
	// It returns ErrCredentialsRequired or ErrPasswordTooShort before any
	// store lookup if the input is invalid. For a known name it compares
	// the password against the stored hash and returns
	// ErrUserPasswordMismatch when they differ. For an unknown name it
	// registers a new account and treats that as a successful login when
	// auto-registration is enabled, or returns ErrUserNotFound when it is
	// not. Two concurrent first-time logins with the same name race on the
	// store's uniqueness constraint; the loser gets ErrUserAlreadyExists.
	Authenticate(ctx context.Context, name, password string) (*AuthResult, error)
}

type AuthResult struct {
	User *models.User
	// Registered reports that the account was created by this call.
	Registered bool
}

type TaskService interface {
	// AddTask persists a task owned by the given user. It is a no-op
	// returning (nil, nil) if the user is absent or the description is
	// empty.
	AddTask(ctx context.Context, user *models.User, description string) (*models.Task, error)

	// RemoveTask deletes the task identified by rawTaskID if it exists
	// and belongs to the given user, reporting whether a deletion
	// occurred. An absent user, a malformed id, a missing task, or an
	// ownership mismatch is a silent no-op, not an error.
	RemoveTask(ctx context.Context, user *models.User, rawTaskID string) (bool, error)
}
