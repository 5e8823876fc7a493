package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrUserNotFound indicates no account exists for the given email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates an account already exists for the given email
	ErrUserExists = errors.New("user already exists")

	// ErrWrongCredentials indicates the password did not match
	ErrWrongCredentials = errors.New("wrong credentials")

	// ErrInvalidConfirmationCode indicates the confirmation code did not match
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")

	// ErrUserNotConfirmed indicates the account has not completed sign-up
	ErrUserNotConfirmed = errors.New("user not confirmed")

	// ErrNoSession indicates the request carries no valid session token
	ErrNoSession = errors.New("no authenticated session")
)

// User is an editor account. LoginID is the email the account was created
// with; it doubles as the author identity stamped onto content items.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Confirmed        bool      `json:"confirmed"`
	ConfirmationCode string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Identity is the authenticated caller exposed to handlers.
type Identity struct {
	ID      uuid.UUID `json:"id"`
	LoginID string    `json:"login_id"`
}

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}
