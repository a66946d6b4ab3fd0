package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrUserIDEmpty      = errors.New("user ID cannot be empty")
	ErrInvalidEmail     = errors.New("user email is invalid")
	ErrPasswordTooShort = errors.New("user password must be at least 12 characters")
	ErrNoPassword       = errors.New("user must have a password or password hash")
)

// minPasswordLength is the minimum accepted plaintext password length.
const minPasswordLength = 12

// User represents an account that owns a corpus of vocabulary items.
// Password holds the plaintext only between request decoding and hashing;
// it is never persisted.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new user with the given email and plaintext password.
// The password is validated here and hashed by the auth service before
// the user is stored.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	if u.Password == "" && u.HashedPassword == "" {
		return ErrNoPassword
	}

	if u.Password != "" && len(u.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}
