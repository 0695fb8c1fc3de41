package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the full account record. PasswordHash is opaque to everything
// outside this package and never leaves the API boundary.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// Credential is the user record without name fields, used for login
// verification and duplicate checks.
type Credential struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
}

type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}
