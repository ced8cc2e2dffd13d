package domain

import (
	"errors"
	"time"
)

var ErrCredentialNotFound = errors.New("credential not found")
var ErrCredentialExists = errors.New("credential already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credential is the login material for a Person, owned exclusively by the
// auth service. Email is the identity and is unique case-insensitively;
// repositories store it lowercased.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
