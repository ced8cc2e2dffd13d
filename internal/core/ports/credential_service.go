package ports

import (
	"context"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// CredentialInput carries the fields for creating or updating a
// credential. Password is optional on create: when empty, the service
// generates a random one (server-initiated creation via the people
// service has no caller-supplied password).
type CredentialInput struct {
	Email    string
	FullName string
	Role     domain.Role
	Password string
}

// CredentialService owns the credential store and its invariants:
// unique email, hashed passwords. UpdateCredential is keyed by the
// credential's current email; input.Email may differ to change it.
type CredentialService interface {
	ValidateCredentials(ctx context.Context, email, password string) (*domain.Credential, error)
	CreateCredential(ctx context.Context, input CredentialInput) domain.OperationResult
	UpdateCredential(ctx context.Context, email string, input CredentialInput) domain.OperationResult
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) domain.OperationResult
	DeleteCredential(ctx context.Context, email string) domain.OperationResult
}
