package ports

import (
	"context"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// CredentialRepository defines persistence for credentials. Lookups by
// email are case-insensitive; implementations store emails lowercased.
// Update is keyed by the stored email, which may differ from c.Email
// when the credential's email is being changed.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Insert(ctx context.Context, c *domain.Credential) error
	Update(ctx context.Context, email string, c *domain.Credential) error
	Delete(ctx context.Context, email string) error
}
