package ports

import (
	"context"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// CredentialPayload is the flattened credential shape sent to the auth
// service on companion calls.
type CredentialPayload struct {
	Email    string
	FullName string
	Role     domain.Role
}

// CredentialClient is the people service's view of the remote auth
// service. Implementations must translate every transport error and
// non-2xx response into a failure OperationResult; the orchestrator
// never sees a panic or raw error from this boundary.
//
// UpdateUser is keyed by the credential's current email, taken from the
// pre-update person record, while payload carries the new values. That
// is what lets an email change follow through to the credential store.
type CredentialClient interface {
	CreateUser(ctx context.Context, payload CredentialPayload) domain.OperationResult
	UpdateUser(ctx context.Context, email string, payload CredentialPayload) domain.OperationResult
	DeleteUser(ctx context.Context, email string) domain.OperationResult
}
