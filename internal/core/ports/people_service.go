package ports

import (
	"context"
	"time"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// CreatePersonInput carries the validated fields for a new person record.
// Role arrives already parsed; the HTTP boundary is the only place wire
// strings are converted.
type CreatePersonInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
	HireDate  time.Time
}

// UpdatePersonInput carries the replacement field values for an existing
// person record.
type UpdatePersonInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
}

// PeopleService orchestrates person mutations together with their
// companion credential mutations on the auth service. Reads bypass the
// companion call entirely.
type PeopleService interface {
	CreatePerson(ctx context.Context, input CreatePersonInput) (string, domain.OperationResult)
	UpdatePerson(ctx context.Context, id string, input UpdatePersonInput) domain.OperationResult
	DeletePerson(ctx context.Context, id string) domain.OperationResult
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	ListPeople(ctx context.Context) ([]*domain.Person, error)
}
