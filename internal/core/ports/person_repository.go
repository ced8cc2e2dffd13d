package ports

import (
	"context"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// PersonRepository defines persistence for person records.
type PersonRepository interface {
	Insert(ctx context.Context, p *domain.Person) error
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	FindAll(ctx context.Context) ([]*domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	Delete(ctx context.Context, id string) error
}
