package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// Development seed data, mirrored across both stores so the seeded
// people can log in out of the box. Never enabled in production.

type seedCredential struct {
	fullName string
	email    string
	password string
	role     domain.Role
}

var seedCredentials = []seedCredential{
	{fullName: "Jerry Admin", email: "admin@hcm.local", password: "Admin@123", role: domain.RoleHRAdmin},
	{fullName: "Jane Manager", email: "manager@hcm.local", password: "Manager@123", role: domain.RoleManager},
	{fullName: "John Employee", email: "employee@hcm.local", password: "Employee@123", role: domain.RoleEmployee},
}

// SeedCredentials inserts the development credentials when they are not
// already present.
func SeedCredentials(ctx context.Context, repo *CredentialRepository, log zerolog.Logger) error {
	for _, sc := range seedCredentials {
		_, err := repo.FindByEmail(ctx, sc.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(sc.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := repo.Insert(ctx, &domain.Credential{
			ID:           uuid.NewString(),
			Email:        sc.email,
			FullName:     sc.fullName,
			PasswordHash: string(hash),
			Role:         sc.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil && !errors.Is(err, domain.ErrCredentialExists) {
			return err
		}
		log.Info().Str("email", sc.email).Str("role", sc.role.String()).Msg("seeded credential")
	}
	return nil
}

// SeedPeople inserts person records matching the seeded credentials when
// the people collection is empty.
func SeedPeople(ctx context.Context, repo *PersonRepository, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := repo.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	people := []*domain.Person{
		{ID: uuid.NewString(), FirstName: "Jerry", LastName: "Admin", Email: "admin@hcm.local", Role: domain.RoleHRAdmin, HireDate: now.AddDate(-3, 0, 0), CreatedAt: now},
		{ID: uuid.NewString(), FirstName: "Jane", LastName: "Manager", Email: "manager@hcm.local", Role: domain.RoleManager, HireDate: now.AddDate(-2, 0, 0), CreatedAt: now},
		{ID: uuid.NewString(), FirstName: "John", LastName: "Employee", Email: "employee@hcm.local", Role: domain.RoleEmployee, HireDate: now.AddDate(-1, 0, 0), CreatedAt: now},
	}

	for _, p := range people {
		if err := repo.Insert(ctx, p); err != nil {
			return err
		}
		log.Info().Str("email", p.Email).Msg("seeded person")
	}
	return nil
}
