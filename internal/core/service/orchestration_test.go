package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
)

// inProcessCredentialClient satisfies ports.CredentialClient by calling
// a CredentialService directly, so the orchestration can be exercised
// end to end against real credential semantics without HTTP.
type inProcessCredentialClient struct {
	creds *CredentialService
}

func (c *inProcessCredentialClient) CreateUser(ctx context.Context, payload ports.CredentialPayload) domain.OperationResult {
	return c.creds.CreateCredential(ctx, ports.CredentialInput{
		Email:    payload.Email,
		FullName: payload.FullName,
		Role:     payload.Role,
	})
}

func (c *inProcessCredentialClient) UpdateUser(ctx context.Context, email string, payload ports.CredentialPayload) domain.OperationResult {
	return c.creds.UpdateCredential(ctx, email, ports.CredentialInput{
		Email:    payload.Email,
		FullName: payload.FullName,
		Role:     payload.Role,
	})
}

func (c *inProcessCredentialClient) DeleteUser(ctx context.Context, email string) domain.OperationResult {
	return c.creds.DeleteCredential(ctx, email)
}

func TestUpdatePerson_EmailChange_CredentialFollows(t *testing.T) {
	ctx := context.Background()

	credSvc := newTestCredentialService(newStubCredentialRepo())
	peopleRepo := newStubPersonRepo()
	peopleSvc := NewPeopleService(peopleRepo, &inProcessCredentialClient{creds: credSvc}, zerolog.Nop())

	if res := credSvc.CreateCredential(ctx, ports.CredentialInput{
		Email:    "ann@x.com",
		FullName: "Ann Lee",
		Role:     domain.RoleEmployee,
		Password: "S3cret!pass",
	}); !res.OK {
		t.Fatalf("seed credential: %q", res.Reason)
	}
	if err := peopleRepo.Insert(ctx, &domain.Person{
		ID:        "P1",
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Role:      domain.RoleEmployee,
		HireDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed person: %v", err)
	}

	res := peopleSvc.UpdatePerson(ctx, "P1", ports.UpdatePersonInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann.new@x.com",
		Role:      domain.RoleEmployee,
	})
	if !res.OK {
		t.Fatalf("email change through the orchestration failed: %q", res.Reason)
	}

	p, err := peopleSvc.GetPerson(ctx, "P1")
	if err != nil {
		t.Fatalf("get person: %v", err)
	}
	if p.Email != "ann.new@x.com" {
		t.Fatalf("person email not updated: %+v", p)
	}

	// The credential moved with the person: the existing password logs
	// in under the new email and the old email no longer resolves.
	cred, err := credSvc.ValidateCredentials(ctx, "ann.new@x.com", "S3cret!pass")
	if err != nil {
		t.Fatalf("existing password rejected under new email: %v", err)
	}
	if cred.Email != "ann.new@x.com" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
	if _, err := credSvc.ValidateCredentials(ctx, "ann@x.com", "S3cret!pass"); err == nil {
		t.Fatalf("old email still accepted after the change")
	}
}
