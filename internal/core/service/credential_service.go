package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
)

// CredentialService owns credentials and their invariants: one
// credential per email (case-insensitive) and bcrypt-hashed passwords,
// never plaintext.
type CredentialService struct {
	repo   ports.CredentialRepository
	logger zerolog.Logger
}

func NewCredentialService(repo ports.CredentialRepository, logger zerolog.Logger) *CredentialService {
	return &CredentialService{repo: repo, logger: logger}
}

// ValidateCredentials checks email and password against the store and
// returns the matching credential. A missing credential and a wrong
// password are indistinguishable to the caller.
func (s *CredentialService) ValidateCredentials(ctx context.Context, email, password string) (*domain.Credential, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return cred, nil
}

// CreateCredential registers a new credential. When no password is
// supplied a random one is generated; in production the generated
// password would be mailed to the user rather than logged.
func (s *CredentialService) CreateCredential(ctx context.Context, input ports.CredentialInput) domain.OperationResult {
	email := normalizeEmail(input.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		s.logger.Warn().Str("email", email).Msg("credential already exists")
		return domain.ConflictFailure("credential with email " + email + " already exists")
	}

	password := input.Password
	if password == "" {
		generated, err := GeneratePassword(0)
		if err != nil {
			s.logger.Error().Err(err).Msg("password generation failed")
			return domain.Failure("could not generate password")
		}
		password = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("password hashing failed")
		return domain.Failure("could not hash password")
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrCredentialExists) {
			return domain.ConflictFailure("credential with email " + email + " already exists")
		}
		s.logger.Error().Err(err).Str("email", email).Msg("credential insert failed")
		return domain.Failure("could not store credential")
	}

	s.logger.Info().Str("email", email).Str("role", cred.Role.String()).Msg("credential created")
	return domain.Success()
}

// UpdateCredential replaces the email, display name and role of the
// credential currently stored under email. input.Email may differ from
// the lookup email; the uniqueness invariant is enforced against the
// new value.
func (s *CredentialService) UpdateCredential(ctx context.Context, email string, input ports.CredentialInput) domain.OperationResult {
	current := normalizeEmail(email)
	next := normalizeEmail(input.Email)

	cred, err := s.repo.FindByEmail(ctx, current)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", current).Msg("credential update failed")
		return domain.NotFoundFailure("credential not found")
	}

	if next != current {
		if _, err := s.repo.FindByEmail(ctx, next); err == nil {
			s.logger.Warn().Str("email", next).Msg("credential email change collides")
			return domain.ConflictFailure("credential with email " + next + " already exists")
		}
	}

	cred.Email = next
	cred.FullName = input.FullName
	cred.Role = input.Role
	cred.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, current, cred); err != nil {
		if errors.Is(err, domain.ErrCredentialExists) {
			return domain.ConflictFailure("credential with email " + next + " already exists")
		}
		s.logger.Error().Err(err).Str("email", current).Msg("credential update failed")
		return domain.Failure("could not store credential")
	}

	s.logger.Info().Str("email", current).Str("new_email", next).Msg("credential updated")
	return domain.Success()
}

// ChangePassword replaces the stored hash once the current password
// validates.
func (s *CredentialService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) domain.OperationResult {
	cred, err := s.ValidateCredentials(ctx, email, currentPassword)
	if err != nil {
		s.logger.Warn().Str("email", email).Msg("password change rejected")
		return domain.Failure("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("password hashing failed")
		return domain.Failure("could not hash password")
	}

	cred.PasswordHash = string(hash)
	cred.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, cred.Email, cred); err != nil {
		s.logger.Error().Err(err).Str("email", cred.Email).Msg("password change failed")
		return domain.Failure("could not store credential")
	}

	s.logger.Info().Str("email", cred.Email).Msg("password changed")
	return domain.Success()
}

// DeleteCredential removes the credential identified by email.
func (s *CredentialService) DeleteCredential(ctx context.Context, email string) domain.OperationResult {
	email = normalizeEmail(email)

	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("credential delete failed")
		return domain.NotFoundFailure("credential not found")
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("credential delete failed")
		return domain.Failure("could not delete credential")
	}

	s.logger.Info().Str("email", email).Msg("credential deleted")
	return domain.Success()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
