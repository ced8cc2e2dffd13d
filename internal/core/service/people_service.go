package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hcm-suite/hcm-system/internal/api/metrics"
	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
)

// PeopleService owns person records and keeps the auth service's
// credential store in agreement with them. Every mutation pairs a local
// store write with a synchronous companion call through the credential
// client; the remote result always decides whether the local side
// commits. There is no cross-service lock and no retry: a failed
// companion call is compensated locally and surfaced to the caller.
type PeopleService struct {
	repo   ports.PersonRepository
	auth   ports.CredentialClient
	logger zerolog.Logger

	// atomicCreate controls compensation on the create path. When true
	// (the default) a staged person is removed if the companion
	// credential creation fails, so a failed create leaves nothing
	// behind. When false the staged person survives and the failure is
	// surfaced for out-of-band reconciliation.
	atomicCreate bool
}

// Option configures a PeopleService.
type Option func(*PeopleService)

// WithBestEffortCreate keeps the staged person record when the companion
// credential creation fails, instead of removing it.
func WithBestEffortCreate() Option {
	return func(s *PeopleService) { s.atomicCreate = false }
}

func NewPeopleService(repo ports.PersonRepository, auth ports.CredentialClient, logger zerolog.Logger, opts ...Option) *PeopleService {
	s := &PeopleService{repo: repo, auth: auth, logger: logger, atomicCreate: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePerson stages a new person record, then asks the auth service to
// create the companion credential. Only a remote success makes the
// record permanent; on remote failure the staged record is removed
// (atomic mode) or left behind with a warning (best-effort mode). The
// new person's id is returned on success.
func (s *PeopleService) CreatePerson(ctx context.Context, input ports.CreatePersonInput) (string, domain.OperationResult) {
	person := &domain.Person{
		ID:        uuid.NewString(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      input.Role,
		HireDate:  input.HireDate,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, person); err != nil {
		s.logger.Error().Err(err).Str("email", person.Email).Msg("failed to stage person")
		metrics.PeopleMutationsTotal.WithLabelValues("create", "error").Inc()
		return "", domain.Failure("could not store person record")
	}

	res := s.companionCall(ctx, "create", func() domain.OperationResult {
		return s.auth.CreateUser(ctx, ports.CredentialPayload{
			Email:    person.Email,
			FullName: person.FullName(),
			Role:     person.Role,
		})
	})
	if !res.OK {
		s.logger.Warn().Str("email", person.Email).Str("reason", res.Reason).Msg("credential creation failed")
		if s.atomicCreate {
			s.compensate(ctx, "create", person.ID)
		} else {
			s.logger.Warn().Str("person_id", person.ID).Msg("person kept without credential, reconcile manually")
		}
		metrics.PeopleMutationsTotal.WithLabelValues("create", "remote_failure").Inc()
		return "", res
	}

	s.logger.Info().Str("person_id", person.ID).Str("email", person.Email).Msg("person created")
	metrics.PeopleMutationsTotal.WithLabelValues("create", "success").Inc()
	return person.ID, domain.Success()
}

// UpdatePerson applies new field values to an existing person. The
// companion credential update runs against the new values before the
// local record is committed; when it fails the in-memory mutation is
// discarded and the stored record stays untouched. The companion call
// is keyed by the person's previous email so an email change carries
// over to the credential store.
func (s *PeopleService) UpdatePerson(ctx context.Context, id string, input ports.UpdatePersonInput) domain.OperationResult {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("person_id", id).Msg("update failed, person not found")
		metrics.PeopleMutationsTotal.WithLabelValues("update", "not_found").Inc()
		return domain.NotFoundFailure("person not found")
	}

	updated := *person
	updated.FirstName = input.FirstName
	updated.LastName = input.LastName
	updated.Email = input.Email
	updated.Role = input.Role

	res := s.companionCall(ctx, "update", func() domain.OperationResult {
		return s.auth.UpdateUser(ctx, person.Email, ports.CredentialPayload{
			Email:    updated.Email,
			FullName: updated.FullName(),
			Role:     updated.Role,
		})
	})
	if !res.OK {
		s.logger.Warn().Str("person_id", id).Str("reason", res.Reason).Msg("credential update failed, person unchanged")
		metrics.PeopleMutationsTotal.WithLabelValues("update", "remote_failure").Inc()
		return res
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.logger.Error().Err(err).Str("person_id", id).Msg("failed to commit person update")
		metrics.PeopleMutationsTotal.WithLabelValues("update", "error").Inc()
		return domain.Failure("could not store person record")
	}

	s.logger.Info().Str("person_id", id).Str("email", updated.Email).Msg("person updated")
	metrics.PeopleMutationsTotal.WithLabelValues("update", "success").Inc()
	return domain.Success()
}

// DeletePerson removes a person and its companion credential. The
// credential is deleted first: it is the harder side to recreate, so the
// local record is only removed once the remote side is known gone. A
// remote failure aborts with the person intact.
func (s *PeopleService) DeletePerson(ctx context.Context, id string) domain.OperationResult {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("person_id", id).Msg("delete failed, person not found")
		metrics.PeopleMutationsTotal.WithLabelValues("delete", "not_found").Inc()
		return domain.NotFoundFailure("person not found")
	}

	res := s.companionCall(ctx, "delete", func() domain.OperationResult {
		return s.auth.DeleteUser(ctx, person.Email)
	})
	if !res.OK {
		s.logger.Warn().Str("person_id", id).Str("reason", res.Reason).Msg("credential deletion failed, person kept")
		metrics.PeopleMutationsTotal.WithLabelValues("delete", "remote_failure").Inc()
		return res
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("person_id", id).Msg("failed to delete person after credential removal")
		metrics.PeopleMutationsTotal.WithLabelValues("delete", "error").Inc()
		return domain.Failure("could not delete person record")
	}

	s.logger.Info().Str("person_id", id).Str("email", person.Email).Msg("person deleted")
	metrics.PeopleMutationsTotal.WithLabelValues("delete", "success").Inc()
	return domain.Success()
}

// GetPerson returns a single person record. Reads never touch the auth
// service.
func (s *PeopleService) GetPerson(ctx context.Context, id string) (*domain.Person, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPeople returns all person records.
func (s *PeopleService) ListPeople(ctx context.Context) ([]*domain.Person, error) {
	people, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(people)).Msg("people listed")
	return people, nil
}

// companionCall runs one remote credential operation and records its
// outcome and duration.
func (s *PeopleService) companionCall(ctx context.Context, operation string, call func() domain.OperationResult) domain.OperationResult {
	start := time.Now()
	res := call()
	outcome := "success"
	if !res.OK {
		outcome = "failure"
	}
	metrics.CompanionCallsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.CompanionCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	return res
}

// compensate removes a staged person after a failed companion call.
func (s *PeopleService) compensate(ctx context.Context, operation, id string) {
	metrics.CompensationsTotal.WithLabelValues(operation).Inc()
	if err := s.repo.Delete(ctx, id); err != nil {
		// The stage write and the compensation both target the local
		// store, so this only fails if the store just broke.
		s.logger.Error().Err(err).Str("person_id", id).Msg("compensation failed, person left without credential")
	}
}
