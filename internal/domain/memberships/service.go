package memberships

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service maintains the membership ledger. Capacity is intentionally not
// enforced: max_participants is informational and never blocks Register.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "memberships").Logger(),
	}
}

func (s *Service) Register(ctx context.Context, userID uuid.UUID, eventULID string) (Membership, error) {
	if err := ids.ValidateULID(eventULID); err != nil {
		return Membership{}, ErrEventNotFound
	}

	membership, err := s.repo.Register(ctx, userID, ids.NormalizeULID(eventULID))
	if err != nil {
		metrics.LedgerOperations.WithLabelValues("register", outcomeLabel(err)).Inc()
		return Membership{}, err
	}

	metrics.LedgerOperations.WithLabelValues("register", "success").Inc()
	s.logger.Info().
		Str("user", userID.String()).
		Str("event", membership.EventULID).
		Msg("registered to event")
	return membership, nil
}

func (s *Service) Unregister(ctx context.Context, userID uuid.UUID, eventULID string) error {
	if err := ids.ValidateULID(eventULID); err != nil {
		return ErrEventNotFound
	}

	if err := s.repo.Unregister(ctx, userID, ids.NormalizeULID(eventULID)); err != nil {
		metrics.LedgerOperations.WithLabelValues("unregister", outcomeLabel(err)).Inc()
		return err
	}

	metrics.LedgerOperations.WithLabelValues("unregister", "success").Inc()
	s.logger.Info().
		Str("user", userID.String()).
		Str("event", ids.NormalizeULID(eventULID)).
		Msg("unregistered from event")
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]JoinedEvent, error) {
	joined, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return joined, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrEventNotFound):
		return "not_found"
	default:
		return "error"
	}
}
