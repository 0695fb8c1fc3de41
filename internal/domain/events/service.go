package events

import (
	"context"
	"fmt"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/sanitize"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, ulid string) (Event, error) {
	if err := ids.ValidateULID(ulid); err != nil {
		return Event{}, ErrNotFound
	}
	return s.repo.GetByULID(ctx, ids.NormalizeULID(ulid))
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Event, error) {
	ulid, err := ids.NewULID()
	if err != nil {
		return Event{}, fmt.Errorf("mint event ulid: %w", err)
	}
	params.ULID = ulid
	params.Time = DisplayTime(params.Date)
	params.Name = sanitize.Text(params.Name)
	params.Location = sanitize.Text(params.Location)
	params.Description = sanitize.HTML(params.Description)

	event, err := s.repo.Create(ctx, params)
	if err != nil {
		return Event{}, err
	}

	s.logger.Info().Str("event", event.ULID).Str("organizer", event.OrganizerID.String()).Msg("event created")
	return event, nil
}

func (s *Service) Update(ctx context.Context, ulid string, params UpdateParams) (Event, error) {
	if err := ids.ValidateULID(ulid); err != nil {
		return Event{}, ErrNotFound
	}
	if params.IsEmpty() {
		return Event{}, ErrNoFields
	}
	if params.Date != nil {
		display := DisplayTime(*params.Date)
		params.Time = &display
	}
	if params.Name != nil {
		clean := sanitize.Text(*params.Name)
		params.Name = &clean
	}
	if params.Location != nil {
		clean := sanitize.Text(*params.Location)
		params.Location = &clean
	}
	if params.Description != nil {
		clean := sanitize.HTML(*params.Description)
		params.Description = &clean
	}
	return s.repo.Update(ctx, ids.NormalizeULID(ulid), params)
}

func (s *Service) Delete(ctx context.Context, ulid string) error {
	if err := ids.ValidateULID(ulid); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, ids.NormalizeULID(ulid)); err != nil {
		return err
	}
	s.logger.Info().Str("event", ids.NormalizeULID(ulid)).Msg("event deleted")
	return nil
}
