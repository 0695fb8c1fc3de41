package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

const eventColumns = `id, ulid, name, location, date, time, description,
       organizer_id, max_participants, registered_participants, created_at, updated_at`

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY date ASC, ulid ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string) (events.Event, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE ulid = $1
`, ulid)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (events.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (ulid, name, location, date, time, description, organizer_id, max_participants)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+eventColumns+`
`,
		params.ULID,
		params.Name,
		params.Location,
		params.Date,
		params.Time,
		params.Description,
		params.OrganizerID,
		params.MaxParticipants,
	)

	event, err := scanEvent(row)
	if err != nil {
		if isForeignKeyViolation(err, "events_organizer_id_fkey") {
			return events.Event{}, events.ErrOrganizerNotFound
		}
		return events.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, ulid string, params events.UpdateParams) (events.Event, error) {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 7)

	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addAssignment("name", *params.Name)
	}
	if params.Description != nil {
		addAssignment("description", *params.Description)
	}
	if params.Date != nil {
		addAssignment("date", *params.Date)
	}
	if params.Time != nil {
		addAssignment("time", *params.Time)
	}
	if params.Location != nil {
		addAssignment("location", *params.Location)
	}
	if params.MaxParticipants != nil {
		addAssignment("max_participants", *params.MaxParticipants)
	}
	if len(assignments) == 0 {
		return events.Event{}, events.ErrNoFields
	}
	assignments = append(assignments, "updated_at = now()")

	args = append(args, ulid)
	query := fmt.Sprintf(`
UPDATE events
   SET %s
 WHERE ulid = $%d
RETURNING `+eventColumns+`
`, strings.Join(assignments, ", "), len(args))

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, ulid string) error {
	// Memberships cascade with the event row (ON DELETE CASCADE).
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE ulid = $1`, ulid)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID,
		&event.ULID,
		&event.Name,
		&event.Location,
		&event.Date,
		&event.Time,
		&event.Description,
		&event.OrganizerID,
		&event.MaxParticipants,
		&event.RegisteredParticipants,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return events.Event{}, err
	}
	return event, nil
}
