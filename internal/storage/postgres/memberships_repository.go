package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ memberships.Repository = (*MembershipRepository)(nil)

// MembershipRepository owns every write to memberships and to the
// registered_participants counter. Each mutation runs in one transaction:
// the event row is locked first, so for a given event the existence check,
// the membership write, and the counter adjustment are never interleaved
// with another writer.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

func (r *MembershipRepository) Register(ctx context.Context, userID uuid.UUID, eventULID string) (memberships.Membership, error) {
	membership, err := r.register(ctx, userID, eventULID)
	if isRetryable(err) {
		membership, err = r.register(ctx, userID, eventULID)
	}
	return membership, err
}

func (r *MembershipRepository) register(ctx context.Context, userID uuid.UUID, eventULID string) (memberships.Membership, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return memberships.Membership{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventID, err := lockEvent(ctx, tx, eventULID)
	if err != nil {
		return memberships.Membership{}, err
	}
	if err := checkUserExists(ctx, tx, userID); err != nil {
		return memberships.Membership{}, err
	}

	membership := memberships.Membership{
		UserID:    userID,
		EventID:   eventID,
		EventULID: eventULID,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO memberships (user_id, event_id)
VALUES ($1, $2)
RETURNING created_at
`, userID, eventID).Scan(&membership.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "memberships_pkey") {
			return memberships.Membership{}, memberships.ErrAlreadyRegistered
		}
		return memberships.Membership{}, fmt.Errorf("insert membership: %w", err)
	}

	if _, err := tx.Exec(ctx, `
UPDATE events
   SET registered_participants = registered_participants + 1,
       updated_at = now()
 WHERE id = $1
`, eventID); err != nil {
		return memberships.Membership{}, fmt.Errorf("increment participants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return memberships.Membership{}, fmt.Errorf("commit tx: %w", err)
	}
	return membership, nil
}

func (r *MembershipRepository) Unregister(ctx context.Context, userID uuid.UUID, eventULID string) error {
	err := r.unregister(ctx, userID, eventULID)
	if isRetryable(err) {
		err = r.unregister(ctx, userID, eventULID)
	}
	return err
}

func (r *MembershipRepository) unregister(ctx context.Context, userID uuid.UUID, eventULID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventID, err := lockEvent(ctx, tx, eventULID)
	if err != nil {
		return err
	}
	if err := checkUserExists(ctx, tx, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
DELETE FROM memberships
 WHERE user_id = $1 AND event_id = $2
`, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Nothing was deleted, so the counter must not move.
		return memberships.ErrNotRegistered
	}

	if _, err := tx.Exec(ctx, `
UPDATE events
   SET registered_participants = registered_participants - 1,
       updated_at = now()
 WHERE id = $1
`, eventID); err != nil {
		return fmt.Errorf("decrement participants: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *MembershipRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]memberships.JoinedEvent, error) {
	rows, err := r.pool.Query(ctx, `
SELECT e.id, e.ulid, e.name, e.location, e.date, e.time, e.description,
       e.organizer_id, e.max_participants, e.registered_participants,
       e.created_at, e.updated_at, m.created_at
  FROM memberships m
  JOIN events e ON e.id = m.event_id
 WHERE m.user_id = $1
 ORDER BY m.created_at ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user memberships: %w", err)
	}
	defer rows.Close()

	joined := make([]memberships.JoinedEvent, 0)
	for rows.Next() {
		var item memberships.JoinedEvent
		event := &item.Event
		if err := rows.Scan(
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
			&item.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		joined = append(joined, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return joined, nil
}

// lockEvent resolves the event's internal id and takes its row lock for the
// rest of the transaction.
func lockEvent(ctx context.Context, tx pgx.Tx, eventULID string) (uuid.UUID, error) {
	var eventID uuid.UUID
	err := tx.QueryRow(ctx, `
SELECT id FROM events WHERE ulid = $1 FOR UPDATE
`, eventULID).Scan(&eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.UUID{}, memberships.ErrEventNotFound
		}
		return uuid.UUID{}, fmt.Errorf("lock event: %w", err)
	}
	return eventID, nil
}

func checkUserExists(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return memberships.ErrUserNotFound
	}
	return nil
}
