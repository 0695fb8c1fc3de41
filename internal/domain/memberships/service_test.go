package memberships

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type pairKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

// fakeLedger mirrors the postgres repository's transactional contract: a
// single mutex serializes the existence check, the membership mutation, and
// the counter adjustment, so each call is an atomic unit.
type fakeLedger struct {
	mu          sync.Mutex
	users       map[uuid.UUID]bool
	events      map[string]*events.Event // keyed by ULID
	memberships map[pairKey]Membership
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users:       make(map[uuid.UUID]bool),
		events:      make(map[string]*events.Event),
		memberships: make(map[pairKey]Membership),
	}
}

func (f *fakeLedger) addUser() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = true
	return id
}

func (f *fakeLedger) addEvent(t *testing.T) *events.Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	ulid, err := ids.NewULID()
	require.NoError(t, err)
	event := &events.Event{ID: uuid.New(), ULID: ulid, Name: "Go Meetup", MaxParticipants: 50}
	f.events[ulid] = event
	return event
}

func (f *fakeLedger) Register(_ context.Context, userID uuid.UUID, eventULID string) (Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.users[userID] {
		return Membership{}, ErrUserNotFound
	}
	event, ok := f.events[eventULID]
	if !ok {
		return Membership{}, ErrEventNotFound
	}

	key := pairKey{userID: userID, eventID: event.ID}
	if _, exists := f.memberships[key]; exists {
		return Membership{}, ErrAlreadyRegistered
	}

	membership := Membership{
		UserID:    userID,
		EventID:   event.ID,
		EventULID: eventULID,
		CreatedAt: time.Now(),
	}
	f.memberships[key] = membership
	event.RegisteredParticipants++
	return membership, nil
}

func (f *fakeLedger) Unregister(_ context.Context, userID uuid.UUID, eventULID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.users[userID] {
		return ErrUserNotFound
	}
	event, ok := f.events[eventULID]
	if !ok {
		return ErrEventNotFound
	}

	key := pairKey{userID: userID, eventID: event.ID}
	if _, exists := f.memberships[key]; !exists {
		return ErrNotRegistered
	}

	delete(f.memberships, key)
	event.RegisteredParticipants--
	return nil
}

func (f *fakeLedger) ListForUser(_ context.Context, userID uuid.UUID) ([]JoinedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	joined := make([]JoinedEvent, 0)
	for key, membership := range f.memberships {
		if key.userID != userID {
			continue
		}
		for _, event := range f.events {
			if event.ID == key.eventID {
				joined = append(joined, JoinedEvent{Event: *event, JoinedAt: membership.CreatedAt})
			}
		}
	}
	return joined, nil
}

func (f *fakeLedger) counter(eventULID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventULID].RegisteredParticipants
}

func (f *fakeLedger) membershipCount(eventULID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	event := f.events[eventULID]
	count := 0
	for key := range f.memberships {
		if key.eventID == event.ID {
			count++
		}
	}
	return count
}

func TestRegisterIncrementsCounter(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	membership, err := service.Register(context.Background(), user, event.ULID)

	require.NoError(t, err)
	require.Equal(t, user, membership.UserID)
	require.Equal(t, event.ULID, membership.EventULID)
	require.Equal(t, 1, ledger.counter(event.ULID))
	require.Equal(t, 1, ledger.membershipCount(event.ULID))
}

func TestRegisterTwiceFailsAndLeavesCounter(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	_, err := service.Register(context.Background(), user, event.ULID)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), user, event.ULID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Equal(t, 1, ledger.counter(event.ULID))
}

func TestRegisterUnknownUser(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	event := ledger.addEvent(t)

	_, err := service.Register(context.Background(), uuid.New(), event.ULID)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Equal(t, 0, ledger.counter(event.ULID))
}

func TestRegisterUnknownEvent(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()

	unknown, err := ids.NewULID()
	require.NoError(t, err)

	_, err = service.Register(context.Background(), user, unknown)
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = service.Register(context.Background(), user, "not-a-ulid")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterIgnoresCapacity(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	event := ledger.addEvent(t)

	ledger.mu.Lock()
	event.MaxParticipants = 1
	ledger.mu.Unlock()

	for i := 0; i < 3; i++ {
		user := ledger.addUser()
		_, err := service.Register(context.Background(), user, event.ULID)
		require.NoError(t, err)
	}
	require.Equal(t, 3, ledger.counter(event.ULID))
}

func TestUnregisterDecrementsCounter(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	_, err := service.Register(context.Background(), user, event.ULID)
	require.NoError(t, err)

	require.NoError(t, service.Unregister(context.Background(), user, event.ULID))
	require.Equal(t, 0, ledger.counter(event.ULID))
	require.Equal(t, 0, ledger.membershipCount(event.ULID))
}

func TestUnregisterTwiceFailsAndLeavesState(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	_, err := service.Register(context.Background(), user, event.ULID)
	require.NoError(t, err)
	require.NoError(t, service.Unregister(context.Background(), user, event.ULID))

	err = service.Unregister(context.Background(), user, event.ULID)
	require.ErrorIs(t, err, ErrNotRegistered)
	require.Equal(t, 0, ledger.counter(event.ULID))
}

func TestUnregisterWithoutMembership(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	err := service.Unregister(context.Background(), user, event.ULID)
	require.ErrorIs(t, err, ErrNotRegistered)
	require.Equal(t, 0, ledger.counter(event.ULID))
}

func TestConcurrentRegistersSingleWinner(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	const workers = 32
	results := make(chan error, workers)
	var start sync.WaitGroup
	start.Add(1)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			_, err := service.Register(context.Background(), user, event.ULID)
			results <- err
		}()
	}
	start.Done()
	wg.Wait()
	close(results)

	successes, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrAlreadyRegistered)
			duplicates++
		}
	}

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, duplicates)
	require.Equal(t, 1, ledger.counter(event.ULID))
	require.Equal(t, 1, ledger.membershipCount(event.ULID))
}

func TestListForUser(t *testing.T) {
	ledger := newFakeLedger()
	service := NewService(ledger, zerolog.Nop())
	user := ledger.addUser()
	event := ledger.addEvent(t)

	joined, err := service.ListForUser(context.Background(), user)
	require.NoError(t, err)
	require.Empty(t, joined)

	_, err = service.Register(context.Background(), user, event.ULID)
	require.NoError(t, err)

	joined, err = service.ListForUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	require.Equal(t, event.ULID, joined[0].Event.ULID)
}
