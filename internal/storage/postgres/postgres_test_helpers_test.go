package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedOnce      sync.Once
	sharedInitErr   error
	sharedContainer *postgres.PostgresContainer
	sharedPool      *pgxpool.Pool
	sharedDBURL     string
)

const sharedContainerName = "gatherly-storage-db"

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupShared()
	os.Exit(code)
}

// setupPostgres returns a pool against a migrated, truncated database.
// Tests that call it are skipped when Docker is unavailable.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("SKIP_DOCKER_TESTS set")
	}

	initShared(t)
	resetDatabase(t, sharedPool)

	return sharedPool
}

func initShared(t *testing.T) {
	t.Helper()
	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		// Disable ryuk (resource reaper) to prevent premature container cleanup
		_ = os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

		container, err := postgres.Run(
			ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("gatherly"),
			postgres.WithUsername("gatherly"),
			postgres.WithPassword("gatherly_dev"),
			testcontainers.WithReuseByName(sharedContainerName),
		)
		if err != nil {
			sharedInitErr = err
			return
		}
		sharedContainer = container

		dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		sharedDBURL = dbURL

		migrationsPath := filepath.Join(projectRoot(), DefaultMigrationsPath)
		if err := migrateWithRetry(dbURL, migrationsPath, 10*time.Second); err != nil {
			sharedInitErr = err
			return
		}

		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			sharedInitErr = err
			return
		}

		sharedPool = pool
	})

	if sharedInitErr != nil {
		t.Skipf("postgres container unavailable: %v", sharedInitErr)
	}
}

func cleanupShared() {
	if sharedPool != nil {
		sharedPool.Close()
	}
	// Do NOT terminate the shared container; testcontainers cleans it up.
}

func resetDatabase(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if pool == nil {
		require.Fail(t, "shared pool is nil")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := pool.Query(ctx, `
SELECT tablename
  FROM pg_tables
 WHERE schemaname = 'public'
   AND tablename <> 'schema_migrations'
 ORDER BY tablename;
`)
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		if name == "" {
			continue
		}
		safe := strings.ReplaceAll(name, "\"", "\"\"")
		tables = append(tables, "\"public\".\""+safe+"\"")
	}
	require.NoError(t, rows.Err())

	if len(tables) == 0 {
		return
	}

	truncateSQL := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;"
	_, err = pool.Exec(ctx, truncateSQL)
	require.NoError(t, err)
}

func insertUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, username string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, 'x', 'Test', 'User')
RETURNING id
`, username, username+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

func insertTestEvent(t *testing.T, ctx context.Context, pool *pgxpool.Pool, organizer uuid.UUID, name string) string {
	t.Helper()
	ulidValue, err := ids.NewULID()
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
INSERT INTO events (ulid, name, location, date, time, description, organizer_id, max_participants)
VALUES ($1, $2, 'Community Hall', now() + interval '7 days', '6:30:00 PM', 'Test event', $3, 50)
`, ulidValue, name, organizer)
	require.NoError(t, err)
	return ulidValue
}

func eventCounter(t *testing.T, ctx context.Context, pool *pgxpool.Pool, eventULID string) int {
	t.Helper()
	var counter int
	err := pool.QueryRow(ctx, `SELECT registered_participants FROM events WHERE ulid = $1`, eventULID).Scan(&counter)
	require.NoError(t, err)
	return counter
}

func membershipRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, eventULID string) int {
	t.Helper()
	var count int
	err := pool.QueryRow(ctx, `
SELECT count(*)
  FROM memberships m
  JOIN events e ON e.id = m.event_id
 WHERE e.ulid = $1
`, eventULID).Scan(&count)
	require.NoError(t, err)
	return count
}

func projectRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", ".."))
}

func migrateWithRetry(databaseURL string, migrationsPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := MigrateUp(databaseURL, migrationsPath); err != nil {
			if time.Now().After(deadline) {
				return err
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		return nil
	}
}
