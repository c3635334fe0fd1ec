package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	connectAttempts = 3
	connectBackoff  = 200 * time.Millisecond
)

// TestDB holds the connection shared by integration suites
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the integration database. TEST_DATABASE_URL wins
// over the TEST_DB_* parts; the test is skipped when nothing answers
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := testDSN()
	backoff := connectBackoff

	var (
		db  *sqlx.DB
		err error
	)
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err = sqlx.ConnectContext(ctx, "postgres", dsn)
		cancel()
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			t.Logf("trip store not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		t.Skipf("Test database not available: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
	}
}

// Close closes the connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}

// Cleanup removes stored trips between tests
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	if _, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE trips"); err != nil {
		return fmt.Errorf("truncate trips: %w", err)
	}
	return nil
}

func testDSN() string {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("TEST_DB_HOST", "localhost"),
		envOr("TEST_DB_PORT", "5433"),
		envOr("TEST_DB_USER", "postgres"),
		envOr("TEST_DB_PASSWORD", "postgres"),
		envOr("TEST_DB_NAME", "trip_editor_test"),
		envOr("TEST_DB_SSLMODE", "disable"),
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
