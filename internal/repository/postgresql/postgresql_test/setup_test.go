package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies migrations and empties every table.
// Tests are skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"audit_logs",
		"attendance_corrections",
		"attendance_records",
		"biometric_devices",
		"refresh_tokens",
		"organization_settings",
		"profiles",
		"departments",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
