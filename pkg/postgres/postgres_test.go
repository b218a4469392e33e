package postgres

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danyan90/TA/pkg/db"
)

func TestMigrationFiles_Ordered(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_create_allocation_run.sql",
		"002_create_allocation_placement.sql",
	}, files)

	for _, f := range files {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+f)
		require.NoError(t, err)
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS")
	}
}

func TestPendingMigrations(t *testing.T) {
	pending, err := PendingMigrations([]string{"001_create_allocation_run.sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_create_allocation_placement.sql"}, pending)

	pending, err = PendingMigrations(nil)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestNewDB_InvalidURL(t *testing.T) {
	_, err := NewDB(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database url")
}

var _ db.RunStore = (*DB)(nil)

// TestRunStore_Integration runs against a real database when TA_TEST_DATABASE_URL is set
func TestRunStore_Integration(t *testing.T) {
	connString := os.Getenv("TA_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TA_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, connString)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.RunMigrations(ctx))

	run := &db.Run{
		ID:           uuid.New().String(),
		ColumnName:   "Lab_" + uuid.New().String()[:8],
		SourceColumn: "Lab_2",
		CreatedAt:    time.Now(),
		Seed:         42,
		Items:        3,
		Placed:       3,
	}
	require.NoError(t, database.InsertRun(ctx, run))
	require.NoError(t, database.InsertPlacements(ctx, []db.Placement{
		{RunID: run.ID, Row: 0, PreviousStation: 1, Station: 4},
		{RunID: run.ID, Row: 1, PreviousStation: 1, Station: 6},
		{RunID: run.ID, Row: 2, PreviousStation: 1, Station: 2},
	}))

	runs, err := database.GetRuns(ctx)
	require.NoError(t, err)

	var found *db.Run
	for i := range runs {
		if runs[i].ID == run.ID {
			found = &runs[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, run.ColumnName, found.ColumnName)
	assert.Equal(t, int64(42), found.Seed)
	assert.Equal(t, 3, found.Placed)
}

func TestInsertPlacements_Empty(t *testing.T) {
	var database DB
	assert.NoError(t, database.InsertPlacements(context.Background(), nil))
}
