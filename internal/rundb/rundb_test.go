package rundb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndCount(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	now := time.Now()
	id, err := db.Record(ctx, RunRecord{
		Floorplan:  "plan_a",
		Source:     "plan_a.txt",
		StartedAt:  now,
		FinishedAt: now.Add(2 * time.Second),
		Rooms:      4,
		Walls:      12,
		Openings:   6,
		Status:     StatusOK,
		Anomalies: []schemas.Anomaly{
			{Kind: schemas.AnomalyUnmatchedOpening, Detail: "icon 3 matches no wall"},
			{Kind: schemas.AnomalyTopology, Detail: "walk did not close"},
		},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	n, err := db.AnomalyCount(ctx, "plan_a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.AnomalyCount(ctx, "plan_b")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordFailedRun(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	id, err := db.Record(context.Background(), RunRecord{
		Floorplan:  "plan_c",
		Source:     "plan_c.txt",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Status:     StatusFailed,
		Error:      "no usable wall segments",
	})
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	db1, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	// Reopening migrates against existing tables without error.
	db2, err := Open(ctx, path)
	require.NoError(t, err)
	defer db2.Close()

	_, err = db2.Record(ctx, RunRecord{
		Floorplan: "plan_d", Source: "plan_d.txt",
		StartedAt: time.Now(), FinishedAt: time.Now(), Status: StatusOK,
	})
	require.NoError(t, err)
}
