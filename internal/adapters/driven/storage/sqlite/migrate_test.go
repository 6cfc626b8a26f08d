package sqlite

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_labels.up.sql":     {Data: []byte("CREATE TABLE labels (id TEXT);")},
		"migrations/002_labels.down.sql":   {Data: []byte("DROP TABLE labels;")},
		"migrations/001_activity.up.sql":   {Data: []byte("CREATE TABLE a (id TEXT);")},
		"migrations/001_activity.down.sql": {Data: []byte("DROP TABLE a;")},
		"migrations/README.md":             {Data: []byte("notes")},
		"migrations/draft.up.sql":          {Data: []byte("ignored")},
	}

	got, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].version)
	assert.Equal(t, "activity", got[0].name)
	assert.Equal(t, "DROP TABLE a;", got[0].down)
	assert.Equal(t, 2, got[1].version)
	assert.Equal(t, "CREATE TABLE labels (id TEXT);", got[1].up)
}

func TestLoadMigrations_MissingUp(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/003_orphan.down.sql": {Data: []byte("DROP TABLE x;")},
	}

	_, err := loadMigrations(fsys)
	assert.ErrorContains(t, err, "003_orphan has no up script")
}

func TestLoadMigrations_Embedded(t *testing.T) {
	got, err := loadMigrations(migrationFiles)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for _, m := range got {
		assert.NotEmpty(t, m.up, "version %d", m.version)
		assert.NotEmpty(t, m.down, "version %d", m.version)
	}
}

func TestStore_RollbackThenMigrate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	undone, err := store.rollback(ctx)
	require.NoError(t, err)
	assert.True(t, undone)

	version, err := store.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	_, err = store.ActivityStore().Recent(ctx, 1)
	assert.Error(t, err, "activities table should be gone")

	undone, err = store.rollback(ctx)
	require.NoError(t, err)
	assert.False(t, undone)

	require.NoError(t, store.migrate(ctx))
	_, err = store.ActivityStore().Recent(ctx, 1)
	assert.NoError(t, err)
}
