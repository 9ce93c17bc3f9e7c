package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string `gorm:"primaryKey"`
	Name  string
	Rank  int
}

func newTestManager(t *testing.T) *DatabaseManager {
	t.Helper()
	dm, err := New("sqlite", filepath.Join(t.TempDir(), "test.db"), 1, LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	require.NoError(t, dm.Migrate(context.Background(), &widget{}))
	return dm
}

func TestGormStoreReplacesRows(t *testing.T) {
	dm := newTestManager(t)
	store := NewGormStore[widget](dm.DB, "rank")
	ctx := context.Background()

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.SaveAll(ctx, []widget{
		{ID: "b", Name: "second", Rank: 2},
		{ID: "a", Name: "first", Rank: 1},
	}))

	items, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	require.NoError(t, store.SaveAll(ctx, []widget{{ID: "c", Name: "only", Rank: 1}}))
	items, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "c", Name: "only", Rank: 1}}, items)

	require.NoError(t, store.SaveAll(ctx, nil))
	items, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGormStoreRollsBackOnFailure(t *testing.T) {
	dm := newTestManager(t)
	store := NewGormStore[widget](dm.DB, "")
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []widget{{ID: "keep", Name: "kept"}}))

	// duplicate primary keys fail the insert after the delete ran
	err := store.SaveAll(ctx, []widget{{ID: "dup"}, {ID: "dup"}})
	assert.Error(t, err)

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "keep", Name: "kept"}}, items)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("oracle", "", 1, LogLevelSilent)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelInfo, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("info"))
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelSilent, ParseLogLevel(""))
}
