package roster

import (
	"testing"

	"github.com/mauv0809/tournament-stats/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an in-memory SQLite database for testing.
func setupTestStore(t *testing.T) Store {
	t.Helper()
	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestStore_UpsertAndList(t *testing.T) {
	store := setupTestStore(t)

	// 1. Initially the roster is empty
	players, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, players)

	// 2. Insert keeps slice order
	require.NoError(t, store.Upsert([]Player{
		{ID: "zz", Name: "Zed"},
		{ID: "aa", Name: "Ann"},
	}))
	players, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []Player{{ID: "zz", Name: "Zed"}, {ID: "aa", Name: "Ann"}}, players)

	// 3. Upserting an existing id renames it
	require.NoError(t, store.Upsert([]Player{{ID: "zz", Name: "Zed Renamed"}}))
	p, err := store.Get("zz")
	require.NoError(t, err)
	assert.Equal(t, "Zed Renamed", p.Name)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_ReplacePrunesRemovedPlayers(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Replace([]Player{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}))
	require.NoError(t, store.Replace([]Player{{ID: "c", Name: "C"}, {ID: "a", Name: "A2"}}))

	players, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []Player{{ID: "c", Name: "C"}, {ID: "a", Name: "A2"}}, players)

	_, err = store.Get("b")
	assert.ErrorIs(t, err, ErrPlayerNotFound, "dropped players can no longer be selected")

	require.NoError(t, store.Replace(nil))
	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_UpsertKeepsOtherPlayers(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Upsert([]Player{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}))
	require.NoError(t, store.Upsert([]Player{{ID: "a", Name: "A"}}))

	_, err := store.Get("b")
	assert.NoError(t, err)
}

func TestStore_GetUnknown(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get("nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestParseRoster(t *testing.T) {
	players, err := ParseRoster(" id1:Player One , id2:Player Two,")
	require.NoError(t, err)
	assert.Equal(t, []Player{{ID: "id1", Name: "Player One"}, {ID: "id2", Name: "Player Two"}}, players)

	players, err = ParseRoster("")
	require.NoError(t, err)
	assert.Empty(t, players)

	_, err = ParseRoster("id-without-name")
	assert.Error(t, err)
	_, err = ParseRoster(":name")
	assert.Error(t, err)
}

func TestMock_Upsert(t *testing.T) {
	m := NewMock(Player{ID: "a", Name: "A"})
	require.NoError(t, m.Upsert([]Player{{ID: "a", Name: "A2"}, {ID: "b", Name: "B"}}))

	players, _ := m.List()
	assert.Equal(t, []Player{{ID: "a", Name: "A2"}, {ID: "b", Name: "B"}}, players)
	assert.Len(t, m.UpsertCalls, 1)

	require.NoError(t, m.Replace([]Player{{ID: "b", Name: "B"}}))
	players, _ = m.List()
	assert.Equal(t, []Player{{ID: "b", Name: "B"}}, players)
}
