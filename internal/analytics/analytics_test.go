package analytics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTrackAndQuery(t *testing.T) {
	db := openTestDB(t)
	a := New(db, nil)
	a.Track("connection", "p1", nil)
	a.Track("new_player", "p1", map[string]any{"model": "player"})
	a.Track("connection", "p2", nil)
	a.Track("ready", "", nil)
	a.Stop()
	a.Stop()

	counts, err := a.EventCounts(1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"connection": 2, "new_player": 1, "ready": 1}, counts)

	players, err := a.DistinctPlayers(7)
	require.NoError(t, err)
	assert.Equal(t, 2, players)

	var data string
	require.NoError(t, db.conn.QueryRow(`SELECT data FROM analytics_events WHERE event_type = 'new_player'`).Scan(&data))
	assert.JSONEq(t, `{"model":"player"}`, data)
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	a := New(db, nil)
	a.Track("connection", "p1", nil)
	a.Stop()
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	a = New(db, nil)
	defer a.Stop()
	counts, err := a.EventCounts(30)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["connection"])
}

func TestNilDBIsNoop(t *testing.T) {
	a := New(nil, nil)
	a.Track("connection", "p1", nil)
	a.Stop()

	counts, err := a.EventCounts(1)
	assert.NoError(t, err)
	assert.Nil(t, counts)
	n, err := a.DistinctPlayers(1)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
