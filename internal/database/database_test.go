package database

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := New(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { svc.Close() })
	return &svc
}

func TestSaveLoadDeleteState(t *testing.T) {
	svc := newTestService(t)

	_, found, err := svc.LoadState(KeyCurrentGame)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.SaveState(KeyCurrentGame, []byte(`{"round":1}`)))

	payload, found, err := svc.LoadState(KeyCurrentGame)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"round":1}`, string(payload))

	// Saving again overwrites rather than duplicating.
	require.NoError(t, svc.SaveState(KeyCurrentGame, []byte(`{"round":2}`)))
	payload, found, err = svc.LoadState(KeyCurrentGame)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"round":2}`, string(payload))

	require.NoError(t, svc.DeleteState(KeyCurrentGame))
	_, found, err = svc.LoadState(KeyCurrentGame)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInsertAndQueryResults(t *testing.T) {
	svc := newTestService(t)

	result := GameResult{
		ID:        "game-1",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Rounds:    4,
		Players: []PlayerResult{
			{Name: "Ann", Score: 120, Human: true},
			{Name: "Otto", Score: 95, Human: false},
			{Name: "Hilda", Score: 85, Human: false},
		},
		Winners: []string{"Ann"},
	}
	require.NoError(t, svc.InsertResult(result))

	all, err := svc.GetAllResults()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, result, all[0])

	byPlayer, err := svc.GetResultsByPlayer("Otto")
	require.NoError(t, err)
	assert.Len(t, byPlayer, 1)

	_, err = svc.GetResultsByPlayer("Nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestApplyStatsAccumulates(t *testing.T) {
	svc := newTestService(t)

	first := PlayerStats{
		Name:        "Ann",
		Games:       1,
		Wins:        1,
		PickerWins:  2,
		LeasterWins: 1,
		Schneiders:  1,
		TotalPoints: 120,
	}
	require.NoError(t, svc.ApplyStats([]PlayerStats{first}))

	got, err := svc.GetStatsByName("Ann")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// A second game's deltas add onto the stored row.
	require.NoError(t, svc.ApplyStats([]PlayerStats{{
		Name:           "Ann",
		Games:          1,
		PickerLosses:   1,
		DefenderWins:   2,
		DefenderLosses: 1,
		Schneidered:    1,
		TotalPoints:    55,
	}}))

	got, err = svc.GetStatsByName("Ann")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{
		Name:           "Ann",
		Games:          2,
		Wins:           1,
		PickerWins:     2,
		PickerLosses:   1,
		DefenderWins:   2,
		DefenderLosses: 1,
		LeasterWins:    1,
		Schneiders:     1,
		Schneidered:    1,
		TotalPoints:    175,
	}, got)

	_, err = svc.GetStatsByName("Nobody")
	assert.Error(t, err)
}
