package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiesnyder/sheepshead/internal/game"
	"github.com/lewiesnyder/sheepshead/internal/shared"
)

func finishedGame() *game.GameState {
	players := []*shared.Player{
		shared.NewPlayer("p1", "Ann", true),
		shared.NewPlayer("p2", "Otto", false),
		shared.NewPlayer("p3", "Hilda", false),
	}
	players[0].Score = 150
	players[1].Score = 95
	players[2].Score = 115
	players[0].IsDealer = true
	return &game.GameState{
		ID:      "game-1",
		Players: players,
		Phase:   game.GameOver,
		Round:   3,
	}
}

func TestBuildResult(t *testing.T) {
	rounds := []game.RoundSummary{
		{
			Round:          1,
			PickerTeam:     []string{"p1"},
			DefenderTeam:   []string{"p2", "p3"},
			PickerPoints:   80,
			DefenderPoints: 40,
			PickerWon:      true,
			WinnerIDs:      []string{"p1"},
		},
		{
			Round:          2,
			PickerTeam:     []string{"p2"},
			DefenderTeam:   []string{"p1", "p3"},
			PickerPoints:   20,
			DefenderPoints: 100,
			PickerWon:      false,
			Schneidered:    true,
			WinnerIDs:      []string{"p1", "p3"},
		},
		{
			Round:     3,
			Leaster:   true,
			WinnerIDs: []string{"p3"},
		},
	}

	result, deltas := buildResult(finishedGame(), rounds)

	assert.Equal(t, "game-1", result.ID)
	assert.Equal(t, 3, result.Rounds)
	assert.Equal(t, []string{"Ann"}, result.Winners)
	require.Len(t, result.Players, 3)
	assert.Equal(t, "Ann", result.Players[0].Name)
	assert.Equal(t, 150, result.Players[0].Score)
	assert.True(t, result.Players[0].Human)

	require.Len(t, deltas, 3)

	ann := deltas[0]
	assert.Equal(t, "Ann", ann.Name)
	assert.Equal(t, 1, ann.Games)
	assert.Equal(t, 1, ann.Wins)
	assert.Equal(t, 1, ann.PickerWins)
	assert.Equal(t, 1, ann.DefenderWins)
	assert.Equal(t, 1, ann.Schneiders)
	assert.Equal(t, 150, ann.TotalPoints)

	otto := deltas[1]
	assert.Equal(t, "Otto", otto.Name)
	assert.Equal(t, 1, otto.Games)
	assert.Zero(t, otto.Wins)
	assert.Equal(t, 1, otto.DefenderLosses)
	assert.Equal(t, 1, otto.PickerLosses)
	assert.Equal(t, 1, otto.Schneidered)
	assert.Equal(t, 95, otto.TotalPoints)

	hilda := deltas[2]
	assert.Equal(t, "Hilda", hilda.Name)
	assert.Equal(t, 1, hilda.DefenderLosses)
	assert.Equal(t, 1, hilda.DefenderWins)
	assert.Equal(t, 1, hilda.Schneiders)
	assert.Equal(t, 1, hilda.LeasterWins)
	assert.Zero(t, hilda.Wins)
}

func TestBuildResultSharedWin(t *testing.T) {
	state := finishedGame()
	state.Players[2].Score = 150

	result, deltas := buildResult(state, nil)
	assert.Equal(t, []string{"Ann", "Hilda"}, result.Winners)
	assert.Equal(t, 1, deltas[0].Wins)
	assert.Zero(t, deltas[1].Wins)
	assert.Equal(t, 1, deltas[2].Wins)
}
