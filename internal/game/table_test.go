package game

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiesnyder/sheepshead/internal/protocol"
)

// memorySaver records snapshots in memory.
type memorySaver struct {
	mu    sync.Mutex
	saves map[string][]byte
	count int
}

func newMemorySaver() *memorySaver {
	return &memorySaver{saves: map[string][]byte{}}
}

func (s *memorySaver) SaveState(key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[key] = append([]byte(nil), payload...)
	s.count++
	return nil
}

type failingSaver struct{}

func (failingSaver) SaveState(string, []byte) error {
	return errors.New("disk full")
}

// messageLog collects every message a table sends, decoded to its envelope.
type messageLog struct {
	mu       sync.Mutex
	messages []protocol.Message
	targets  []string
}

func (l *messageLog) sender() MessageSender {
	return func(clientID string, message []byte) {
		var msg protocol.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		l.messages = append(l.messages, msg)
		l.targets = append(l.targets, clientID)
	}
}

func (l *messageLog) byType(msgType string) []protocol.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []protocol.Message
	for _, m := range l.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func TestTablePlaysFullGameWithAI(t *testing.T) {
	saver := newMemorySaver()
	table, err := NewTable(newTestRoster(3), 0, TableConfig{
		ThinkDelay: 0,
		MaxRounds:  2,
		SaveKey:    "test_game",
	}, saver)
	require.NoError(t, err)

	var (
		finalState *GameState
		rounds     []RoundSummary
		calls      int
	)
	table.OnGameOver = func(final *GameState, history []RoundSummary) {
		finalState = final
		rounds = history
		calls++
	}

	log := &messageLog{}
	table.Start(log.sender())

	require.Equal(t, 1, calls)
	require.NotNil(t, finalState)
	assert.Equal(t, GameOver, finalState.Phase)
	assert.Equal(t, 2, finalState.Round)
	assert.Len(t, rounds, 2)
	assert.Equal(t, 1, rounds[0].Round)
	assert.Equal(t, 2, rounds[1].Round)

	// One game_start, one round_end per round, one game_over, each sent to
	// all three seats.
	assert.Len(t, log.byType("game_start"), 3)
	assert.Len(t, log.byType("round_end"), 6)
	overs := log.byType("game_over")
	require.Len(t, overs, 3)

	var over protocol.GameOverPayload
	require.NoError(t, json.Unmarshal(overs[0].Payload, &over))
	assert.Equal(t, finalState.ID, over.GameID)
	assert.Equal(t, 2, over.Rounds)
	assert.NotEmpty(t, over.WinnerIDs)

	// The snapshot is kept current throughout.
	assert.Greater(t, saver.count, 2)
	restored, err := Restore(saver.saves["test_game"])
	require.NoError(t, err)
	assert.Equal(t, GameOver, restored.Phase)
}

func TestTableRejectsActionsAfterGameOver(t *testing.T) {
	table, err := NewTable(newTestRoster(3), 0, TableConfig{MaxRounds: 1}, nil)
	require.NoError(t, err)

	log := &messageLog{}
	table.Start(log.sender())
	require.NotEmpty(t, log.byType("game_over"))

	table.HandlePlayerAction("p1", protocol.Message{Type: "pick"})
	errs := log.byType("error")
	require.NotEmpty(t, errs)

	var payload protocol.ErrorPayload
	require.NoError(t, json.Unmarshal(errs[len(errs)-1].Payload, &payload))
	assert.Contains(t, payload.Message, "over")
}

func TestTableContinuesWhenSaverFails(t *testing.T) {
	table, err := NewTable(newTestRoster(3), 0, TableConfig{
		MaxRounds: 1,
		SaveKey:   "doomed",
	}, failingSaver{})
	require.NoError(t, err)

	log := &messageLog{}
	table.Start(log.sender())
	assert.NotEmpty(t, log.byType("game_over"))
}

func TestTableRejectsUnknownMessage(t *testing.T) {
	table, err := NewTable(newTestRoster(4), 0, TableConfig{}, nil)
	require.NoError(t, err)

	log := &messageLog{}
	table.mu.Lock()
	table.send = log.sender()
	table.mu.Unlock()

	table.HandlePlayerAction("p1", protocol.Message{Type: "juggle"})
	assert.NotEmpty(t, log.byType("error"))
}

func TestEndGameDeclaresPointLeaders(t *testing.T) {
	newScoringTable := func(t *testing.T, scores [3]int) (*Table, *messageLog) {
		t.Helper()
		state, err := newTestRound(3)
		require.NoError(t, err)
		state.Phase = Scoring
		for i, s := range scores {
			state.Players[i].Score = s
		}
		table := ResumeTable(state, TableConfig{}, nil)
		log := &messageLog{}
		table.mu.Lock()
		table.send = log.sender()
		table.mu.Unlock()
		return table, log
	}

	t.Run("single leader wins", func(t *testing.T) {
		table, log := newScoringTable(t, [3]int{40, 70, 10})
		table.HandlePlayerAction("p1", protocol.Message{Type: "end_game"})

		overs := log.byType("game_over")
		require.NotEmpty(t, overs)
		var payload protocol.GameOverPayload
		require.NoError(t, json.Unmarshal(overs[0].Payload, &payload))
		assert.Equal(t, []string{"p2"}, payload.WinnerIDs)
	})

	t.Run("tied leaders share the win", func(t *testing.T) {
		table, log := newScoringTable(t, [3]int{70, 70, 10})
		table.HandlePlayerAction("p1", protocol.Message{Type: "end_game"})

		overs := log.byType("game_over")
		require.NotEmpty(t, overs)
		var payload protocol.GameOverPayload
		require.NoError(t, json.Unmarshal(overs[0].Payload, &payload))
		assert.Equal(t, []string{"p1", "p2"}, payload.WinnerIDs)
	})
}

func TestTableStateReturnsCopy(t *testing.T) {
	table, err := NewTable(newTestRoster(4), 0, TableConfig{}, nil)
	require.NoError(t, err)

	state := table.State()
	state.Players[0].Score = 42
	assert.Zero(t, table.State().Players[0].Score)
}

func TestResumeTableKeepsState(t *testing.T) {
	state, err := newTestRound(5)
	require.NoError(t, err)

	table := ResumeTable(state, TableConfig{}, nil)
	assert.Equal(t, state.ID, table.ID())
	assert.Equal(t, Picking, table.State().Phase)
}
