package game

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lewiesnyder/sheepshead/internal/protocol"
	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// MessageSender defines the function signature for sending messages back to
// clients. The Hub provides an implementation; sends to AI seat IDs are
// silently dropped there.
type MessageSender func(clientID string, message []byte)

// Saver is the storage collaborator. Saves are best-effort: a failure is
// logged and gameplay continues with the in-memory state authoritative.
type Saver interface {
	SaveState(key string, payload []byte) error
}

// TableConfig carries the session policies that are not game rules.
type TableConfig struct {
	ThinkDelay time.Duration // pause before each AI action
	MaxRounds  int           // auto-end after this many rounds; 0 = play until asked to stop
	SaveKey    string        // snapshot key for the storage collaborator
}

// Table owns one running game: the authoritative GameState, the transport
// callback, persistence and the AI drive loop. One action is fully applied,
// including any trick/round cascade and resulting AI turns, before the next
// is accepted.
type Table struct {
	mu       sync.Mutex
	state    *GameState
	cfg      TableConfig
	send     MessageSender
	saver    Saver
	history  []RoundSummary
	finished bool

	// OnGameOver receives the final state and per-round history exactly
	// once, after the game_over broadcast.
	OnGameOver func(final *GameState, rounds []RoundSummary)
}

// NewTable creates a table for the given roster. dealerIndex picks the
// first dealer.
func NewTable(roster []*shared.Player, dealerIndex int, cfg TableConfig, saver Saver) (*Table, error) {
	state, err := NewGame(roster, dealerIndex)
	if err != nil {
		return nil, err
	}
	return &Table{state: state, cfg: cfg, saver: saver}, nil
}

// ResumeTable creates a table around a previously validated state snapshot.
func ResumeTable(state *GameState, cfg TableConfig, saver Saver) *Table {
	return &Table{state: state, cfg: cfg, saver: saver}
}

// Restore deserializes a snapshot and checks its invariants. Malformed or
// invariant-violating data is rejected so callers treat it as absent.
func Restore(data []byte) (*GameState, error) {
	var state GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.CurrentTrick == nil {
		state.CurrentTrick = shared.NewTrick()
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// ID returns the game's ID.
func (t *Table) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ID
}

// State returns a deep copy of the current state.
func (t *Table) State() *GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Start deals the first round and begins driving the game. Called once,
// in its own goroutine, by the Hub.
func (t *Table) Start(sender MessageSender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send = sender
	log.Printf("Game %s: starting with %d players.", t.state.ID, t.state.NumPlayers())

	startMsg, _ := protocol.NewMessage("game_start", protocol.GameStartPayload{
		GameID:  t.state.ID,
		Players: t.playerInfos(),
	})
	t.broadcast(startMsg)

	if t.state.Phase == Dealing {
		next, err := StartRound(t.state)
		if err != nil {
			log.Printf("Game %s: failed to start round: %v", t.state.ID, err)
			return
		}
		t.state = next
	}
	t.persist()
	t.sendHands()
	t.broadcastGameState()
	t.drive()
}

// HandlePlayerAction processes one inbound client message for this game.
func (t *Table) HandlePlayerAction(clientID string, msg protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		t.sendError(clientID, "Game is already over.")
		return
	}

	switch msg.Type {
	case "next_round", "end_game":
		t.handleRoundBoundary(clientID, msg.Type)
		return
	}

	action, ok := t.decodeAction(clientID, msg)
	if !ok {
		return
	}
	if !t.apply(action) {
		return
	}
	t.drive()
}

// decodeAction maps a protocol message onto a state-machine action.
func (t *Table) decodeAction(clientID string, msg protocol.Message) (Action, bool) {
	switch msg.Type {
	case "pick":
		return Action{Type: ActionPick, Player: clientID}, true
	case "pass":
		return Action{Type: ActionPass, Player: clientID}, true
	case "bury":
		var payload protocol.BuryPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.sendError(clientID, "Invalid bury message.")
			return Action{}, false
		}
		return Action{Type: ActionBury, Player: clientID, Cards: payload.Cards}, true
	case "call_partner":
		var payload protocol.CallPartnerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.sendError(clientID, "Invalid call_partner message.")
			return Action{}, false
		}
		return Action{Type: ActionCallPartner, Player: clientID, Partner: payload.PartnerID}, true
	case "play_card":
		var payload protocol.PlayCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.sendError(clientID, "Invalid play_card message.")
			return Action{}, false
		}
		card := shared.Card{Suit: payload.Suit, Rank: payload.Rank}
		return Action{Type: ActionPlayCard, Player: clientID, Card: &card}, true
	default:
		t.sendError(clientID, "Unknown action.")
		return Action{}, false
	}
}

// apply runs one action through the state machine, emitting trick and round
// messages for any cascade, and persists the new state. Returns false when
// the action was rejected.
func (t *Table) apply(action Action) bool {
	prev := t.state

	// A play that fills the trick resolves it inside Apply; capture the
	// completed trick here so it can still be broadcast.
	completesTrick := prev.Phase == Playing &&
		action.Type == ActionPlayCard &&
		len(prev.CurrentTrick.Cards) == prev.NumPlayers()-1

	next, err := Apply(prev, action)
	if err != nil {
		log.Printf("Game %s: rejected %s from %s: %v", prev.ID, action.Type, action.Player, err)
		t.sendError(action.Player, err.Error())
		return false
	}
	t.state = next
	t.persist()

	if completesTrick {
		trick := prev.CurrentTrick.Clone()
		trick.AddCard(*action.Card, action.Player)
		winning, _ := trick.Winner()
		trickMsg, _ := protocol.NewMessage("trick_end", protocol.TrickEndPayload{
			WinnerID: winning.PlayerID,
			Cards:    trick.CardList(),
			Points:   trick.Points(),
		})
		t.broadcast(trickMsg)
	}

	if next.Phase == Scoring && next.LastRound != nil {
		t.history = append(t.history, *next.LastRound)
		t.broadcastRoundEnd(*next.LastRound)
	}

	t.broadcastGameState()
	return true
}

// drive advances the game while no human input is required: AI turns in the
// decision phases, and round boundaries when the table auto-advances.
func (t *Table) drive() {
	for !t.finished {
		switch t.state.Phase {
		case Picking, Burying, CallingPartner, Playing:
			current := t.state.CurrentPlayer()
			if current.Human {
				t.notifyTurn(current)
				return
			}
			if t.cfg.ThinkDelay > 0 {
				time.Sleep(t.cfg.ThinkDelay)
			}
			action, ok := NextAIAction(t.state)
			if !ok {
				return
			}
			if !t.apply(action) {
				// An AI action should never be rejected; bail rather
				// than spin.
				log.Printf("Game %s: AI action %s rejected, stopping drive loop.", t.state.ID, action.Type)
				return
			}
		case Scoring:
			if t.cfg.MaxRounds > 0 && t.state.Round >= t.cfg.MaxRounds {
				t.endGame()
				return
			}
			if t.hasHuman() {
				// The human decides when the next round starts.
				return
			}
			if !t.advanceRound() {
				return
			}
		default:
			return
		}
	}
}

// handleRoundBoundary processes the human's next_round / end_game decision
// from the scoring phase.
func (t *Table) handleRoundBoundary(clientID, msgType string) {
	if t.state.Phase != Scoring {
		t.sendError(clientID, "No round is awaiting scoring.")
		return
	}
	if p := t.state.PlayerByID(clientID); p == nil {
		t.sendError(clientID, "You are not in this game.")
		return
	}
	if msgType == "end_game" {
		t.endGame()
		return
	}
	if t.advanceRound() {
		t.drive()
	}
}

func (t *Table) advanceRound() bool {
	next, err := AdvanceRound(t.state)
	if err != nil {
		log.Printf("Game %s: failed to advance round: %v", t.state.ID, err)
		return false
	}
	t.state = next
	t.persist()
	t.sendHands()
	t.broadcastGameState()
	return true
}

func (t *Table) endGame() {
	next, err := EndGame(t.state)
	if err != nil {
		log.Printf("Game %s: failed to end game: %v", t.state.ID, err)
		return
	}
	t.state = next
	t.finished = true
	t.persist()

	best := t.state.Players[0].Score
	for _, p := range t.state.Players[1:] {
		if p.Score > best {
			best = p.Score
		}
	}
	var winners []string
	for _, p := range t.state.Players {
		if p.Score == best {
			winners = append(winners, p.ID)
		}
	}

	overMsg, _ := protocol.NewMessage("game_over", protocol.GameOverPayload{
		GameID:    t.state.ID,
		WinnerIDs: winners,
		Players:   t.playerInfos(),
		Rounds:    t.state.Round,
	})
	t.broadcast(overMsg)
	log.Printf("Game %s: over after %d rounds.", t.state.ID, t.state.Round)

	if t.OnGameOver != nil {
		t.OnGameOver(t.state.Clone(), append([]RoundSummary(nil), t.history...))
	}
}

// persist snapshots the state through the storage collaborator. Failures
// are logged and ignored.
func (t *Table) persist() {
	if t.saver == nil || t.cfg.SaveKey == "" {
		return
	}
	payload, err := json.Marshal(t.state)
	if err != nil {
		log.Printf("Game %s: failed to marshal state: %v", t.state.ID, err)
		return
	}
	if err := t.saver.SaveState(t.cfg.SaveKey, payload); err != nil {
		log.Printf("Game %s: failed to persist state: %v", t.state.ID, err)
	}
}

func (t *Table) hasHuman() bool {
	for _, p := range t.state.Players {
		if p.Human {
			return true
		}
	}
	return false
}

// --- Messaging helpers (lock held) ---

func (t *Table) broadcast(message []byte) {
	if t.send == nil {
		return
	}
	for _, p := range t.state.Players {
		t.send(p.ID, message)
	}
}

func (t *Table) sendError(clientID, errMsg string) {
	if t.send == nil {
		return
	}
	msg, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: errMsg})
	t.send(clientID, msg)
}

func (t *Table) sendHands() {
	if t.send == nil {
		return
	}
	blindSize, _ := shared.BlindSize(t.state.NumPlayers())
	for _, p := range t.state.Players {
		msg, _ := protocol.NewMessage("deal_hand", protocol.DealHandPayload{
			Round:     t.state.Round,
			DealerID:  t.state.Players[t.state.DealerIndex].ID,
			Hand:      p.Hand,
			BlindSize: blindSize,
		})
		t.send(p.ID, msg)
	}
}

func (t *Table) notifyTurn(p *shared.Player) {
	if t.send == nil {
		return
	}
	payload := protocol.YourTurnPayload{PlayerID: p.ID, Phase: string(t.state.Phase)}
	if t.state.Phase == Playing {
		payload.ValidMoves = LegalPlays(p.Hand, t.state.CurrentTrick)
	}
	msg, _ := protocol.NewMessage("your_turn", payload)
	t.send(p.ID, msg)
}

func (t *Table) broadcastGameState() {
	if t.send == nil {
		return
	}
	var onTable []shared.PlayedCard
	if t.state.CurrentTrick != nil {
		onTable = t.state.CurrentTrick.Cards
	}
	msg, _ := protocol.NewMessage("game_state_update", protocol.GameStatePayload{
		CurrentPlayerID: t.state.CurrentPlayer().ID,
		Phase:           string(t.state.Phase),
		Round:           t.state.Round,
		IsLeaster:       t.state.IsLeaster,
		CardsOnTable:    onTable,
		Players:         t.playerInfos(),
	})
	t.broadcast(msg)
}

func (t *Table) broadcastRoundEnd(summary RoundSummary) {
	if t.send == nil {
		return
	}
	msg, _ := protocol.NewMessage("round_end", protocol.RoundEndPayload{
		Round:          summary.Round,
		Leaster:        summary.Leaster,
		Solo:           summary.Solo,
		Schneidered:    summary.Schneidered,
		PickerTeam:     summary.PickerTeam,
		DefenderTeam:   summary.DefenderTeam,
		PickerPoints:   summary.PickerPoints,
		DefenderPoints: summary.DefenderPoints,
		WinnerIDs:      summary.WinnerIDs,
		Players:        t.playerInfos(),
	})
	t.broadcast(msg)
}

func (t *Table) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(t.state.Players))
	for i, p := range t.state.Players {
		infos[i] = protocol.PlayerInfo{
			ID:       p.ID,
			Name:     p.Name,
			Human:    p.Human,
			Seat:     i,
			IsDealer: p.IsDealer,
			IsPicker: p.IsPicker,
			Score:    p.Score,
		}
	}
	return infos
}
