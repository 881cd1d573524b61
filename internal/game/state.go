package game

import (
	"fmt"
	"time"

	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// Phase represents the current phase of a round.
type Phase string

const (
	Dealing        Phase = "DEALING"
	Picking        Phase = "PICKING"
	Burying        Phase = "BURYING"
	CallingPartner Phase = "CALLING_PARTNER"
	Playing        Phase = "PLAYING"
	Scoring        Phase = "SCORING"
	GameOver       Phase = "GAME_OVER"
)

// Event records one accepted transition in the append-only game log.
type Event struct {
	Type   string    `json:"type"`
	Actor  string    `json:"actor,omitempty"`
	Time   time.Time `json:"time"`
	Detail string    `json:"detail,omitempty"`
}

// GameState is the single source of truth for one game. Transitions never
// mutate a state in place: Apply clones the state, mutates the clone and
// returns it, so a state value can be serialized or restored at any point.
type GameState struct {
	ID           string           `json:"id"`
	Players      []*shared.Player `json:"players"`
	TurnIndex    int              `json:"turn_index"`
	DealerIndex  int              `json:"dealer_index"`
	Phase        Phase            `json:"phase"`
	Blind        []shared.Card    `json:"blind"`
	Buried       []shared.Card    `json:"buried"`
	CurrentTrick *shared.Trick    `json:"current_trick"`
	Round        int              `json:"round"`
	TrickCount   int              `json:"trick_count"`
	IsLeaster    bool             `json:"is_leaster"`
	LastRound    *RoundSummary    `json:"last_round,omitempty"`
	Events       []Event          `json:"events"`
}

// NumPlayers returns the number of seats at the table.
func (g *GameState) NumPlayers() int {
	return len(g.Players)
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *shared.Player {
	return g.Players[g.TurnIndex]
}

// PlayerIndex returns the seat index of the player with the given ID, or -1.
func (g *GameState) PlayerIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id string) *shared.Player {
	if i := g.PlayerIndex(id); i != -1 {
		return g.Players[i]
	}
	return nil
}

// PickerIndex returns the seat index of the picker, or -1 if nobody has
// picked (before picking resolves, or a leaster round).
func (g *GameState) PickerIndex() int {
	for i, p := range g.Players {
		if p.IsPicker {
			return i
		}
	}
	return -1
}

// Picker returns the picking player, or nil.
func (g *GameState) Picker() *shared.Player {
	if i := g.PickerIndex(); i != -1 {
		return g.Players[i]
	}
	return nil
}

// nextSeat returns the seat index after i, wrapping around the table.
func (g *GameState) nextSeat(i int) int {
	return (i + 1) % len(g.Players)
}

// Clone returns a deep copy of the state. The event log backing array is
// shared up to its current length; appends go through appendEvent on the
// clone only.
func (g *GameState) Clone() *GameState {
	out := *g
	out.Players = make([]*shared.Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p.Clone()
	}
	out.Blind = append([]shared.Card(nil), g.Blind...)
	out.Buried = append([]shared.Card(nil), g.Buried...)
	if g.CurrentTrick != nil {
		out.CurrentTrick = g.CurrentTrick.Clone()
	}
	if g.LastRound != nil {
		lr := *g.LastRound
		out.LastRound = &lr
	}
	out.Events = append([]Event(nil), g.Events...)
	return &out
}

func (g *GameState) appendEvent(eventType, actor, detail string) {
	g.Events = append(g.Events, Event{
		Type:   eventType,
		Actor:  actor,
		Time:   time.Now().UTC(),
		Detail: detail,
	})
}

// Validate checks the structural invariants a well-formed state must hold.
// Restored snapshots failing validation are discarded rather than adopted.
func (g *GameState) Validate() error {
	n := len(g.Players)
	if n < 3 || n > 5 {
		return fmt.Errorf("invalid player count %d", n)
	}
	if g.TurnIndex < 0 || g.TurnIndex >= n {
		return fmt.Errorf("turn index %d out of range", g.TurnIndex)
	}
	if g.DealerIndex < 0 || g.DealerIndex >= n {
		return fmt.Errorf("dealer index %d out of range", g.DealerIndex)
	}

	dealers, pickers := 0, 0
	seen := map[string]bool{}
	for _, p := range g.Players {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("duplicate or empty player id %q", p.ID)
		}
		seen[p.ID] = true
		if p.IsDealer {
			dealers++
		}
		if p.IsPicker {
			pickers++
		}
	}
	if dealers != 1 {
		return fmt.Errorf("expected exactly one dealer, found %d", dealers)
	}
	if pickers > 1 {
		return fmt.Errorf("found %d pickers", pickers)
	}
	if g.IsLeaster && pickers != 0 {
		return fmt.Errorf("leaster round cannot have a picker")
	}

	// Card conservation: every card dealt this round is in exactly one
	// place. Phases after a reset (Scoring, GameOver) hold no cards.
	switch g.Phase {
	case Picking, Burying, CallingPartner, Playing:
		total := len(g.Blind) + len(g.Buried)
		if g.CurrentTrick != nil {
			total += len(g.CurrentTrick.Cards)
		}
		counts := map[shared.Card]int{}
		for _, p := range g.Players {
			total += len(p.Hand)
			for _, c := range p.Hand {
				counts[c]++
			}
			for _, trick := range p.TricksWon {
				total += len(trick)
				for _, c := range trick {
					counts[c]++
				}
			}
		}
		for _, c := range g.Blind {
			counts[c]++
		}
		for _, c := range g.Buried {
			counts[c]++
		}
		if g.CurrentTrick != nil {
			for _, pc := range g.CurrentTrick.Cards {
				counts[pc.Card]++
			}
		}
		if total != shared.DeckSize {
			return fmt.Errorf("card count invariant violated: %d cards accounted for", total)
		}
		for c, n := range counts {
			if n != 1 {
				return fmt.Errorf("card %s appears %d times", c, n)
			}
		}
	}
	return nil
}
