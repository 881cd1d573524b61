package game

import (
	"errors"
	"fmt"

	"github.com/lewiesnyder/sheepshead/internal/shared"

	"github.com/google/uuid"
)

var (
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrWrongPhase     = errors.New("action not valid in current phase")
	ErrNotPicker      = errors.New("only the picker may do that")
	ErrCardNotHeld    = errors.New("card not in hand")
	ErrIllegalPlay    = errors.New("card does not follow suit")
	ErrBadBury        = errors.New("invalid bury selection")
	ErrInvalidPartner = errors.New("invalid partner selection")
)

// ActionType tags a player action.
type ActionType string

const (
	ActionPick        ActionType = "pick"
	ActionPass        ActionType = "pass"
	ActionBury        ActionType = "bury"
	ActionCallPartner ActionType = "call_partner"
	ActionPlayCard    ActionType = "play_card"
)

// Action is one player action presented to the state machine. Exactly one
// of Card, Cards or Partner is meaningful depending on Type.
type Action struct {
	Type    ActionType    `json:"type"`
	Player  string        `json:"player"`
	Card    *shared.Card  `json:"card,omitempty"`
	Cards   []shared.Card `json:"cards,omitempty"`
	Partner string        `json:"partner,omitempty"`
}

// NewGame creates the initial state for a fresh game. The roster must hold
// 3-5 players; dealerIndex selects the first round's dealer. No cards are
// dealt until StartRound.
func NewGame(roster []*shared.Player, dealerIndex int) (*GameState, error) {
	if len(roster) < 3 || len(roster) > 5 {
		return nil, fmt.Errorf("sheepshead needs 3-5 players, got %d", len(roster))
	}
	if dealerIndex < 0 || dealerIndex >= len(roster) {
		return nil, fmt.Errorf("dealer index %d out of range", dealerIndex)
	}

	g := &GameState{
		ID:           uuid.NewString(),
		Players:      roster,
		DealerIndex:  dealerIndex,
		TurnIndex:    (dealerIndex + 1) % len(roster),
		Phase:        Dealing,
		CurrentTrick: shared.NewTrick(),
	}
	for i, p := range roster {
		p.IsDealer = i == dealerIndex
	}
	g.appendEvent("game_created", "", fmt.Sprintf("%d players", len(roster)))
	return g, nil
}

// StartRound deals a fresh shuffled deck and opens the picking phase. Valid
// from the initial Dealing phase and again from Scoring between rounds.
func StartRound(g *GameState) (*GameState, error) {
	deck := shared.NewDeck()
	deck.Shuffle()
	return startRoundWithDeck(g, deck)
}

// startRoundWithDeck is StartRound with a caller-supplied deck, which keeps
// dealing deterministic under test.
func startRoundWithDeck(g *GameState, deck *shared.Deck) (*GameState, error) {
	if g.Phase != Dealing && g.Phase != Scoring {
		return g, ErrWrongPhase
	}

	next := g.Clone()
	next.Round++
	next.TrickCount = 0
	next.IsLeaster = false
	next.Buried = nil
	next.CurrentTrick = shared.NewTrick()

	perPlayer, err := shared.HandSize(next.NumPlayers())
	if err != nil {
		return g, err
	}
	hands, blind, err := deck.Deal(next.NumPlayers(), perPlayer)
	if err != nil {
		return g, err
	}

	// Hand 0 goes to the seat after the dealer, round-robin from there.
	for offset, hand := range hands {
		seat := (next.DealerIndex + 1 + offset) % next.NumPlayers()
		next.Players[seat].ResetForRound()
		next.Players[seat].Hand = hand
	}
	next.Blind = blind
	next.TurnIndex = next.nextSeat(next.DealerIndex)
	next.Phase = Picking
	next.appendEvent("round_start", "", fmt.Sprintf("round %d, dealer %s", next.Round, next.Players[next.DealerIndex].ID))
	return next, nil
}

// AdvanceRound moves from Scoring into the next round's picking phase.
// Dealer rotation already happened when the round was scored.
func AdvanceRound(g *GameState) (*GameState, error) {
	if g.Phase != Scoring {
		return g, ErrWrongPhase
	}
	return StartRound(g)
}

// EndGame moves from Scoring to GameOver. The decision to stop is external
// to the state machine.
func EndGame(g *GameState) (*GameState, error) {
	if g.Phase != Scoring {
		return g, ErrWrongPhase
	}
	next := g.Clone()
	next.Phase = GameOver
	next.appendEvent("game_over", "", "")
	return next, nil
}

// Apply validates one action against the current state and returns the
// resulting state. On rejection the original state is returned unchanged
// alongside the error, so callers may treat failures as a no-op and retry.
// Trick and round completion cascade inside a single Apply call.
func Apply(g *GameState, a Action) (*GameState, error) {
	actorIdx := g.PlayerIndex(a.Player)
	if actorIdx == -1 {
		return g, ErrUnknownPlayer
	}
	if actorIdx != g.TurnIndex {
		return g, ErrNotYourTurn
	}

	switch a.Type {
	case ActionPick:
		return applyPick(g, actorIdx)
	case ActionPass:
		return applyPass(g, actorIdx)
	case ActionBury:
		return applyBury(g, actorIdx, a.Cards)
	case ActionCallPartner:
		return applyCallPartner(g, actorIdx, a.Partner)
	case ActionPlayCard:
		if a.Card == nil {
			return g, ErrCardNotHeld
		}
		return applyPlayCard(g, actorIdx, *a.Card)
	default:
		return g, fmt.Errorf("unknown action type %q", a.Type)
	}
}

func applyPick(g *GameState, actorIdx int) (*GameState, error) {
	if g.Phase != Picking {
		return g, ErrWrongPhase
	}
	next := g.Clone()
	picker := next.Players[actorIdx]
	picker.IsPicker = true
	picker.Hand = append(picker.Hand, next.Blind...)
	next.Blind = nil
	next.Phase = Burying
	next.appendEvent(string(ActionPick), picker.ID, "")
	return next, nil
}

func applyPass(g *GameState, actorIdx int) (*GameState, error) {
	if g.Phase != Picking {
		return g, ErrWrongPhase
	}
	next := g.Clone()
	actor := next.Players[actorIdx]
	next.appendEvent(string(ActionPass), actor.ID, "")

	// The blind is offered starting left of the dealer; the dealer is last.
	// When the dealer passes too, the round becomes a leaster. The blind
	// stays face down and scores with the last trick.
	if actorIdx == next.DealerIndex {
		next.IsLeaster = true
		next.Phase = Playing
		next.TurnIndex = next.nextSeat(next.DealerIndex)
		next.appendEvent("leaster", "", "all players passed")
		return next, nil
	}
	next.TurnIndex = next.nextSeat(actorIdx)
	return next, nil
}

func applyBury(g *GameState, actorIdx int, cards []shared.Card) (*GameState, error) {
	if g.Phase != Burying {
		return g, ErrWrongPhase
	}
	if !g.Players[actorIdx].IsPicker {
		return g, ErrNotPicker
	}
	buryCount, err := shared.BlindSize(g.NumPlayers())
	if err != nil {
		return g, err
	}
	if len(cards) != buryCount {
		return g, ErrBadBury
	}
	seen := map[shared.Card]bool{}
	for _, c := range cards {
		if seen[c] || !g.Players[actorIdx].HasCard(c) {
			return g, ErrBadBury
		}
		seen[c] = true
	}

	next := g.Clone()
	picker := next.Players[actorIdx]
	for _, c := range cards {
		picker.RemoveCard(c)
	}
	next.Buried = append([]shared.Card(nil), cards...)
	next.appendEvent(string(ActionBury), picker.ID, fmt.Sprintf("%d cards", len(cards)))

	if next.NumPlayers() == 5 {
		next.Phase = CallingPartner
	} else {
		openPlay(next)
	}
	return next, nil
}

func applyCallPartner(g *GameState, actorIdx int, partnerID string) (*GameState, error) {
	if g.Phase != CallingPartner {
		return g, ErrWrongPhase
	}
	if !g.Players[actorIdx].IsPicker {
		return g, ErrNotPicker
	}
	if partnerID == g.Players[actorIdx].ID || g.PlayerIndex(partnerID) == -1 {
		return g, ErrInvalidPartner
	}

	next := g.Clone()
	next.Players[actorIdx].Partner = partnerID
	next.appendEvent(string(ActionCallPartner), next.Players[actorIdx].ID, partnerID)
	openPlay(next)
	return next, nil
}

// openPlay enters the playing phase. The seat left of the dealer leads the
// first trick.
func openPlay(g *GameState) {
	g.Phase = Playing
	g.TurnIndex = g.nextSeat(g.DealerIndex)
}

func applyPlayCard(g *GameState, actorIdx int, card shared.Card) (*GameState, error) {
	if g.Phase != Playing {
		return g, ErrWrongPhase
	}
	actor := g.Players[actorIdx]
	if !actor.HasCard(card) {
		return g, ErrCardNotHeld
	}
	if !IsLegalPlay(card, actor.Hand, g.CurrentTrick) {
		return g, ErrIllegalPlay
	}

	next := g.Clone()
	next.Players[actorIdx].RemoveCard(card)
	next.CurrentTrick.AddCard(card, actor.ID)
	next.appendEvent(string(ActionPlayCard), actor.ID, card.String())

	if len(next.CurrentTrick.Cards) < next.NumPlayers() {
		next.TurnIndex = next.nextSeat(actorIdx)
		return next, nil
	}

	// Cascade: the trick is complete, resolve it, and if hands are empty
	// score the round as well.
	resolveTrick(next)
	if len(next.Players[next.TurnIndex].Hand) == 0 {
		finishRound(next)
	}
	return next, nil
}

func resolveTrick(g *GameState) {
	winning, _ := g.CurrentTrick.Winner()
	winnerIdx := g.PlayerIndex(winning.PlayerID)
	winner := g.Players[winnerIdx]
	winner.TricksWon = append(winner.TricksWon, g.CurrentTrick.CardList())
	g.appendEvent("trick_end", winner.ID, fmt.Sprintf("trick %d, %d points", g.TrickCount+1, g.CurrentTrick.Points()))
	g.TrickCount++
	g.CurrentTrick = shared.NewTrick()
	g.TurnIndex = winnerIdx
}

func finishRound(g *GameState) {
	summary := ScoreRound(g)
	g.LastRound = &summary

	if summary.Leaster {
		winner := g.PlayerByID(summary.WinnerIDs[0])
		winner.Score += summary.PickerPoints
	} else {
		for _, p := range g.Players {
			if OnPickerTeam(g, p.ID) {
				p.Score += summary.PickerPoints
			} else {
				p.Score += summary.DefenderPoints
			}
		}
	}

	// Round-scoped state resets; scores and the rotated dealer persist.
	for _, p := range g.Players {
		p.ResetForRound()
		p.IsDealer = false
	}
	g.DealerIndex = g.nextSeat(g.DealerIndex)
	g.Players[g.DealerIndex].IsDealer = true
	g.Blind = nil
	g.Buried = nil
	g.CurrentTrick = shared.NewTrick()
	g.IsLeaster = false
	g.Phase = Scoring
	g.appendEvent("round_end", "", fmt.Sprintf("round %d scored", summary.Round))
}
