package game

import (
	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// Pure rule functions. Nothing in this file touches shared state; every
// function computes a result from the values passed in.

// winThreshold is the picker team's winning score: strictly more than half
// of the deck's 120 points. A 60/60 split goes to the defenders.
const winThreshold = 61

// IsLegalPlay reports whether playing card from hand is legal against the
// current trick. Leading is unrestricted. A follower must match the lead
// class (trump counts as its own suit) when the hand can; a hand with no
// card of the lead class may play anything, including trump.
func IsLegalPlay(card shared.Card, hand []shared.Card, trick *shared.Trick) bool {
	lead, ok := trick.LeadSuit()
	if !ok {
		return true
	}
	if card.EffectiveSuit() == lead {
		return true
	}
	for _, c := range hand {
		if c.EffectiveSuit() == lead {
			return false
		}
	}
	return true
}

// LegalPlays returns the subset of hand that may legally be played against
// the current trick, preserving hand order.
func LegalPlays(hand []shared.Card, trick *shared.Trick) []shared.Card {
	var out []shared.Card
	for _, c := range hand {
		if IsLegalPlay(c, hand, trick) {
			out = append(out, c)
		}
	}
	return out
}

// Points returns the total point value of the given cards.
func Points(cards []shared.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}

// OnPickerTeam reports whether the player with the given ID is on the
// picker's team: the picker, or the called partner. In a leaster nobody is.
func OnPickerTeam(g *GameState, playerID string) bool {
	if g.IsLeaster {
		return false
	}
	picker := g.Picker()
	if picker == nil {
		return false
	}
	return picker.ID == playerID || picker.Partner == playerID
}

// SameTeam reports whether two players are teammates. In a leaster every
// player plays alone.
func SameTeam(g *GameState, a, b string) bool {
	if a == b {
		return true
	}
	if g.IsLeaster || g.Picker() == nil {
		return false
	}
	return OnPickerTeam(g, a) == OnPickerTeam(g, b)
}

// RoundSummary captures the outcome of a finished round, computed before
// the round-scoped state resets.
type RoundSummary struct {
	Round          int      `json:"round"`
	Leaster        bool     `json:"leaster"`
	Solo           bool     `json:"solo"`
	PickerTeam     []string `json:"picker_team,omitempty"`
	DefenderTeam   []string `json:"defender_team,omitempty"`
	PickerPoints   int      `json:"picker_points"`
	DefenderPoints int      `json:"defender_points"`
	PickerWon      bool     `json:"picker_won"`
	Schneidered    bool     `json:"schneidered"`
	WinnerIDs      []string `json:"winner_ids"`
}

// ScoreRound tallies a completed round. For a normal round the buried
// cards' points count for the picker's side and the picker team wins at 61
// of 120. For a leaster the single highest individual trick total wins;
// the untouched blind's points go with the last trick, whose winner holds
// the turn when the round ends, and ties break toward the earliest seat
// in play order after the dealer.
func ScoreRound(g *GameState) RoundSummary {
	summary := RoundSummary{Round: g.Round, Leaster: g.IsLeaster}

	if g.IsLeaster {
		winnerIdx := -1
		best := -1
		for offset := 1; offset <= g.NumPlayers(); offset++ {
			i := (g.DealerIndex + offset) % g.NumPlayers()
			pts := g.Players[i].TrickPoints()
			if i == g.TurnIndex {
				pts += Points(g.Blind)
			}
			if pts > best {
				best = pts
				winnerIdx = i
			}
		}
		summary.WinnerIDs = []string{g.Players[winnerIdx].ID}
		summary.PickerPoints = best
		return summary
	}

	picker := g.Picker()
	summary.Solo = picker.Partner == ""
	for _, p := range g.Players {
		if OnPickerTeam(g, p.ID) {
			summary.PickerTeam = append(summary.PickerTeam, p.ID)
			summary.PickerPoints += p.TrickPoints()
		} else {
			summary.DefenderTeam = append(summary.DefenderTeam, p.ID)
			summary.DefenderPoints += p.TrickPoints()
		}
	}
	summary.PickerPoints += Points(g.Buried)

	summary.PickerWon = summary.PickerPoints >= winThreshold
	if summary.PickerWon {
		summary.WinnerIDs = summary.PickerTeam
		summary.Schneidered = summary.DefenderPoints == 0
	} else {
		summary.WinnerIDs = summary.DefenderTeam
		summary.Schneidered = summary.PickerPoints == 0
	}
	return summary
}
