package game

import (
	"fmt"

	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// newTestRoster builds n AI players p1..pn.
func newTestRoster(n int) []*shared.Player {
	roster := make([]*shared.Player, n)
	for i := range roster {
		roster[i] = shared.NewPlayer(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Player %d", i+1), false)
	}
	return roster
}

// newTestRound starts a round from an unshuffled deck so hands are known:
// with dealer at seat 0, seat 1 receives clubs 7 through queen, and the
// blind is the king and ace of diamonds.
func newTestRound(n int) (*GameState, error) {
	state, err := NewGame(newTestRoster(n), 0)
	if err != nil {
		return nil, err
	}
	return startRoundWithDeck(state, shared.NewDeck())
}

func card(suit shared.Suit, rank shared.Rank) shared.Card {
	return shared.Card{Suit: suit, Rank: rank}
}

func cardPtr(suit shared.Suit, rank shared.Rank) *shared.Card {
	c := card(suit, rank)
	return &c
}
