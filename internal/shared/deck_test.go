package shared

import (
	"testing"
)

func TestHandAndBlindSizes(t *testing.T) {
	cases := []struct {
		players int
		hand    int
		blind   int
	}{
		{3, 10, 2},
		{4, 7, 4},
		{5, 6, 2},
	}
	for _, c := range cases {
		hand, err := HandSize(c.players)
		if err != nil {
			t.Fatalf("%d players: %v", c.players, err)
		}
		if hand != c.hand {
			t.Errorf("%d players: expected hand size %d, got %d", c.players, c.hand, hand)
		}
		blind, err := BlindSize(c.players)
		if err != nil {
			t.Fatalf("%d players: %v", c.players, err)
		}
		if blind != c.blind {
			t.Errorf("%d players: expected blind size %d, got %d", c.players, c.blind, blind)
		}
		if c.players*hand+blind != DeckSize {
			t.Errorf("%d players: deal does not exhaust the deck", c.players)
		}
	}

	if _, err := HandSize(6); err == nil {
		t.Error("expected error for unsupported table size")
	}
}

func TestDealRoundTrip(t *testing.T) {
	for _, players := range []int{3, 4, 5} {
		deck := NewDeck()
		deck.Shuffle()

		perPlayer, _ := HandSize(players)
		hands, blind, err := deck.Deal(players, perPlayer)
		if err != nil {
			t.Fatalf("%d players: %v", players, err)
		}

		if len(hands) != players {
			t.Fatalf("%d players: got %d hands", players, len(hands))
		}
		seen := map[Card]int{}
		total := len(blind)
		for _, c := range blind {
			seen[c]++
		}
		for _, hand := range hands {
			if len(hand) != perPlayer {
				t.Errorf("%d players: hand of %d cards, expected %d", players, len(hand), perPlayer)
			}
			total += len(hand)
			for _, c := range hand {
				seen[c]++
			}
		}

		if total != DeckSize {
			t.Errorf("%d players: %d cards after deal, expected %d", players, total, DeckSize)
		}
		for c, n := range seen {
			if n != 1 {
				t.Errorf("%d players: card %s dealt %d times", players, c, n)
			}
		}
	}
}

func TestDealTooFewCards(t *testing.T) {
	deck := NewDeck()
	if _, _, err := deck.Deal(5, 10); err == nil {
		t.Error("expected error when deck cannot cover the deal")
	}
}

func TestShufflePreservesSet(t *testing.T) {
	deck := NewDeck()
	before := map[Card]bool{}
	for _, c := range deck.Cards {
		before[c] = true
	}
	deck.Shuffle()
	if len(deck.Cards) != DeckSize {
		t.Fatalf("shuffle changed deck size to %d", len(deck.Cards))
	}
	for _, c := range deck.Cards {
		if !before[c] {
			t.Errorf("shuffle introduced card %s", c)
		}
	}
}
