package shared

import (
	"fmt"
	"math/rand/v2"
)

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// handSizes maps player count to cards dealt per player. The remainder of
// the 32-card deck becomes the blind (2 for 3 and 5 players, 4 for 4).
var handSizes = map[int]int{
	3: 10,
	4: 7,
	5: 6,
}

// HandSize returns the cards dealt per player for the given table size.
func HandSize(numPlayers int) (int, error) {
	size, ok := handSizes[numPlayers]
	if !ok {
		return 0, fmt.Errorf("unsupported table size: %d players", numPlayers)
	}
	return size, nil
}

// BlindSize returns the number of undealt cards for the given table size.
// The picker buries exactly this many cards so hands stay even.
func BlindSize(numPlayers int) (int, error) {
	size, err := HandSize(numPlayers)
	if err != nil {
		return 0, err
	}
	return DeckSize - numPlayers*size, nil
}

// DeckSize is the number of cards in a Sheepshead deck.
const DeckSize = 32

// NewDeck creates the standard 32-card Sheepshead deck, one card per
// (suit, rank) pair, unshuffled.
func NewDeck() *Deck {
	suits := []Suit{Clubs, Spades, Hearts, Diamonds}
	ranks := []Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

	cards := make([]Card, 0, DeckSize)
	for _, suit := range suits {
		for _, rank := range ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}

	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal distributes cardsPerPlayer cards to each of numPlayers hands and
// returns the hands along with the blind (the undealt remainder). Hand 0
// belongs to the seat immediately after the dealer; callers rotate seat
// indices accordingly. Returns an error if the deck cannot cover the deal.
func (d *Deck) Deal(numPlayers, cardsPerPlayer int) ([][]Card, []Card, error) {
	needed := numPlayers * cardsPerPlayer
	if len(d.Cards) < needed {
		return nil, nil, fmt.Errorf("not enough cards in deck (%d) to deal %d cards to %d players",
			len(d.Cards), cardsPerPlayer, numPlayers)
	}

	hands := make([][]Card, numPlayers)
	start := 0
	for i := 0; i < numPlayers; i++ {
		hand := make([]Card, cardsPerPlayer)
		copy(hand, d.Cards[start:start+cardsPerPlayer])
		hands[i] = hand
		start += cardsPerPlayer
	}

	blind := make([]Card, len(d.Cards)-needed)
	copy(blind, d.Cards[needed:])
	d.Cards = []Card{}

	return hands, blind, nil
}
