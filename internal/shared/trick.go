package shared

// PlayedCard stores a card along with the ID of the player who played it.
type PlayedCard struct {
	Card     Card   `json:"card"`
	PlayerID string `json:"player_id"`
}

// Trick represents a single trick. Cards appear in play order; the first
// card's effective suit fixes the lead class for the whole trick.
type Trick struct {
	Cards []PlayedCard `json:"cards"`
}

// NewTrick creates an empty trick.
func NewTrick() *Trick {
	return &Trick{Cards: []PlayedCard{}}
}

// AddCard appends a card and the player who played it to the trick.
func (t *Trick) AddCard(card Card, playerID string) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, PlayerID: playerID})
}

// LeadSuit returns the follow class led for this trick (Trump if the first
// card was trump) and false if nothing has been played yet.
func (t *Trick) LeadSuit() (Suit, bool) {
	if len(t.Cards) == 0 {
		return "", false
	}
	return t.Cards[0].Card.EffectiveSuit(), true
}

// Winner returns the PlayedCard currently winning the trick: the highest
// trump if any trump was played, otherwise the highest card of the lead
// suit. Power values are unique within each comparison class, so the
// winner is unambiguous. The second return is false for an empty trick.
func (t *Trick) Winner() (PlayedCard, bool) {
	if len(t.Cards) == 0 {
		return PlayedCard{}, false
	}

	lead, _ := t.LeadSuit()
	best := t.Cards[0]
	for _, pc := range t.Cards[1:] {
		if beats(pc.Card, best.Card, lead) {
			best = pc
		}
	}
	return best, true
}

// Points returns the total point value of the cards in the trick.
func (t *Trick) Points() int {
	total := 0
	for _, pc := range t.Cards {
		total += pc.Card.Value()
	}
	return total
}

// CardList returns the bare cards of the trick in play order.
func (t *Trick) CardList() []Card {
	cards := make([]Card, len(t.Cards))
	for i, pc := range t.Cards {
		cards[i] = pc.Card
	}
	return cards
}

// Clone returns a deep copy of the trick.
func (t *Trick) Clone() *Trick {
	return &Trick{Cards: append([]PlayedCard(nil), t.Cards...)}
}

// beats reports whether card a beats card b given the lead class. Trump
// beats plain; within trump or within the lead suit, higher power wins.
// An off-suit, non-trump card never beats anything.
func beats(a, b Card, lead Suit) bool {
	aTrump, bTrump := a.IsTrump(), b.IsTrump()
	if aTrump != bTrump {
		return aTrump
	}
	if aTrump {
		return a.Power() > b.Power()
	}
	if a.Suit != b.Suit {
		return a.Suit == lead
	}
	return a.Suit == lead && a.Power() > b.Power()
}
