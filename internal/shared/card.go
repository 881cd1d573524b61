package shared

// Suit represents the suit of a card.
type Suit string

const (
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"

	// Trump is not a dealable suit. It is the follow class shared by all
	// queens, jacks and diamonds, used when matching a trick's lead.
	Trump Suit = "trump"
)

// Rank represents the rank of a card in the 32-card Sheepshead deck.
type Rank string

const (
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "jack"
	Queen Rank = "queen"
	King  Rank = "king"
	Ace   Rank = "ace"
)

// Card represents a single card in the Sheepshead deck. Two cards are equal
// iff suit and rank match, so Card is comparable and safe to hold by value.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Point values for scoring; the full deck totals 120.
var cardValues = map[Rank]int{
	Seven: 0,
	Eight: 0,
	Nine:  0,
	Ten:   10,
	Jack:  2,
	Queen: 3,
	King:  4,
	Ace:   11,
}

// Power ordering of the 14 trump cards, highest first: queens by suit
// (clubs, spades, hearts, diamonds), then jacks likewise, then the
// remaining diamonds ace down to seven.
var trumpPower = map[Card]int{
	{Clubs, Queen}:    31,
	{Spades, Queen}:   30,
	{Hearts, Queen}:   29,
	{Diamonds, Queen}: 28,
	{Clubs, Jack}:     27,
	{Spades, Jack}:    26,
	{Hearts, Jack}:    25,
	{Diamonds, Jack}:  24,
	{Diamonds, Ace}:   23,
	{Diamonds, Ten}:   22,
	{Diamonds, King}:  21,
	{Diamonds, Nine}:  20,
	{Diamonds, Eight}: 19,
	{Diamonds, Seven}: 18,
}

// Power ordering within a plain suit. Queens and jacks never appear here.
var plainPower = map[Rank]int{
	Ace:   7,
	Ten:   6,
	King:  5,
	Nine:  2,
	Eight: 1,
	Seven: 0,
}

// Value returns the card's scoring points.
func (c Card) Value() int {
	return cardValues[c.Rank]
}

// IsTrump reports whether the card belongs to the trump class:
// every queen, every jack and every diamond.
func (c Card) IsTrump() bool {
	return c.Rank == Queen || c.Rank == Jack || c.Suit == Diamonds
}

// Power returns the card's strength for trick comparison. Trump always
// outranks plain cards; plain cards only compete within their own suit.
func (c Card) Power() int {
	if p, ok := trumpPower[c]; ok {
		return p
	}
	return plainPower[c.Rank]
}

// EffectiveSuit returns the follow class of the card: Trump for any trump
// card, otherwise the card's own suit. A queen of hearts does not count as
// hearts when following a lead.
func (c Card) EffectiveSuit() Suit {
	if c.IsTrump() {
		return Trump
	}
	return c.Suit
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}
