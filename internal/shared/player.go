package shared

// Player represents one seat at the Sheepshead table. Players are created
// at game start and reset between rounds; Score and the dealer rotation
// survive the reset, everything round-scoped does not.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Human     bool     `json:"human"`
	Hand      []Card   `json:"hand"`
	Score     int      `json:"score"`
	IsDealer  bool     `json:"is_dealer"`
	IsPicker  bool     `json:"is_picker"`
	Partner   string   `json:"partner,omitempty"`
	TricksWon [][]Card `json:"tricks_won"`
}

// NewPlayer creates a new player with the given ID, name and human flag.
func NewPlayer(id, name string, human bool) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Human: human,
		Hand:  []Card{},
	}
}

// AddCard adds a card to the player's hand.
func (p *Player) AddCard(card Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveCard removes a card from the player's hand. Returns false if the
// card is not held.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasCard reports whether the player holds the given card.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds any card of the given follow
// class. Pass Trump to ask about trump holdings; a plain suit matches only
// non-trump cards of that suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, card := range p.Hand {
		if card.EffectiveSuit() == suit {
			return true
		}
	}
	return false
}

// TrickPoints returns the total point value of all tricks the player has
// won this round.
func (p *Player) TrickPoints() int {
	total := 0
	for _, trick := range p.TricksWon {
		for _, card := range trick {
			total += card.Value()
		}
	}
	return total
}

// ResetForRound clears the player's round-scoped state. Score and dealer
// rotation are managed by the state machine and left alone here.
func (p *Player) ResetForRound() {
	p.Hand = []Card{}
	p.TricksWon = nil
	p.IsPicker = false
	p.Partner = ""
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	out := *p
	out.Hand = append([]Card(nil), p.Hand...)
	out.TricksWon = make([][]Card, len(p.TricksWon))
	for i, trick := range p.TricksWon {
		out.TricksWon[i] = append([]Card(nil), trick...)
	}
	return &out
}
