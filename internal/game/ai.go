package game

import (
	"sort"

	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// Heuristic decision engine for AI seats. Every function is stateless over
// the acting player's hand and the game state passed in, so decisions are
// reproducible from a serialized state.

// HandStrength scores a hand for the pick decision. Trump is the dominant
// factor, graded by power tier; off-suit aces and tens add a little, and a
// singleton plain suit costs for the exposure it creates.
func HandStrength(hand []shared.Card) int {
	strength := 0
	plainCounts := map[shared.Suit]int{}

	for _, c := range hand {
		if c.IsTrump() {
			strength += 3
			switch p := c.Power(); {
			case p > 27:
				strength += 5
			case p > 23:
				strength += 3
			case p > 18:
				strength++
			}
			continue
		}
		plainCounts[c.Suit]++
		switch c.Rank {
		case shared.Ace:
			strength += 2
		case shared.Ten:
			strength++
		}
	}

	for _, n := range plainCounts {
		if n == 1 {
			strength -= 2
		}
	}
	return strength
}

// pickThreshold returns the minimum hand strength an AI requires to pick,
// by table size. Short-handed tables pick more aggressively.
func pickThreshold(numPlayers int) int {
	switch numPlayers {
	case 3:
		return 10
	case 5:
		return 14
	default:
		return 12
	}
}

// ShouldPick decides whether the player should take the blind.
func ShouldPick(player *shared.Player, g *GameState) bool {
	return HandStrength(player.Hand) >= pickThreshold(g.NumPlayers())
}

// ChooseBury selects count cards to bury from the candidates (the picker's
// hand after taking the blind). Trump is kept whenever possible: candidates
// sort with non-trump first, low power first, and among the lowest four the
// engine prefers a pair of zero-point throwaways before giving up counters.
func ChooseBury(candidates []shared.Card, count int) []shared.Card {
	sorted := append([]shared.Card(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsTrump() != b.IsTrump() {
			return !a.IsTrump()
		}
		return a.Power() < b.Power()
	})

	window := sorted
	if len(window) > 4 {
		window = window[:4]
	}
	var zeros []shared.Card
	for _, c := range window {
		if c.Value() == 0 {
			zeros = append(zeros, c)
		}
	}
	if len(zeros) >= count {
		return zeros[:count]
	}

	byValue := append([]shared.Card(nil), sorted...)
	sort.SliceStable(byValue, func(i, j int) bool {
		a, b := byValue[i], byValue[j]
		if a.IsTrump() != b.IsTrump() {
			return !a.IsTrump()
		}
		if a.Value() != b.Value() {
			return a.Value() < b.Value()
		}
		return a.Power() < b.Power()
	})
	return byValue[:count]
}

// ChoosePartner picks the partner an AI picker calls: the seat two places
// clockwise, which keeps the call deterministic without peeking at hands.
func ChoosePartner(g *GameState, pickerIdx int) string {
	idx := (pickerIdx + 2) % g.NumPlayers()
	if idx == pickerIdx {
		idx = g.nextSeat(pickerIdx)
	}
	return g.Players[idx].ID
}

// ChooseCard picks the card an AI plays on its turn.
func ChooseCard(player *shared.Player, g *GameState) shared.Card {
	legal := LegalPlays(player.Hand, g.CurrentTrick)
	if len(legal) == 1 {
		return legal[0]
	}
	if len(g.CurrentTrick.Cards) == 0 {
		return chooseLead(player, legal, g)
	}
	return chooseFollow(player, legal, g)
}

// chooseLead picks a card to open a trick. The picker's side leads strength
// to pull trump; defenders probe with singletons and otherwise keep points
// off the table.
func chooseLead(player *shared.Player, legal []shared.Card, g *GameState) shared.Card {
	if OnPickerTeam(g, player.ID) {
		if c, ok := highestTrumpAbove(legal, 25); ok {
			return c
		}
		if c, ok := firstPlainOfRank(legal, shared.Ace); ok {
			return c
		}
		if c, ok := firstPlainOfRank(legal, shared.Ten); ok {
			return c
		}
		return lowestPower(legal)
	}

	// Defender: lead from a singleton plain suit to set up a later cut.
	counts := map[shared.Suit]int{}
	for _, c := range player.Hand {
		if !c.IsTrump() {
			counts[c.Suit]++
		}
	}
	for _, c := range legal {
		if !c.IsTrump() && counts[c.Suit] == 1 {
			return c
		}
	}
	var zeroPlain []shared.Card
	for _, c := range legal {
		if !c.IsTrump() && c.Value() == 0 {
			zeroPlain = append(zeroPlain, c)
		}
	}
	if len(zeroPlain) > 0 {
		return lowestPower(zeroPlain)
	}
	return lowestPower(legal)
}

// chooseFollow picks a card mid-trick. If a teammate holds the trick the
// play is the cheapest card; otherwise the engine tries to win with the
// weakest winner when the player is on the picker's side or the trick is
// worth contesting.
func chooseFollow(player *shared.Player, legal []shared.Card, g *GameState) shared.Card {
	winning, _ := g.CurrentTrick.Winner()
	if SameTeam(g, player.ID, winning.PlayerID) {
		return lowestValue(legal)
	}

	worthChasing := OnPickerTeam(g, player.ID) || g.CurrentTrick.Points() >= 10
	if worthChasing {
		if c, ok := cheapestWinner(legal, g.CurrentTrick); ok {
			return c
		}
	}
	return lowestValue(legal)
}

// cheapestWinner returns the lowest-power legal card that would take the
// trick as it stands.
func cheapestWinner(legal []shared.Card, trick *shared.Trick) (shared.Card, bool) {
	lead, _ := trick.LeadSuit()
	winning, _ := trick.Winner()

	var best shared.Card
	found := false
	for _, c := range legal {
		if !beatsInTrick(c, winning.Card, lead) {
			continue
		}
		if !found || c.Power() < best.Power() {
			best = c
			found = true
		}
	}
	return best, found
}

// beatsInTrick mirrors the trick-winner comparison for a hypothetical play.
func beatsInTrick(candidate, current shared.Card, lead shared.Suit) bool {
	if candidate.IsTrump() != current.IsTrump() {
		return candidate.IsTrump()
	}
	if candidate.IsTrump() {
		return candidate.Power() > current.Power()
	}
	if candidate.EffectiveSuit() != lead {
		return false
	}
	if current.EffectiveSuit() != lead {
		return true
	}
	return candidate.Power() > current.Power()
}

func highestTrumpAbove(cards []shared.Card, minPower int) (shared.Card, bool) {
	var best shared.Card
	found := false
	for _, c := range cards {
		if c.IsTrump() && c.Power() > minPower {
			if !found || c.Power() > best.Power() {
				best = c
				found = true
			}
		}
	}
	return best, found
}

func firstPlainOfRank(cards []shared.Card, rank shared.Rank) (shared.Card, bool) {
	for _, c := range cards {
		if !c.IsTrump() && c.Rank == rank {
			return c, true
		}
	}
	return shared.Card{}, false
}

func lowestPower(cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Power() < best.Power() {
			best = c
		}
	}
	return best
}

func lowestValue(cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Value() < best.Value() || (c.Value() == best.Value() && c.Power() < best.Power()) {
			best = c
		}
	}
	return best
}

// NextAIAction synthesizes the action an AI seat takes in the current
// phase. It returns false when the current phase needs no AI decision.
func NextAIAction(g *GameState) (Action, bool) {
	player := g.CurrentPlayer()
	switch g.Phase {
	case Picking:
		t := ActionPass
		if ShouldPick(player, g) {
			t = ActionPick
		}
		return Action{Type: t, Player: player.ID}, true
	case Burying:
		count, err := shared.BlindSize(g.NumPlayers())
		if err != nil {
			return Action{}, false
		}
		return Action{Type: ActionBury, Player: player.ID, Cards: ChooseBury(player.Hand, count)}, true
	case CallingPartner:
		return Action{Type: ActionCallPartner, Player: player.ID, Partner: ChoosePartner(g, g.TurnIndex)}, true
	case Playing:
		card := ChooseCard(player, g)
		return Action{Type: ActionPlayCard, Player: player.ID, Card: &card}, true
	default:
		return Action{}, false
	}
}
