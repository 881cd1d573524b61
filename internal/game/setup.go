package game

import (
	"fmt"

	"github.com/lewiesnyder/sheepshead/internal/shared"

	"github.com/google/uuid"
)

// Default names handed out to AI opponents, in seating order.
var aiNames = []string{"Gretchen", "Otto", "Hilda", "Fritz", "Greta", "Klaus", "Liesl"}

// MinPlayers and MaxPlayers bound the supported table sizes of the current
// ruleset. The roster builder accepts up to seven AI opponents but the
// total must land in this range.
const (
	MinPlayers = 3
	MaxPlayers = 5
)

// NewRoster builds the seating for a game: one human plus aiCount AI
// opponents, each with a fresh ID. The human sits at seat 0.
func NewRoster(humanID, humanName string, aiCount int) ([]*shared.Player, error) {
	total := aiCount + 1
	if total < MinPlayers || total > MaxPlayers {
		return nil, fmt.Errorf("%d AI opponents seats %d players; table supports %d-%d",
			aiCount, total, MinPlayers, MaxPlayers)
	}
	if humanID == "" {
		humanID = uuid.NewString()
	}
	if humanName == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}

	roster := make([]*shared.Player, 0, total)
	roster = append(roster, shared.NewPlayer(humanID, humanName, true))
	for i := 0; i < aiCount; i++ {
		roster = append(roster, shared.NewPlayer(uuid.NewString(), aiNames[i%len(aiNames)], false))
	}
	return roster, nil
}
