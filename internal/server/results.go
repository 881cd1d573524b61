package server

import (
	"time"

	"github.com/lewiesnyder/sheepshead/internal/database"
	"github.com/lewiesnyder/sheepshead/internal/game"
)

// buildResult turns a finished game and its per-round history into the
// stored GameResult plus the per-player stat deltas the aggregator applies.
func buildResult(final *game.GameState, rounds []game.RoundSummary) (database.GameResult, []database.PlayerStats) {
	names := map[string]string{}
	result := database.GameResult{
		ID:        final.ID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Rounds:    final.Round,
	}

	best := 0
	for _, p := range final.Players {
		names[p.ID] = p.Name
		result.Players = append(result.Players, database.PlayerResult{
			Name:  p.Name,
			Score: p.Score,
			Human: p.Human,
		})
		if p.Score > best {
			best = p.Score
		}
	}

	deltas := map[string]*database.PlayerStats{}
	delta := func(id string) *database.PlayerStats {
		name := names[id]
		if d, ok := deltas[name]; ok {
			return d
		}
		d := &database.PlayerStats{Name: name}
		deltas[name] = d
		return d
	}

	for _, p := range final.Players {
		d := delta(p.ID)
		d.Games++
		d.TotalPoints += p.Score
		if p.Score == best {
			d.Wins++
			result.Winners = append(result.Winners, p.Name)
		}
	}

	for _, summary := range rounds {
		if summary.Leaster {
			for _, id := range summary.WinnerIDs {
				delta(id).LeasterWins++
			}
			continue
		}
		for _, id := range summary.PickerTeam {
			d := delta(id)
			if summary.PickerWon {
				d.PickerWins++
				if summary.Schneidered {
					d.Schneiders++
				}
			} else {
				d.PickerLosses++
				if summary.Schneidered {
					d.Schneidered++
				}
			}
		}
		for _, id := range summary.DefenderTeam {
			d := delta(id)
			if summary.PickerWon {
				d.DefenderLosses++
				if summary.Schneidered {
					d.Schneidered++
				}
			} else {
				d.DefenderWins++
				if summary.Schneidered {
					d.Schneiders++
				}
			}
		}
	}

	out := make([]database.PlayerStats, 0, len(deltas))
	for _, p := range final.Players {
		if d, ok := deltas[p.Name]; ok {
			out = append(out, *d)
			delete(deltas, p.Name)
		}
	}
	return result, out
}
