package database

// PlayerResult is one seat's final standing within a GameResult.
type PlayerResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Human bool   `json:"human"`
}

// GameResult is the finalized outcome of one game, recorded at game over.
type GameResult struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	Rounds    int            `json:"rounds"`
	Players   []PlayerResult `json:"players"`
	Winners   []string       `json:"winners"`
}

// PlayerStats holds longitudinal per-player counters. The same struct is
// used both for stored totals and for the per-game deltas applied to them.
type PlayerStats struct {
	Name           string `json:"name"`
	Games          int    `json:"games"`
	Wins           int    `json:"wins"`
	PickerWins     int    `json:"picker_wins"`
	PickerLosses   int    `json:"picker_losses"`
	DefenderWins   int    `json:"defender_wins"`
	DefenderLosses int    `json:"defender_losses"`
	LeasterWins    int    `json:"leaster_wins"`
	Schneiders     int    `json:"schneiders"`
	Schneidered    int    `json:"schneidered"`
	TotalPoints    int    `json:"total_points"`
}
