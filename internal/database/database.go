package database

import (
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service wraps the SQLite store behind the game's persistence contracts:
// best-effort state snapshots, finished-game results and per-player stats.
type Service struct {
	db *sql.DB
	m  *sync.Mutex
}

// Well-known snapshot keys.
const (
	KeyCurrentGame = "current_game"
)

func New(path string) Service {
	if path == "" {
		path = "./sheepshead.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists saved_states (
		key string not null primary key,
		updated_at string,
		payload text
	);
	create table if not exists results (
		id string not null primary key,
		created_at string,
		rounds integer,
		players text,
		winners text
	);
	create table if not exists player_stats (
		name string not null primary key,
		games integer default 0,
		wins integer default 0,
		picker_wins integer default 0,
		picker_losses integer default 0,
		defender_wins integer default 0,
		defender_losses integer default 0,
		leaster_wins integer default 0,
		schneiders integer default 0,
		schneidered integer default 0,
		total_points integer default 0
	);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		panic(err)
	}

	return Service{db: db, m: &sync.Mutex{}}
}

func (s *Service) Close() error {
	return s.db.Close()
}

// SaveState upserts a JSON snapshot under the given key. Callers treat
// failures as non-fatal: the in-memory state stays authoritative.
func (s *Service) SaveState(key string, payload []byte) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO saved_states (key, updated_at, payload) VALUES (?, datetime('now'), ?) "+
			"ON CONFLICT(key) DO UPDATE SET updated_at = datetime('now'), payload = excluded.payload",
		key, string(payload))
	return err
}

// LoadState returns the snapshot stored under key. The second return is
// false when no snapshot exists; callers must still validate the payload
// and treat unparseable data as absent.
func (s *Service) LoadState(key string) ([]byte, bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var payload string
	err := s.db.QueryRow("SELECT payload FROM saved_states WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

// DeleteState removes the snapshot stored under key, if any.
func (s *Service) DeleteState(key string) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec("DELETE FROM saved_states WHERE key = ?", key)
	return err
}

// InsertResult records a finished game.
func (s *Service) InsertResult(result GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()

	players, err := json.Marshal(result.Players)
	if err != nil {
		return err
	}
	winners, err := json.Marshal(result.Winners)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO results (id, created_at, rounds, players, winners) VALUES (?, ?, ?, ?, ?)",
		result.ID, result.CreatedAt, result.Rounds, string(players), string(winners))
	return err
}

// GetAllResults returns every recorded game result.
func (s *Service) GetAllResults() ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT id, created_at, rounds, players, winners FROM results")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// GetResultsByPlayer returns the results of every game the named player sat
// in. Returns sql.ErrNoRows when there are none.
func (s *Service) GetResultsByPlayer(name string) ([]GameResult, error) {
	all, err := s.GetAllResults()
	if err != nil {
		return nil, err
	}
	var results []GameResult
	for _, r := range all {
		for _, p := range r.Players {
			if p.Name == name {
				results = append(results, r)
				break
			}
		}
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

func scanResults(rows *sql.Rows) ([]GameResult, error) {
	var results []GameResult
	for rows.Next() {
		var r GameResult
		var players, winners string
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Rounds, &players, &winners); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(players), &r.Players); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(winners), &r.Winners); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ApplyStats adds each delta onto the named player's stored counters,
// creating rows as needed.
func (s *Service) ApplyStats(deltas []PlayerStats) error {
	s.m.Lock()
	defer s.m.Unlock()

	for _, d := range deltas {
		_, err := s.db.Exec(
			`INSERT INTO player_stats
			 (name, games, wins, picker_wins, picker_losses, defender_wins, defender_losses, leaster_wins, schneiders, schneidered, total_points)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
			 games = games + excluded.games,
			 wins = wins + excluded.wins,
			 picker_wins = picker_wins + excluded.picker_wins,
			 picker_losses = picker_losses + excluded.picker_losses,
			 defender_wins = defender_wins + excluded.defender_wins,
			 defender_losses = defender_losses + excluded.defender_losses,
			 leaster_wins = leaster_wins + excluded.leaster_wins,
			 schneiders = schneiders + excluded.schneiders,
			 schneidered = schneidered + excluded.schneidered,
			 total_points = total_points + excluded.total_points`,
			d.Name, d.Games, d.Wins, d.PickerWins, d.PickerLosses,
			d.DefenderWins, d.DefenderLosses, d.LeasterWins,
			d.Schneiders, d.Schneidered, d.TotalPoints)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetStatsByName returns the named player's stored counters.
func (s *Service) GetStatsByName(name string) (PlayerStats, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var st PlayerStats
	err := s.db.QueryRow(
		`SELECT name, games, wins, picker_wins, picker_losses, defender_wins, defender_losses,
		 leaster_wins, schneiders, schneidered, total_points
		 FROM player_stats WHERE name = ?`, name).Scan(
		&st.Name, &st.Games, &st.Wins, &st.PickerWins, &st.PickerLosses,
		&st.DefenderWins, &st.DefenderLosses, &st.LeasterWins,
		&st.Schneiders, &st.Schneidered, &st.TotalPoints)
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}
