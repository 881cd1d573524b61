package protocol

import (
	"encoding/json"

	"github.com/lewiesnyder/sheepshead/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "create_game", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name      string `json:"name"`
	Opponents int    `json:"opponents"` // Number of AI opponents to seat
}

type BuryPayload struct {
	Cards []shared.Card `json:"cards"`
}

type CallPartnerPayload struct {
	PartnerID string `json:"partner_id"`
}

type PlayCardPayload struct {
	Suit shared.Suit `json:"suit"`
	Rank shared.Rank `json:"rank"`
}

// --- Server -> Client Payload Structs ---

type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Human    bool   `json:"human"`
	Seat     int    `json:"seat"`
	IsDealer bool   `json:"is_dealer"`
	IsPicker bool   `json:"is_picker"`
	Score    int    `json:"score"`
}

type GameStartPayload struct {
	GameID  string       `json:"game_id"`
	Players []PlayerInfo `json:"players"`
}

type DealHandPayload struct {
	Round     int           `json:"round"`
	DealerID  string        `json:"dealer_id"`
	Hand      []shared.Card `json:"hand"`
	BlindSize int           `json:"blind_size"`
}

type YourTurnPayload struct {
	PlayerID   string        `json:"player_id"`
	Phase      string        `json:"phase"`
	ValidMoves []shared.Card `json:"valid_moves,omitempty"`
}

type GameStatePayload struct {
	CurrentPlayerID string              `json:"current_player_id"`
	Phase           string              `json:"phase"`
	Round           int                 `json:"round"`
	IsLeaster       bool                `json:"is_leaster"`
	CardsOnTable    []shared.PlayedCard `json:"cards_on_table"`
	Players         []PlayerInfo        `json:"players"`
}

type TrickEndPayload struct {
	WinnerID string        `json:"winner_id"`
	Cards    []shared.Card `json:"cards"`
	Points   int           `json:"points"`
}

type RoundEndPayload struct {
	Round          int          `json:"round"`
	Leaster        bool         `json:"leaster"`
	Solo           bool         `json:"solo"`
	Schneidered    bool         `json:"schneidered"`
	PickerTeam     []string     `json:"picker_team,omitempty"`
	DefenderTeam   []string     `json:"defender_team,omitempty"`
	PickerPoints   int          `json:"picker_points"`
	DefenderPoints int          `json:"defender_points"`
	WinnerIDs      []string     `json:"winner_ids"`
	Players        []PlayerInfo `json:"players"`
}

type GameOverPayload struct {
	GameID    string       `json:"game_id"`
	WinnerIDs []string     `json:"winner_ids"`
	Players   []PlayerInfo `json:"players"`
	Rounds    int          `json:"rounds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		msg := Message{Type: msgType}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
