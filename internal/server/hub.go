package server

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lewiesnyder/sheepshead/internal/database"
	"github.com/lewiesnyder/sheepshead/internal/game"
	"github.com/lewiesnyder/sheepshead/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client
// reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages WebSocket connections and the running game tables. Each
// table seats one human client and its AI opponents.
type Hub struct {
	db           *database.Service
	clients      map[*Client]bool
	games        map[string]*game.Table // game ID to table
	clientToGame map[*Client]string     // client to game ID

	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client

	clientMu sync.RWMutex
	gameMu   sync.RWMutex

	thinkDelay time.Duration
}

// NewHub creates a new Hub instance. thinkDelay is the artificial pause
// before each AI action.
func NewHub(db *database.Service, thinkDelay time.Duration) *Hub {
	return &Hub{
		db:             db,
		clients:        make(map[*Client]bool),
		games:          make(map[string]*game.Table),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		thinkDelay:     thinkDelay,
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString()
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			gameID, inGame := h.clientToGame[client]
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.clientToGame, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()

			if inGame {
				// The game stays resumable from its snapshot; drop the
				// live table so a reconnect starts from storage.
				h.gameMu.Lock()
				delete(h.games, gameID)
				h.gameMu.Unlock()
				log.Printf("Client %s left game %s; table unloaded.", client.ID, gameID)
			}

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_game":
		h.handleCreateGame(client, msg)
	case "pick", "pass", "bury", "call_partner", "play_card", "next_round", "end_game":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateGame seats the client with AI opponents and starts a table.
// When Resume is requested and a valid snapshot exists, the saved game
// continues instead.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		log.Printf("Client %s tried to create game but is already in one.", client.ID)
		h.sendErrorToClient(client, "Already in a game.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_game payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to create game with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	table := h.resumeTable(client, payload.Name)
	if table == nil {
		roster, err := game.NewRoster(client.ID, payload.Name, payload.Opponents)
		if err != nil {
			log.Printf("Client %s create_game rejected: %v", client.ID, err)
			h.sendErrorToClient(client, err.Error())
			return
		}
		cfg := game.TableConfig{
			ThinkDelay: h.thinkDelay,
			SaveKey:    database.KeyCurrentGame,
		}
		// Round 1's dealer is chosen here; rotation takes over after that.
		table, err = game.NewTable(roster, rand.IntN(len(roster)), cfg, h.db)
		if err != nil {
			log.Printf("Client %s create_game failed: %v", client.ID, err)
			h.sendErrorToClient(client, err.Error())
			return
		}
	}
	table.OnGameOver = h.recordResult

	gameID := table.ID()
	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToGame[client] = gameID
	h.clientMu.Unlock()

	h.gameMu.Lock()
	h.games[gameID] = table
	h.gameMu.Unlock()

	log.Printf("Client %s (%s) starting game %s", client.ID, client.Name, gameID)
	go table.Start(h.sendMessageToClient)
}

// resumeTable rebuilds a table from the stored snapshot if the client asked
// to resume and the snapshot is valid and contains a human seat matching
// the client's name. Invalid or missing snapshots fall through to a fresh
// game, as does any storage error.
func (h *Hub) resumeTable(client *Client, name string) *game.Table {
	data, ok, err := h.db.LoadState(database.KeyCurrentGame)
	if err != nil {
		log.Printf("Failed to load saved game: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	state, err := game.Restore(data)
	if err != nil {
		log.Printf("Discarding saved game: %v", err)
		return nil
	}
	if state.Phase == game.GameOver {
		return nil
	}
	for _, p := range state.Players {
		if p.Human && p.Name == name {
			// Rebind the connection to the stored seat so routing and
			// turn ownership line up.
			client.ID = p.ID
			log.Printf("Resuming game %s for %s (round %d, %s)", state.ID, name, state.Round, state.Phase)
			return game.ResumeTable(state, game.TableConfig{
				ThinkDelay: h.thinkDelay,
				SaveKey:    database.KeyCurrentGame,
			}, h.db)
		}
	}
	return nil
}

// handleGameAction forwards a game action to the client's table.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	gameID, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()

	if !inGame {
		log.Printf("Received '%s' from client %s not in any game.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in an active game.")
		return
	}

	h.gameMu.RLock()
	table, exists := h.games[gameID]
	h.gameMu.RUnlock()

	if !exists {
		log.Printf("Received '%s' from client %s for missing game %s", msg.Type, client.ID, gameID)
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	// The table drives any resulting AI turns (with their think delay)
	// under its own lock; keep the hub loop free for other clients.
	go table.HandlePlayerAction(client.ID, msg)
}

// recordResult persists a finished game and updates player stats. Failures
// are logged; the game itself is already complete.
func (h *Hub) recordResult(final *game.GameState, rounds []game.RoundSummary) {
	result, deltas := buildResult(final, rounds)
	if err := h.db.InsertResult(result); err != nil {
		log.Printf("Game %s: failed to record result: %v", final.ID, err)
	}
	if err := h.db.ApplyStats(deltas); err != nil {
		log.Printf("Game %s: failed to update stats: %v", final.ID, err)
	}
	if err := h.db.DeleteState(database.KeyCurrentGame); err != nil {
		log.Printf("Game %s: failed to clear saved state: %v", final.ID, err)
	}
}

// sendMessageToClient routes a message to the connection owning playerID.
// Messages addressed to AI seats have no connection and are dropped.
func (h *Hub) sendMessageToClient(playerID string, message []byte) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	for client := range h.clients {
		if client.ID == playerID {
			select {
			case client.send <- message:
			default:
				log.Printf("Send buffer full for client %s, dropping message.", playerID)
			}
			return
		}
	}
}

func (h *Hub) sendErrorToClient(client *Client, errMsg string) {
	msg, err := protocol.NewMessage("error", protocol.ErrorPayload{Message: errMsg})
	if err != nil {
		log.Printf("Error creating error message: %v", err)
		return
	}
	client.send <- msg
}
