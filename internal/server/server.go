// Package server is the websocket gateway: it translates client
// messages into engine calls and pushes redacted views back out.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/discordwell/hyperdraft/internal/decks"
	"github.com/discordwell/hyperdraft/internal/game"
)

// choiceSweepInterval is how often the gateway checks running games for
// overdue pending choices.
const choiceSweepInterval = 5 * time.Second

// Message is the wire envelope in both directions.
type Message struct {
	Type      string       `json:"type"`
	GameID    string       `json:"gameId,omitempty"`
	PlayerID  string       `json:"playerId,omitempty"`
	Players   []PlayerSpec `json:"players,omitempty"`
	Action    *game.Action `json:"action,omitempty"`
	ChoiceID  string       `json:"choiceId,omitempty"`
	Selection []string     `json:"selection,omitempty"`
	Status    string       `json:"status,omitempty"`
	WaitingOn string       `json:"waitingOn,omitempty"`
	Data      any          `json:"data,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// PlayerSpec names a player and the deck they bring to a new game.
type PlayerSpec struct {
	ID   string `json:"id"`
	Deck string `json:"deck"`
}

// Server wires the websocket hub to the game engine.
type Server struct {
	engine   *game.Engine
	library  map[string]*game.CardDefinition
	deckFile *decks.File
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a gateway around an engine and a deck file.
func NewServer(engine *game.Engine, deckFile *decks.File, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		library:  game.CardLibrary(),
		deckFile: deckFile,
		hub:      NewHub(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler: /ws for the game protocol and
// /healthz for liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := newClient(conn)
	s.hub.Register(client)
	go client.writePump()
	go client.readPump(s)
}

func (s *Server) handleMessage(c *Client, msg Message) {
	var err error
	switch msg.Type {
	case "create_game":
		err = s.handleCreateGame(c, msg)
	case "join_game":
		err = s.handleJoinGame(c, msg)
	case "action":
		err = s.handleAction(c, msg)
	case "choice":
		err = s.handleChoice(c, msg)
	case "view":
		err = s.pushView(c)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		s.logger.Debug("message rejected",
			zap.String("type", msg.Type),
			zap.String("player", c.playerID),
			zap.Error(err))
		c.sendJSON(Message{Type: "error", Error: err.Error()})
	}
}

func (s *Server) handleCreateGame(c *Client, msg Message) error {
	if msg.GameID == "" {
		return fmt.Errorf("create_game needs a gameId")
	}
	if len(msg.Players) < 2 {
		return fmt.Errorf("create_game needs at least two players")
	}
	setups := make([]game.PlayerSetup, 0, len(msg.Players))
	for _, spec := range msg.Players {
		entry, err := s.deckFile.ByName(spec.Deck)
		if err != nil {
			return err
		}
		deck, err := decks.Resolve(entry, s.library)
		if err != nil {
			return err
		}
		setups = append(setups, game.PlayerSetup{ID: spec.ID, Deck: deck})
	}
	if err := s.engine.StartGame(msg.GameID, setups); err != nil {
		return err
	}
	s.logger.Info("game created",
		zap.String("gameId", msg.GameID),
		zap.Int("players", len(setups)))

	if msg.PlayerID != "" {
		s.hub.JoinGame(c, msg.GameID, msg.PlayerID)
	}
	return s.runAndPush(msg.GameID)
}

func (s *Server) handleJoinGame(c *Client, msg Message) error {
	if msg.GameID == "" || msg.PlayerID == "" {
		return fmt.Errorf("join_game needs gameId and playerId")
	}
	if _, err := s.engine.Game(msg.GameID); err != nil {
		return err
	}
	s.hub.JoinGame(c, msg.GameID, msg.PlayerID)
	return s.pushView(c)
}

func (s *Server) handleAction(c *Client, msg Message) error {
	if c.gameID == "" {
		return fmt.Errorf("join a game first")
	}
	if msg.Action == nil {
		return fmt.Errorf("action message without an action")
	}
	if err := s.engine.ProcessAction(c.gameID, c.playerID, *msg.Action); err != nil {
		return err
	}
	return s.runAndPush(c.gameID)
}

func (s *Server) handleChoice(c *Client, msg Message) error {
	if c.gameID == "" {
		return fmt.Errorf("join a game first")
	}
	if err := s.engine.SubmitChoice(c.gameID, c.playerID, msg.ChoiceID, msg.Selection); err != nil {
		return err
	}
	return s.runAndPush(c.gameID)
}

// SweepChoices applies the choice-timeout default across every game at
// a fixed interval until ctx is done, pushing fresh views whenever a
// default fired. Run it in its own goroutine; it is what unsticks a
// game whose waiting player has gone silent.
func (s *Server) SweepChoices(ctx context.Context) {
	ticker := time.NewTicker(choiceSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, gameID := range s.engine.GameIDs() {
				expired, err := s.engine.ExpireChoices(gameID, now)
				if err != nil {
					s.logger.Warn("choice sweep failed",
						zap.String("gameId", gameID), zap.Error(err))
					continue
				}
				if expired == 0 {
					continue
				}
				s.logger.Info("choice timed out, default applied",
					zap.String("gameId", gameID), zap.Int("expired", expired))
				if err := s.runAndPush(gameID); err != nil {
					s.logger.Warn("push after choice timeout failed",
						zap.String("gameId", gameID), zap.Error(err))
				}
			}
		}
	}
}

// runAndPush advances the game and sends every connected player their
// own redacted view. Overdue choices are defaulted first so a stalled
// game can move again on any message.
func (s *Server) runAndPush(gameID string) error {
	if _, err := s.engine.ExpireChoices(gameID, time.Now()); err != nil {
		return err
	}
	res, err := s.engine.RunTurn(gameID)
	if err != nil {
		return err
	}
	g, err := s.engine.Game(gameID)
	if err != nil {
		return err
	}
	for _, client := range s.hub.ClientsInGame(gameID) {
		view := g.View(client.playerID)
		client.sendJSON(Message{
			Type:      "game_state",
			GameID:    gameID,
			Status:    string(res.Status),
			WaitingOn: res.PlayerID,
			Data:      view,
		})
		if res.Status == game.StatusAwaitingChoice && client.playerID == res.PlayerID {
			if choice, err := s.engine.GetPendingChoice(gameID, client.playerID); err == nil && choice != nil {
				client.sendJSON(Message{
					Type:     "choice_required",
					GameID:   gameID,
					ChoiceID: choice.ID,
					Data:     choiceData(choice),
				})
			}
		}
	}
	return nil
}

func (s *Server) pushView(c *Client) error {
	if c.gameID == "" {
		return fmt.Errorf("join a game first")
	}
	g, err := s.engine.Game(c.gameID)
	if err != nil {
		return err
	}
	c.sendJSON(Message{
		Type:   "game_state",
		GameID: c.gameID,
		Data:   g.View(c.playerID),
	})
	return nil
}

// choiceData is the client-facing shape of a pending choice.
func choiceData(choice *game.PendingChoice) map[string]any {
	return map[string]any{
		"id":      choice.ID,
		"kind":    string(choice.Kind),
		"prompt":  choice.Prompt,
		"options": choice.Options,
		"min":     choice.Min,
		"max":     choice.Max,
	}
}
