package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mtlgames/bonhomme"
	"github.com/mtlgames/bonhomme/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NewRoomReq struct {
	RoomName   string `json:"room_name"`
	PlayerName string `json:"player_name"`
}

type JoinRoomReq struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

type RoomRes struct {
	RoomID   string   `json:"room_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type OpenRoomRes struct {
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Team     string `json:"team"`
}

type SeatReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
}

type ReadyReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

type RoomOnlyReq struct {
	RoomID string `json:"room_id"`
}

type BetReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Tier     string `json:"bet"`
	Trump    bool   `json:"trump"`
}

type PlayReq struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
}

// GameServer serves the rooms over HTTP and fans state out over websockets
type GameServer struct {
	store bonhomme.GameStore
	hub   *Hub
	rnd   *rand.Rand
	http.Server
}

// NewServer creates a new GameServer
func NewServer(store bonhomme.GameStore) *GameServer {
	s := &GameServer{
		store: store,
		hub:   NewHub(),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	router := http.NewServeMux()
	router.Handle("/new", http.HandlerFunc(s.HandleNewRoom))
	router.Handle("/join", http.HandlerFunc(s.HandleJoinRoom))
	router.Handle("/rooms", http.HandlerFunc(s.HandleOpenRooms))
	router.Handle("/state/", http.HandlerFunc(s.HandleRoomState))
	router.Handle("/team", http.HandlerFunc(s.HandleSelectTeam))
	router.Handle("/seat", http.HandlerFunc(s.HandleSelectSeat))
	router.Handle("/ready", http.HandlerFunc(s.HandleReady))
	router.Handle("/start", http.HandlerFunc(s.HandleStart))
	router.Handle("/bot", http.HandlerFunc(s.HandleAddBot))
	router.Handle("/bet", http.HandlerFunc(s.HandlePlaceBet))
	router.Handle("/play", http.HandlerFunc(s.HandlePlayCard))
	router.Handle("/bot-turn", http.HandlerFunc(s.HandleBotTurn))
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))

	s.Handler = router
	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

func unknownRoomIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown room ID '%s'", unknownID)
}

// HandleNewRoom handles a request to create a new room
func (g *GameServer) HandleNewRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewRoomReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		writeParseError(err, w)
		return
	}
	if data.RoomName == "" || data.PlayerName == "" {
		http.Error(w, "missing room or player name", http.StatusBadRequest)
		return
	}

	creator := bonhomme.NewPlayer(bonhomme.NewID(), data.PlayerName)
	room, err := g.store.Create(data.RoomName, bonhomme.NewGameState(creator))
	if err != nil {
		log.Println(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, RoomRes{
		RoomID:   room.ID,
		PlayerID: creator.ID,
		Name:     creator.Name,
		Admin:    true,
		Players:  []string{creator.Name},
	})
}

// HandleJoinRoom handles a request to join an existing room
func (g *GameServer) HandleJoinRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinRoomReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		writeParseError(err, w)
		return
	}
	if data.RoomID == "" {
		http.Error(w, "missing room ID", http.StatusBadRequest)
		return
	}
	if data.Name == "" {
		http.Error(w, "missing player name", http.StatusBadRequest)
		return
	}

	joiner := bonhomme.NewPlayer(bonhomme.NewID(), data.Name)
	roomID := strings.ToUpper(data.RoomID)

	room, err := g.store.Update(roomID, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		return bonhomme.AddPlayer(state, joiner)
	})
	if err != nil {
		writeEngineError(err, w, roomID)
		return
	}

	g.hub.Broadcast(room, protocol.NewJoiner)

	names := []string{}
	for _, p := range room.State.Players {
		names = append(names, p.Name)
	}
	writeJSON(w, http.StatusOK, RoomRes{
		RoomID:   room.ID,
		PlayerID: joiner.ID,
		Name:     joiner.Name,
		Players:  names,
	})
}

// HandleOpenRooms lists rooms still waiting for players
func (g *GameServer) HandleOpenRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	res := []OpenRoomRes{}
	for _, room := range g.store.OpenRooms() {
		names := []string{}
		for _, p := range room.State.Players {
			names = append(names, p.Name)
		}
		res = append(res, OpenRoomRes{
			RoomID:    room.ID,
			Name:      room.Name,
			Players:   names,
			CreatedAt: room.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRoomState returns a room's full snapshot
func (g *GameServer) HandleRoomState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	roomID := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/state/"))
	if roomID == "" {
		http.Error(w, "missing room ID", http.StatusBadRequest)
		return
	}

	room, ok := g.store.Find(roomID)
	if !ok {
		http.Error(w, unknownRoomIDMsg(roomID), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, room.State)
}

// HandleSelectTeam assigns a player to a team
func (g *GameServer) HandleSelectTeam(w http.ResponseWriter, r *http.Request) {
	var data TeamReq
	if !decodePost(w, r, &data) {
		return
	}

	team, err := bonhomme.ParseTeam(data.Team)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.applyAction(w, data.RoomID, protocol.TeamChosen, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		next, err := bonhomme.SelectTeam(state, data.PlayerID, team)
		if err != nil {
			return nil, err
		}
		return bonhomme.AutoSeatBots(next)
	})
}

// HandleSelectSeat assigns a player to a seat
func (g *GameServer) HandleSelectSeat(w http.ResponseWriter, r *http.Request) {
	var data SeatReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.SeatChosen, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		next, err := bonhomme.SelectSeat(state, data.PlayerID, data.Seat)
		if err != nil {
			return nil, err
		}
		return bonhomme.AutoSeatBots(next)
	})
}

// HandleReady flags a player as ready (or not)
func (g *GameServer) HandleReady(w http.ResponseWriter, r *http.Request) {
	var data ReadyReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.Ready, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		return bonhomme.SetReady(state, data.PlayerID, data.Ready)
	})
}

// HandleStart deals the first round
func (g *GameServer) HandleStart(w http.ResponseWriter, r *http.Request) {
	var data RoomOnlyReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.GameStarted, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		return bonhomme.StartGame(state, g.rnd)
	})
}

// HandleAddBot fills a free spot with a bot
func (g *GameServer) HandleAddBot(w http.ResponseWriter, r *http.Request) {
	var data RoomOnlyReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.NewJoiner, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		name := fmt.Sprintf("Bot %d", len(state.Players))
		return bonhomme.AddBot(state, name)
	})
}

// HandlePlaceBet records a bid
func (g *GameServer) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var data BetReq
	if !decodePost(w, r, &data) {
		return
	}

	tier, err := bonhomme.ParseBetTier(data.Tier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.applyAction(w, data.RoomID, protocol.BetPlaced, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		return bonhomme.PlaceBid(state, data.PlayerID, tier, data.Trump)
	})
}

// HandlePlayCard plays a card, settling the trick and the round when they
// complete
func (g *GameServer) HandlePlayCard(w http.ResponseWriter, r *http.Request) {
	var data PlayReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.CardPlayed, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		return bonhomme.PlayCard(state, data.PlayerID, data.CardID, g.rnd)
	})
}

// HandleBotTurn applies one bot action if it is currently a bot's turn.
// The presentation layer polls this; it is its job not to fire two
// triggers for the same room at once.
func (g *GameServer) HandleBotTurn(w http.ResponseWriter, r *http.Request) {
	var data RoomOnlyReq
	if !decodePost(w, r, &data) {
		return
	}

	g.applyAction(w, data.RoomID, protocol.StateUpdate, func(state *bonhomme.GameState) (*bonhomme.GameState, error) {
		// A bot whose bet was recorded without the turn advancing
		// indicates a stale snapshot; nudge the turn rather than wedge
		// the room. A human in the same position keeps their turn.
		current, ok := state.Players[state.CurrentTurn]
		if ok && current.Bot && state.Phase == bonhomme.Bets {
			if _, hasBet := state.Bets[state.CurrentTurn]; hasBet {
				next := state.Clone()
				next.CurrentTurn = next.NextInTurnOrder(state.CurrentTurn)
				return next, nil
			}
		}
		return bonhomme.PlayBotTurn(state, g.rnd)
	})
}

// HandleWS upgrades the connection and subscribes it to a room's updates
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := strings.ToUpper(query.Get("room_id"))
	if roomID == "" {
		http.Error(w, "missing room ID", http.StatusBadRequest)
		return
	}

	room, ok := g.store.Find(roomID)
	if !ok {
		http.Error(w, unknownRoomIDMsg(roomID), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	cl := g.hub.Register(roomID, conn)

	if err := cl.write(StateMessage{
		Command: protocol.StateUpdate.String(),
		RoomID:  room.ID,
		State:   room.State,
	}); err != nil {
		log.Println("initial state write failed:", err)
	}
}

// applyAction funnels one action through the store's per-room
// serialisation, broadcasts the settled state and echoes it to the caller
func (g *GameServer) applyAction(w http.ResponseWriter, roomID string, cmd protocol.Cmd, apply func(*bonhomme.GameState) (*bonhomme.GameState, error)) {
	roomID = strings.ToUpper(roomID)
	if roomID == "" {
		http.Error(w, "missing room ID", http.StatusBadRequest)
		return
	}

	room, err := g.store.Update(roomID, apply)
	if err != nil {
		writeEngineError(err, w, roomID)
		return
	}

	g.hub.Broadcast(room, cmd)
	writeJSON(w, http.StatusOK, room.State)
}

func decodePost(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return false
	}
	err := json.NewDecoder(r.Body).Decode(into)
	defer r.Body.Close()
	if err != nil {
		writeParseError(err, w)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Println(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

// writeEngineError maps rule violations to 400s: they are the player's
// problem, not the server's
func writeEngineError(err error, w http.ResponseWriter, roomID string) {
	switch {
	case errors.Is(err, bonhomme.ErrRoomNotFound):
		http.Error(w, unknownRoomIDMsg(roomID), http.StatusNotFound)
	case errors.Is(err, bonhomme.ErrRoomFull),
		errors.Is(err, bonhomme.ErrDuplicateName),
		errors.Is(err, bonhomme.ErrUnknownPlayer),
		errors.Is(err, bonhomme.ErrIllegalAssignment),
		errors.Is(err, bonhomme.ErrNotReady),
		errors.Is(err, bonhomme.ErrIllegalBid),
		errors.Is(err, bonhomme.ErrIllegalPlay),
		errors.Is(err, bonhomme.ErrBotCannotDecide):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Println(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeParseError(err error, w http.ResponseWriter) {
	if err == io.EOF {
		http.Error(w, "missing body", http.StatusBadRequest)
		return
	}
	log.Println(err.Error())
	http.Error(w, "could not parse request", http.StatusBadRequest)
}
