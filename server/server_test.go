package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/mtlgames/bonhomme"
	utils "github.com/mtlgames/bonhomme/internal"
)

func TestServerPOSTNewRoom(t *testing.T) {
	t.Run("succeeds and returns the creator's ids", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		response := doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"})

		assertStatus(t, response.Code, http.StatusCreated)

		res := mustDecodeRoomRes(t, response)
		utils.AssertNotEmptyString(t, res.RoomID)
		utils.AssertNotEmptyString(t, res.PlayerID)
		utils.AssertEqual(t, res.Name, "Ada")
		utils.AssertTrue(t, res.Admin)
	})

	t.Run("returns 400 if a name is missing", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		response := doPost(t, server, "/new", NewRoomReq{RoomName: "table"})

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("does not match on GET /new", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/new", nil)

		server := NewServer(nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestServerPOSTJoinRoom(t *testing.T) {
	t.Run("returns 200 for an existing room", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		created := mustDecodeRoomRes(t, doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"}))

		response := doPost(t, server, "/join", JoinRoomReq{RoomID: created.RoomID, Name: "Grace"})

		assertStatus(t, response.Code, http.StatusOK)
		res := mustDecodeRoomRes(t, response)
		utils.AssertEqual(t, res.RoomID, created.RoomID)
		utils.AssertEqual(t, len(res.Players), 2)
	})

	t.Run("room codes are case insensitive", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		created := mustDecodeRoomRes(t, doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"}))

		response := doPost(t, server, "/join", JoinRoomReq{RoomID: strings.ToLower(created.RoomID), Name: "Grace"})
		assertStatus(t, response.Code, http.StatusOK)
	})

	t.Run("returns 404 for an unknown room", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		response := doPost(t, server, "/join", JoinRoomReq{RoomID: "NOSUCH", Name: "Grace"})

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("returns 400 for a duplicate name", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		created := mustDecodeRoomRes(t, doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"}))

		response := doPost(t, server, "/join", JoinRoomReq{RoomID: created.RoomID, Name: "Ada"})
		assertStatus(t, response.Code, http.StatusBadRequest)
	})
}

func TestServerGETOpenRooms(t *testing.T) {
	server := NewServer(bonhomme.NewInMemoryGameStore())
	doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"})

	response := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	utils.AssertTrue(t, strings.Contains(response.Body.String(), "table"))
}

func TestServerGETRoomState(t *testing.T) {
	t.Run("returns the room snapshot", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		created := mustDecodeRoomRes(t, doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"}))

		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/state/"+created.RoomID, nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		state := mustDecodeState(t, response)
		utils.AssertEqual(t, state.Phase, bonhomme.Waiting)
		utils.AssertEqual(t, len(state.Players), 1)
	})

	t.Run("returns 404 for an unknown room", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/state/NOSUCH", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestServerLobbyToFirstBid(t *testing.T) {
	server, roomID, creatorID := newRoomWithBots(t)

	// bots have taken team A's seats and one of team B's
	response := doPost(t, server, "/team", TeamReq{RoomID: roomID, PlayerID: creatorID, Team: "B"})
	assertStatus(t, response.Code, http.StatusOK)

	response = doPost(t, server, "/seat", SeatReq{RoomID: roomID, PlayerID: creatorID, Seat: 3})
	assertStatus(t, response.Code, http.StatusOK)

	response = doPost(t, server, "/ready", ReadyReq{RoomID: roomID, PlayerID: creatorID, Ready: true})
	assertStatus(t, response.Code, http.StatusOK)

	response = doPost(t, server, "/start", RoomOnlyReq{RoomID: roomID})
	assertStatus(t, response.Code, http.StatusOK)

	state := mustDecodeState(t, response)
	utils.AssertEqual(t, state.Phase, bonhomme.Bets)
	utils.AssertEqual(t, len(state.TurnOrder), bonhomme.MaxPlayers)

	t.Run("a player cannot bid out of turn", func(t *testing.T) {
		// the first bidder is the bot left of the dealer, not the creator
		response := doPost(t, server, "/bet", BetReq{
			RoomID:   roomID,
			PlayerID: creatorID,
			Tier:     "seven",
			Trump:    false,
		})
		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("an unknown tier is rejected before the engine", func(t *testing.T) {
		response := doPost(t, server, "/bet", BetReq{
			RoomID:   roomID,
			PlayerID: creatorID,
			Tier:     "thirteen",
		})
		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("bot turns advance the auction", func(t *testing.T) {
		response := doPost(t, server, "/bot-turn", RoomOnlyReq{RoomID: roomID})
		assertStatus(t, response.Code, http.StatusOK)

		next := mustDecodeState(t, response)
		utils.AssertEqual(t, len(next.Bets), 1)
	})
}

func TestServerCannotStartUnreadyRoom(t *testing.T) {
	server, roomID, _ := newRoomWithBots(t)

	response := doPost(t, server, "/start", RoomOnlyReq{RoomID: roomID})
	assertStatus(t, response.Code, http.StatusBadRequest)
}

func TestServerBotTurnStaleBet(t *testing.T) {
	// a current-turn player with a bet already recorded in the bets phase
	// means the snapshot's turn pointer is stale
	stuckRoom := func(t *testing.T, bot bool) (*GameServer, bonhomme.GameStore, string) {
		t.Helper()

		state := &bonhomme.GameState{
			Phase:       bonhomme.Bets,
			CurrentTurn: "stuck",
			Players: map[string]bonhomme.Player{
				"stuck": {ID: "stuck", Name: "Stuck", Bot: bot},
				"next":  {ID: "next", Name: "Next"},
			},
			Bets: map[string]bonhomme.Bet{
				"stuck": {PlayerID: "stuck", Tier: bonhomme.Seven, Value: 7},
			},
			TurnOrder: []string{"stuck", "next"},
		}

		store := bonhomme.NewInMemoryGameStore()
		room, err := store.Create("table", state)
		utils.AssertNoError(t, err)
		return NewServer(store), store, room.ID
	}

	t.Run("advances past a bot whose bet is already recorded", func(t *testing.T) {
		server, _, roomID := stuckRoom(t, true)

		response := doPost(t, server, "/bot-turn", RoomOnlyReq{RoomID: roomID})
		assertStatus(t, response.Code, http.StatusOK)

		state := mustDecodeState(t, response)
		utils.AssertEqual(t, state.CurrentTurn, "next")
		utils.AssertEqual(t, len(state.Bets), 1)
	})

	t.Run("never advances a human's turn", func(t *testing.T) {
		server, store, roomID := stuckRoom(t, false)

		response := doPost(t, server, "/bot-turn", RoomOnlyReq{RoomID: roomID})
		assertStatus(t, response.Code, http.StatusBadRequest)

		room, ok := store.Find(roomID)
		utils.AssertTrue(t, ok)
		utils.AssertEqual(t, room.State.CurrentTurn, "stuck")
	})
}

func TestServerWS(t *testing.T) {
	t.Run("returns 400 without a room id", func(t *testing.T) {
		server := NewServer(bonhomme.NewInMemoryGameStore())
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/ws", nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("sends the current state on subscribe", func(t *testing.T) {
		gameServer := NewServer(bonhomme.NewInMemoryGameStore())
		created := mustDecodeRoomRes(t, doPost(t, gameServer, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"}))

		server := httptest.NewServer(gameServer)
		defer server.Close()

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?room_id=" + created.RoomID
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		utils.AssertNoError(t, err)
		defer conn.Close()

		var msg StateMessage
		utils.AssertNoError(t, conn.ReadJSON(&msg))
		utils.AssertEqual(t, msg.RoomID, created.RoomID)
		utils.AssertNotNil(t, msg.State)
	})
}
