package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtlgames/bonhomme"
	utils "github.com/mtlgames/bonhomme/internal"
)

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func newPostRequest(path string, data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	return request
}

func doPost(t *testing.T, server *GameServer, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newPostRequest(path, mustMakeJson(t, payload)))
	return response
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

func mustDecodeRoomRes(t *testing.T, response *httptest.ResponseRecorder) RoomRes {
	t.Helper()

	var res RoomRes
	utils.AssertNoError(t, json.NewDecoder(response.Body).Decode(&res))
	return res
}

func mustDecodeState(t *testing.T, response *httptest.ResponseRecorder) bonhomme.GameState {
	t.Helper()

	var state bonhomme.GameState
	utils.AssertNoError(t, json.NewDecoder(response.Body).Decode(&state))
	return state
}

// newRoomWithBots creates a room through the handlers, fills three seats
// with bots and returns the server, room id and the creator's player id
func newRoomWithBots(t *testing.T) (*GameServer, string, string) {
	t.Helper()

	server := NewServer(bonhomme.NewInMemoryGameStore())

	response := doPost(t, server, "/new", NewRoomReq{RoomName: "table", PlayerName: "Ada"})
	assertStatus(t, response.Code, http.StatusCreated)
	res := mustDecodeRoomRes(t, response)

	for i := 0; i < 3; i++ {
		botResponse := doPost(t, server, "/bot", RoomOnlyReq{RoomID: res.RoomID})
		assertStatus(t, botResponse.Code, http.StatusOK)
	}
	return server, res.RoomID, res.PlayerID
}
