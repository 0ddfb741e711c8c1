package bonhomme

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	utils "github.com/mtlgames/bonhomme/internal"
)

func TestInMemoryGameStore(t *testing.T) {
	t.Run("created rooms can be found", func(t *testing.T) {
		store := NewInMemoryGameStore()
		state := NewGameState(NewPlayer("p1", "Ada"))

		room, err := store.Create("Ada's table", state)
		utils.AssertNoError(t, err)
		assert.Len(t, room.ID, 6)

		found, ok := store.Find(room.ID)
		utils.AssertTrue(t, ok)
		utils.AssertEqual(t, found.Name, "Ada's table")
		utils.AssertEqual(t, found.State, state)
	})

	t.Run("finding an unknown id fails", func(t *testing.T) {
		store := NewInMemoryGameStore()
		_, ok := store.Find("ABC123")
		assert.False(t, ok)
	})

	t.Run("update replaces the snapshot on success", func(t *testing.T) {
		store := NewInMemoryGameStore()
		room, err := store.Create("table", NewGameState(NewPlayer("p1", "Ada")))
		utils.AssertNoError(t, err)

		updated, err := store.Update(room.ID, func(s *GameState) (*GameState, error) {
			return AddPlayer(s, NewPlayer("p2", "Grace"))
		})
		utils.AssertNoError(t, err)
		assert.Len(t, updated.State.Players, 2)

		found, _ := store.Find(room.ID)
		assert.Len(t, found.State.Players, 2)
	})

	t.Run("update keeps the previous snapshot on failure", func(t *testing.T) {
		store := NewInMemoryGameStore()
		room, err := store.Create("table", NewGameState(NewPlayer("p1", "Ada")))
		utils.AssertNoError(t, err)

		_, err = store.Update(room.ID, func(s *GameState) (*GameState, error) {
			return AddPlayer(s, NewPlayer("p2", "Ada"))
		})
		assert.ErrorIs(t, err, ErrDuplicateName)

		found, _ := store.Find(room.ID)
		assert.Len(t, found.State.Players, 1)
	})

	t.Run("updating an unknown room fails", func(t *testing.T) {
		store := NewInMemoryGameStore()
		_, err := store.Update("ABC123", func(s *GameState) (*GameState, error) {
			return s, nil
		})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("open rooms lists joinable waiting rooms newest first", func(t *testing.T) {
		store := NewInMemoryGameStore()
		clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}

		older, err := store.Create("older", NewGameState(NewPlayer("p1", "Ada")))
		utils.AssertNoError(t, err)
		newer, err := store.Create("newer", NewGameState(NewPlayer("p2", "Grace")))
		utils.AssertNoError(t, err)

		started, err := StartGame(fourPlayerRoom(t), rand.New(rand.NewSource(1)))
		utils.AssertNoError(t, err)
		_, err = store.Create("started", started)
		utils.AssertNoError(t, err)

		full := fourPlayerRoom(t)
		_, err = store.Create("full", full)
		utils.AssertNoError(t, err)

		open := store.OpenRooms()
		assert.Len(t, open, 2)
		utils.AssertEqual(t, open[0].ID, newer.ID)
		utils.AssertEqual(t, open[1].ID, older.ID)
	})
}

func TestNewRoomID(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewRoomID(rnd)
		assert.Len(t, id, 6)
		assert.Regexp(t, "^[A-Z0-9]{6}$", id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 95, "room codes should rarely collide")
}

func TestUpdateErrorsPassThrough(t *testing.T) {
	store := NewInMemoryGameStore()
	room, err := store.Create("table", NewGameState(NewPlayer("p1", "Ada")))
	utils.AssertNoError(t, err)

	sentinel := errors.New("boom")
	_, err = store.Update(room.ID, func(s *GameState) (*GameState, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}
