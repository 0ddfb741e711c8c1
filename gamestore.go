package bonhomme

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ErrRoomNotFound is returned when a room id matches nothing in the store
var ErrRoomNotFound = errors.New("no room with that id")

// Room holds one game's authoritative snapshot and its lobby metadata
type Room struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	State     *GameState `json:"state"`
}

// GameStore maps room ids to rooms. The engine is pure and lock-free, so
// the store is where actions on a room are serialised: all writes go
// through Update, which applies exactly one transition at a time per
// store. Triggering two bot turns for the same room outside Update would
// be a caller-level race the engine does not protect against.
type GameStore interface {
	Create(name string, state *GameState) (Room, error)
	Find(roomID string) (Room, bool)
	Update(roomID string, apply func(*GameState) (*GameState, error)) (Room, error)
	OpenRooms() []Room
}

// InMemoryGameStore keeps rooms in a map guarded by a mutex
type InMemoryGameStore struct {
	mu    sync.Mutex
	rooms map[string]Room
	rnd   *rand.Rand
	now   func() time.Time
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		rooms: map[string]Room{},
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRoomID generates a 6-character room code
func NewRoomID(rnd *rand.Rand) string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = roomIDAlphabet[rnd.Intn(len(roomIDAlphabet))]
	}
	return string(code)
}

// Create registers a new room under a fresh code
func (s *InMemoryGameStore) Create(name string, state *GameState) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roomID string
	for {
		roomID = NewRoomID(s.rnd)
		if _, exists := s.rooms[roomID]; !exists {
			break
		}
	}

	room := Room{
		ID:        roomID,
		Name:      name,
		CreatedAt: s.now(),
		State:     state,
	}
	s.rooms[roomID] = room
	return room, nil
}

// Find returns the room for an id
func (s *InMemoryGameStore) Find(roomID string) (Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	return room, ok
}

// Update applies one transition to a room's snapshot under the store
// lock. The stored state is replaced only if apply succeeds; on error the
// room keeps its previous snapshot.
func (s *InMemoryGameStore) Update(roomID string, apply func(*GameState) (*GameState, error)) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}

	next, err := apply(room.State)
	if err != nil {
		return Room{}, err
	}

	room.State = next
	s.rooms[roomID] = room
	return room, nil
}

// OpenRooms lists joinable rooms, newest first
func (s *InMemoryGameStore) OpenRooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := []Room{}
	for _, room := range s.rooms {
		if room.State.Phase == Waiting && len(room.State.Players) < MaxPlayers {
			open = append(open, room)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].CreatedAt.After(open[j].CreatedAt)
	})
	return open
}
