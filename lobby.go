package bonhomme

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mtlgames/bonhomme/deck"
)

// NewGameState creates a fresh room in the waiting phase with its creator
// as the only player
func NewGameState(creator Player) *GameState {
	return &GameState{
		Phase:       Waiting,
		Round:       1,
		Players:     map[string]Player{creator.ID: creator},
		Bets:        map[string]Bet{},
		PlayedCards: map[string]PlayedCard{},
		Hands:       map[string][]deck.Card{},
		TrickPoints: map[string]int{},
		Scores:      map[string]int{creator.ID: 0},
		TurnOrder:   []string{},
	}
}

// AddPlayer admits a player to a waiting room
func AddPlayer(s *GameState, p Player) (*GameState, error) {
	if s.Phase != Waiting {
		return nil, fmt.Errorf("%w: game already started", ErrIllegalAssignment)
	}
	if len(s.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, existing := range s.Players {
		if existing.Name == p.Name {
			return nil, ErrDuplicateName
		}
	}

	next := s.Clone()
	next.Players[p.ID] = p
	next.Scores[p.ID] = 0
	return next, nil
}

// CanSelectTeam reports whether the player may join the given team.
// Each team holds at most two players.
func CanSelectTeam(s *GameState, playerID string, team Team) bool {
	if _, ok := s.Players[playerID]; !ok {
		return false
	}
	return s.teamCount(team) < 2
}

// SelectTeam assigns the player to a team
func SelectTeam(s *GameState, playerID string, team Team) (*GameState, error) {
	if _, ok := s.Players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if !CanSelectTeam(s, playerID, team) {
		return nil, fmt.Errorf("%w: team %s is full", ErrIllegalAssignment, team)
	}

	next := s.Clone()
	p := next.Players[playerID]
	p.Team = &team
	next.Players[playerID] = p
	return next, nil
}

// CanSelectSeat reports whether the seat is valid and unoccupied
func CanSelectSeat(s *GameState, playerID string, seat int) bool {
	if _, ok := s.Players[playerID]; !ok {
		return false
	}
	if seat < 0 || seat >= MaxPlayers {
		return false
	}
	for _, p := range s.Players {
		if p.Seat != nil && *p.Seat == seat {
			return false
		}
	}
	return true
}

// SelectSeat assigns the player to a seat position
func SelectSeat(s *GameState, playerID string, seat int) (*GameState, error) {
	if _, ok := s.Players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if !CanSelectSeat(s, playerID, seat) {
		return nil, fmt.Errorf("%w: seat %d is taken or out of range", ErrIllegalAssignment, seat)
	}

	next := s.Clone()
	p := next.Players[playerID]
	p.Seat = &seat
	next.Players[playerID] = p
	return next, nil
}

// SetReady records a player's ready flag
func SetReady(s *GameState, playerID string, ready bool) (*GameState, error) {
	if _, ok := s.Players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}

	next := s.Clone()
	p := next.Players[playerID]
	p.Ready = ready
	next.Players[playerID] = p
	return next, nil
}

// AllPlayersReady reports whether the table is full and everyone is ready
func AllPlayersReady(s *GameState) bool {
	if len(s.Players) != MaxPlayers {
		return false
	}
	for _, p := range s.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// TeamsBalanced reports whether both teams have exactly two players
func TeamsBalanced(s *GameState) bool {
	return s.teamCount(TeamA) == 2 && s.teamCount(TeamB) == 2
}

// SeatsSelected reports whether every player has chosen a seat
func SeatsSelected(s *GameState) bool {
	for _, p := range s.Players {
		if p.Seat == nil {
			return false
		}
	}
	return true
}

// generateTurnOrder fixes the turn order by seat position. It is set once
// at game start; only the current pointer into it ever moves.
func generateTurnOrder(s *GameState) []string {
	players := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return *players[i].Seat < *players[j].Seat
	})

	order := make([]string, 0, len(players))
	for _, p := range players {
		order = append(order, p.ID)
	}
	return order
}

// dealCards deals a fresh shuffled deck evenly across the turn order and
// resets the trick bookkeeping for the new round
func dealCards(s *GameState, rnd *rand.Rand) {
	d := deck.New()
	d.Shuffle(rnd)

	s.Hands = map[string][]deck.Card{}
	s.PlayedCards = map[string]PlayedCard{}
	s.TrickPoints = map[string]int{}
	for _, id := range s.TurnOrder {
		s.Hands[id] = d.Deal(CardsPerPlayer)
		s.TrickPoints[id] = 0
	}
}

// StartGame moves a full, ready room into the first betting round.
// The player in seat 0 deals; the player in seat 1 bids first.
func StartGame(s *GameState, rnd *rand.Rand) (*GameState, error) {
	if s.Phase != Waiting {
		return nil, fmt.Errorf("%w: game already started", ErrNotReady)
	}
	if !AllPlayersReady(s) || !TeamsBalanced(s) || !SeatsSelected(s) {
		return nil, ErrNotReady
	}

	next := s.Clone()
	next.TurnOrder = generateTurnOrder(next)
	next.Dealer = next.TurnOrder[0]
	next.Starter = next.TurnOrder[1]
	next.CurrentTurn = next.Starter
	next.Phase = Bets
	next.Round = 1
	next.Bets = map[string]Bet{}
	next.HighestBet = nil
	next.Trump = nil
	for _, id := range next.TurnOrder {
		next.Scores[id] = 0
	}
	dealCards(next, rnd)

	return next, nil
}
