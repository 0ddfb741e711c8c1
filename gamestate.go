package bonhomme

import (
	"fmt"
	"sort"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/mtlgames/bonhomme/deck"
)

const (
	// MaxPlayers is the fixed table size: two teams of two
	MaxPlayers = 4

	// CardsPerPlayer is the hand size dealt each round
	CardsPerPlayer = 8

	baseTrickPoints     = 1
	bonhommeRougePoints = 5
	bonhommeBrunPoints  = -3

	// WinningScore ends the game at the first round boundary
	// where a team's cumulative score reaches it
	WinningScore = 41
)

// Phase represents the main phases of a game
type Phase int

const (
	Waiting Phase = iota
	Bets
	Cards
	TrickScoring
	RoundEnd
	GameEnd
)

var phaseNames = []string{"waiting", "bets", "cards", "trick_scoring", "round_end", "game_end"}

func (p Phase) String() string {
	if p < Waiting || p > GameEnd {
		return "unknown"
	}
	return phaseNames[p]
}

// Team represents one of the two partnerships
type Team int

const (
	TeamA Team = iota
	TeamB
)

func (t Team) String() string {
	if t == TeamA {
		return "A"
	}
	return "B"
}

// BetTier represents the tier of a bid: Skip or a contract of 7 to 12
type BetTier int

const (
	Skip BetTier = iota
	Seven
	Eight
	Nine
	Ten
	Eleven
	Twelve
)

var tierNames = []string{"skip", "seven", "eight", "nine", "ten", "eleven", "twelve"}

func (t BetTier) String() string {
	if t < Skip || t > Twelve {
		return "unknown"
	}
	return tierNames[t]
}

// Value returns the numeric value of the tier. Skip is worth nothing.
func (t BetTier) Value() int {
	if t == Skip {
		return 0
	}
	return int(t) + 6
}

// Tiers lists the bid tiers in ascending contract order
func Tiers() []BetTier {
	return []BetTier{Skip, Seven, Eight, Nine, Ten, Eleven, Twelve}
}

// ParseBetTier maps a tier name back to its BetTier
func ParseBetTier(name string) (BetTier, error) {
	for _, t := range Tiers() {
		if t.String() == name {
			return t, nil
		}
	}
	return Skip, fmt.Errorf("unknown bet tier %q", name)
}

// ParseTeam maps a team name back to its Team
func ParseTeam(name string) (Team, error) {
	switch name {
	case "A":
		return TeamA, nil
	case "B":
		return TeamB, nil
	}
	return TeamA, fmt.Errorf("unknown team %q", name)
}

// Bet represents one player's bid for the round.
// Timestamp orders the "all placed bets" display only; legality never reads it.
type Bet struct {
	PlayerID  string    `json:"playerId"`
	Tier      BetTier   `json:"betValue"`
	Value     int       `json:"value"`
	Trump     bool      `json:"trump"`
	Timestamp time.Time `json:"timestamp"`
}

// Player represents a seat at the table, human or bot
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  *Team  `json:"team,omitempty"`
	Seat  *int   `json:"seatPosition,omitempty"`
	Ready bool   `json:"isReady"`
	Bot   bool   `json:"isBot"`
}

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// NewPlayer constructs a human player with no team or seat yet
func NewPlayer(id, name string) Player {
	return Player{ID: id, Name: name}
}

// PlayedCard is a card committed to the current trick, tagged with
// its owner and its 1-based position within the trick
type PlayedCard struct {
	deck.Card
	PlayerID    string `json:"playerId"`
	TrickNumber int    `json:"trickNumber"`
	PlayOrder   int    `json:"playOrder"`
}

// GameState is the complete, externally-owned snapshot of one room's game.
// Every transition in this package clones the snapshot it is given and
// returns the clone; callers never observe a half-applied state.
type GameState struct {
	Phase       Phase                  `json:"phase"`
	Round       int                    `json:"round"`
	CurrentTurn string                 `json:"currentTurn"`
	Dealer      string                 `json:"dealer"`
	Starter     string                 `json:"starter"`
	Trump       *deck.Color            `json:"trump,omitempty"`
	HighestBet  *Bet                   `json:"highestBet,omitempty"`
	Players     map[string]Player      `json:"players"`
	Bets        map[string]Bet         `json:"bets"`
	PlayedCards map[string]PlayedCard  `json:"playedCards"`
	Hands       map[string][]deck.Card `json:"playerHands"`
	TrickPoints map[string]int         `json:"wonTricks"`
	Scores      map[string]int         `json:"scores"`
	TurnOrder   []string               `json:"turnOrder"`
}

// Clone deep-copies the snapshot
func (s *GameState) Clone() *GameState {
	c := *s

	if s.Trump != nil {
		trump := *s.Trump
		c.Trump = &trump
	}
	if s.HighestBet != nil {
		bet := *s.HighestBet
		c.HighestBet = &bet
	}

	c.Players = make(map[string]Player, len(s.Players))
	for id, p := range s.Players {
		if p.Team != nil {
			team := *p.Team
			p.Team = &team
		}
		if p.Seat != nil {
			seat := *p.Seat
			p.Seat = &seat
		}
		c.Players[id] = p
	}

	c.Bets = make(map[string]Bet, len(s.Bets))
	for id, b := range s.Bets {
		c.Bets[id] = b
	}

	c.PlayedCards = make(map[string]PlayedCard, len(s.PlayedCards))
	for id, pc := range s.PlayedCards {
		c.PlayedCards[id] = pc
	}

	c.Hands = make(map[string][]deck.Card, len(s.Hands))
	for id, hand := range s.Hands {
		c.Hands[id] = append([]deck.Card{}, hand...)
	}

	c.TrickPoints = make(map[string]int, len(s.TrickPoints))
	for id, pts := range s.TrickPoints {
		c.TrickPoints[id] = pts
	}

	c.Scores = make(map[string]int, len(s.Scores))
	for id, score := range s.Scores {
		c.Scores[id] = score
	}

	c.TurnOrder = append([]string{}, s.TurnOrder...)

	return &c
}

// NextInTurnOrder returns the player seated after the given one, or the
// given id unchanged when it is not in the turn order
func (s *GameState) NextInTurnOrder(playerID string) string {
	for i, id := range s.TurnOrder {
		if id == playerID {
			return s.TurnOrder[(i+1)%len(s.TurnOrder)]
		}
	}
	return playerID
}

// teamOf returns the team a player belongs to, if assigned
func (s *GameState) teamOf(playerID string) *Team {
	p, ok := s.Players[playerID]
	if !ok {
		return nil
	}
	return p.Team
}

// teamCount tallies players currently assigned to the given team
func (s *GameState) teamCount(team Team) int {
	count := 0
	for _, p := range s.Players {
		if p.Team != nil && *p.Team == team {
			count++
		}
	}
	return count
}

// teamTrickPoints sums the accumulated trick points of a team's players
func (s *GameState) teamTrickPoints(team Team) int {
	total := 0
	for _, p := range s.Players {
		if p.Team != nil && *p.Team == team {
			total += s.TrickPoints[p.ID]
		}
	}
	return total
}

// trickInPlayOrder returns the current trick's cards sorted by play order
func (s *GameState) trickInPlayOrder() []PlayedCard {
	cards := make([]PlayedCard, 0, len(s.PlayedCards))
	for _, pc := range s.PlayedCards {
		cards = append(cards, pc)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].PlayOrder < cards[j].PlayOrder
	})
	return cards
}
