package bonhomme

import (
	"math/rand"
	"testing"

	"github.com/mtlgames/bonhomme/deck"
)

// fourPlayerRoom builds a waiting room with four seated, ready players:
// p1/p3 on team A in seats 0/2, p2/p4 on team B in seats 1/3
func fourPlayerRoom(t *testing.T) *GameState {
	t.Helper()

	state := NewGameState(NewPlayer("p1", "Ada"))
	for id, name := range map[string]string{"p2": "Grace", "p3": "Katherine", "p4": "Hedy"} {
		var err error
		state, err = AddPlayer(state, NewPlayer(id, name))
		if err != nil {
			t.Fatalf("could not add player %s: %s", id, err)
		}
	}

	assignments := []struct {
		id   string
		team Team
		seat int
	}{
		{"p1", TeamA, 0},
		{"p2", TeamB, 1},
		{"p3", TeamA, 2},
		{"p4", TeamB, 3},
	}
	for _, a := range assignments {
		var err error
		if state, err = SelectTeam(state, a.id, a.team); err != nil {
			t.Fatalf("could not assign team: %s", err)
		}
		if state, err = SelectSeat(state, a.id, a.seat); err != nil {
			t.Fatalf("could not assign seat: %s", err)
		}
		if state, err = SetReady(state, a.id, true); err != nil {
			t.Fatalf("could not set ready: %s", err)
		}
	}
	return state
}

// biddingGame starts a four player room and leaves it at the top of the
// first auction: turn order p1..p4, dealer p1, starter p2
func biddingGame(t *testing.T) *GameState {
	t.Helper()

	state, err := StartGame(fourPlayerRoom(t), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("could not start game: %s", err)
	}
	return state
}

// cardsGame builds a card-play state directly with hand-picked hands and
// a settled highest bet. CurrentTurn is the highest bidder.
func cardsGame(t *testing.T, bet Bet, hands map[string][]deck.Card) *GameState {
	t.Helper()

	state := biddingGame(t)
	state.Phase = Cards
	state.HighestBet = &bet
	state.CurrentTurn = bet.PlayerID
	state.Starter = bet.PlayerID
	state.Hands = map[string][]deck.Card{}
	for _, id := range state.TurnOrder {
		state.Hands[id] = append([]deck.Card{}, hands[id]...)
		state.TrickPoints[id] = 0
	}
	return state
}

func card(t *testing.T, color deck.Color, value int) deck.Card {
	t.Helper()

	c, err := deck.NewCard(color, value)
	if err != nil {
		t.Fatalf("bad test card: %s", err)
	}
	return c
}

func played(t *testing.T, playerID string, color deck.Color, value, order int) PlayedCard {
	t.Helper()

	return PlayedCard{
		Card:      card(t, color, value),
		PlayerID:  playerID,
		PlayOrder: order,
	}
}

func bet(playerID string, tier BetTier, trump bool) Bet {
	return Bet{PlayerID: playerID, Tier: tier, Value: tier.Value(), Trump: trump}
}
