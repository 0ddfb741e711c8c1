package bonhomme

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mtlgames/bonhomme/deck"
)

// The bot policies are advisory and side-effect-free: they return an
// action, never a new state. They only ever propose actions that pass the
// same legality checks applied to human players, so a bot producing an
// illegal action is a logic error, not a runtime condition to recover from.

// BotBid decides a bot's bid. A closing bidder facing nothing but skips is
// forced to open at seven no-trump. Otherwise the bot takes the lowest
// legal tier, preferring no-trump over trump, and skips when it cannot
// outbid.
func BotBid(s *GameState, botID string) (BetTier, bool) {
	if isLastToBid(s) && currentHighestBet(s) == nil {
		return Seven, false
	}

	for _, tier := range Tiers() {
		if tier == Skip {
			continue
		}
		if CanPlaceBid(s, botID, tier, false) {
			return tier, false
		}
		if CanPlaceBid(s, botID, tier, true) {
			return tier, true
		}
	}
	return Skip, false
}

// BotPlay decides a bot's card. On a free lead it plays a uniformly random
// legal card. Following, it plays the highest legal card of the lead
// color, then the highest legal trump, then its lowest legal card.
func BotPlay(s *GameState, botID string, rnd *rand.Rand) (deck.Card, error) {
	var legal []deck.Card
	for _, c := range s.Hands[botID] {
		if CanPlayCard(s, botID, c.ID) {
			legal = append(legal, c)
		}
	}
	if len(legal) == 0 {
		return deck.Card{}, fmt.Errorf("%w: no playable card for %s", ErrBotCannotDecide, botID)
	}

	trick := s.trickInPlayOrder()
	if len(trick) == 0 {
		return legal[rnd.Intn(len(legal))], nil
	}

	leadColor := trick[0].Color
	if c, ok := highestOfColor(legal, leadColor); ok {
		return c, nil
	}
	if s.Trump != nil {
		if c, ok := highestOfColor(legal, *s.Trump); ok {
			return c, nil
		}
	}

	lowest := legal[0]
	for _, c := range legal[1:] {
		if c.Value < lowest.Value {
			lowest = c
		}
	}
	return lowest, nil
}

func highestOfColor(cards []deck.Card, color deck.Color) (deck.Card, bool) {
	var best deck.Card
	found := false
	for _, c := range cards {
		if c.Color != color {
			continue
		}
		if !found || c.Value > best.Value {
			best = c
			found = true
		}
	}
	return best, found
}

// AddBot admits a bot to a waiting room and immediately walks it through
// the lobby steps a human performs by hand: pick the first open team, the
// first open seat, then flag ready.
func AddBot(s *GameState, name string) (*GameState, error) {
	bot := Player{ID: NewID(), Name: name, Bot: true}
	next, err := AddPlayer(s, bot)
	if err != nil {
		return nil, err
	}
	return AutoSeatBots(next)
}

// AutoSeatBots completes team, seat and ready selection for every bot in
// the room that still has lobby steps outstanding
func AutoSeatBots(s *GameState) (*GameState, error) {
	next := s
	for _, id := range botIDs(next) {
		p := next.Players[id]

		if p.Team == nil {
			team := TeamA
			if !CanSelectTeam(next, id, TeamA) {
				team = TeamB
			}
			var err error
			next, err = SelectTeam(next, id, team)
			if err != nil {
				return nil, err
			}
		}

		if next.Players[id].Seat == nil {
			seated := false
			for seat := 0; seat < MaxPlayers; seat++ {
				if CanSelectSeat(next, id, seat) {
					var err error
					next, err = SelectSeat(next, id, seat)
					if err != nil {
						return nil, err
					}
					seated = true
					break
				}
			}
			if !seated {
				return nil, fmt.Errorf("%w: no free seat for bot %s", ErrIllegalAssignment, id)
			}
		}

		if !next.Players[id].Ready {
			var err error
			next, err = SetReady(next, id, true)
			if err != nil {
				return nil, err
			}
		}
	}
	return next, nil
}

// PlayBotTurn applies exactly one bot action through the same entry points
// used for humans. It is a no-op error if the current turn is not a bot's.
func PlayBotTurn(s *GameState, rnd *rand.Rand) (*GameState, error) {
	current, ok := s.Players[s.CurrentTurn]
	if !ok || !current.Bot {
		return nil, fmt.Errorf("%w: it is not a bot's turn", ErrBotCannotDecide)
	}

	switch s.Phase {
	case Bets:
		tier, trump := BotBid(s, current.ID)
		return PlaceBid(s, current.ID, tier, trump)
	case Cards:
		card, err := BotPlay(s, current.ID, rnd)
		if err != nil {
			return nil, err
		}
		return PlayCard(s, current.ID, card.ID, rnd)
	default:
		return nil, fmt.Errorf("%w: bots only act in the bet and card phases", ErrBotCannotDecide)
	}
}

func botIDs(s *GameState) []string {
	ids := []string{}
	for _, id := range sortedPlayerIDs(s) {
		if s.Players[id].Bot {
			ids = append(ids, id)
		}
	}
	return ids
}

// sortedPlayerIDs gives a stable iteration order over the players map
func sortedPlayerIDs(s *GameState) []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
