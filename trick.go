package bonhomme

import (
	"fmt"
	"math/rand"

	"github.com/mtlgames/bonhomme/deck"
)

// cardInHand finds a card in the player's hand by ID
func cardInHand(s *GameState, playerID, cardID string) (deck.Card, bool) {
	for _, c := range s.Hands[playerID] {
		if c.ID == cardID {
			return c, true
		}
	}
	return deck.Card{}, false
}

// hasColor reports whether the player holds any card of the given color
func hasColor(s *GameState, playerID string, color deck.Color) bool {
	for _, c := range s.Hands[playerID] {
		if c.Color == color {
			return true
		}
	}
	return false
}

// CanPlayCard checks the legality of playing a card without applying it.
//
// The first card of a trick is a free lead. After that the card must
// follow the lead color, unless the hand holds none of it, or the card is
// the established trump color. Trump may be played even when the player
// could follow suit.
func CanPlayCard(s *GameState, playerID, cardID string) bool {
	if s.Phase != Cards {
		return false
	}
	if s.CurrentTurn != playerID {
		return false
	}
	card, inHand := cardInHand(s, playerID, cardID)
	if !inHand {
		return false
	}

	trick := s.trickInPlayOrder()
	if len(trick) == 0 {
		return true
	}

	leadColor := trick[0].Color
	if card.Color == leadColor {
		return true
	}
	if !hasColor(s, playerID, leadColor) {
		return true
	}
	if s.Trump != nil && card.Color == *s.Trump {
		return true
	}
	return false
}

// PlayCard commits a card to the current trick. If this is the first card
// of the round and the winning bid carried trump, the card's color becomes
// trump for the rest of the round. When the fourth card lands the trick is
// resolved, and when the last trick of the round resolves, round scoring
// runs too, so the caller always receives a fully settled state.
func PlayCard(s *GameState, playerID, cardID string, rnd *rand.Rand) (*GameState, error) {
	if !CanPlayCard(s, playerID, cardID) {
		return nil, fmt.Errorf("%w: player %s card %s", ErrIllegalPlay, playerID, cardID)
	}

	next := s.Clone()
	card, _ := cardInHand(next, playerID, cardID)

	hand := next.Hands[playerID]
	for i, c := range hand {
		if c.ID == cardID {
			next.Hands[playerID] = append(hand[:i], hand[i+1:]...)
			break
		}
	}

	playOrder := len(next.PlayedCards) + 1
	next.PlayedCards[playerID] = PlayedCard{
		Card:        card,
		PlayerID:    playerID,
		TrickNumber: next.Round,
		PlayOrder:   playOrder,
	}

	if playOrder == 1 && next.HighestBet != nil && next.HighestBet.Trump && next.Trump == nil {
		color := card.Color
		next.Trump = &color
	}

	next.CurrentTurn = next.NextInTurnOrder(playerID)

	if !IsTrickComplete(next) {
		return next, nil
	}

	next, err := ResolveTrick(next)
	if err != nil {
		return nil, err
	}

	if next.Phase == TrickScoring {
		return ProcessRoundEnd(next, rnd)
	}
	return next, nil
}

// IsTrickComplete reports whether every seat has played into the trick
func IsTrickComplete(s *GameState) bool {
	return len(s.TurnOrder) > 0 && len(s.PlayedCards) == len(s.TurnOrder)
}

// IsRoundComplete reports whether every hand has been played out
func IsRoundComplete(s *GameState) bool {
	for _, id := range s.TurnOrder {
		if len(s.Hands[id]) > 0 {
			return false
		}
	}
	return len(s.TurnOrder) > 0
}

// WinningCard picks the winner among the trick's cards: trump beats
// non-trump, then lead color beats off-color, then higher value.
// The first card played is the fallback on a full tie.
func WinningCard(trick []PlayedCard, trump *deck.Color) *PlayedCard {
	if len(trick) == 0 {
		return nil
	}

	leadColor := trick[0].Color
	best := trick[0]
	for _, current := range trick[1:] {
		bestIsTrump := trump != nil && best.Color == *trump
		currentIsTrump := trump != nil && current.Color == *trump

		if currentIsTrump != bestIsTrump {
			if currentIsTrump {
				best = current
			}
			continue
		}

		bestFollowsLead := best.Color == leadColor
		currentFollowsLead := current.Color == leadColor
		if currentFollowsLead != bestFollowsLead {
			if currentFollowsLead {
				best = current
			}
			continue
		}

		if current.Value > best.Value {
			best = current
		}
	}
	return &best
}

// TrickPoints values a trick: one point, plus five if the bonhomme rouge
// is in it, minus three if the bonhomme brun is. Both swings can land in
// the same trick.
func TrickPoints(trick []PlayedCard) int {
	points := baseTrickPoints
	for _, pc := range trick {
		if pc.IsBonhommeRouge() {
			points += bonhommeRougePoints
		}
		if pc.IsBonhommeBrun() {
			points += bonhommeBrunPoints
		}
	}
	return points
}

// ResolveTrick awards the completed trick, clears it, and hands the lead
// to the winner. When the last hand empties, the phase moves to trick
// scoring so round scoring can run.
func ResolveTrick(s *GameState) (*GameState, error) {
	if !IsTrickComplete(s) {
		return nil, ErrTrickNotComplete
	}

	next := s.Clone()
	trick := next.trickInPlayOrder()
	winner := WinningCard(trick, next.Trump)
	points := TrickPoints(trick)

	next.TrickPoints[winner.PlayerID] += points
	next.PlayedCards = map[string]PlayedCard{}
	next.CurrentTurn = winner.PlayerID
	next.Starter = winner.PlayerID

	if IsRoundComplete(next) {
		next.Phase = TrickScoring
	}
	return next, nil
}
