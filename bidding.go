package bonhomme

import (
	"fmt"
	"time"
)

// HighestBet returns the dominant bid among those placed: higher value
// wins, no-trump outranks trump at equal value, and a full tie keeps the
// earlier bid. Skips never dominate a real bid.
func HighestBet(bets []Bet) *Bet {
	var highest *Bet
	for i := range bets {
		b := bets[i]
		if b.Tier == Skip {
			continue
		}
		if highest == nil {
			highest = &b
			continue
		}
		if b.Value > highest.Value {
			highest = &b
			continue
		}
		if b.Value == highest.Value && !b.Trump && highest.Trump {
			highest = &b
		}
	}
	return highest
}

// currentHighestBet finds the highest real bid recorded so far this round.
// Bets are collected in the order they were placed, which is the turn order
// starting from the round's starter, so full ties settle deterministically.
func currentHighestBet(s *GameState) *Bet {
	start := 0
	for i, id := range s.TurnOrder {
		if id == s.Starter {
			start = i
			break
		}
	}

	bets := make([]Bet, 0, len(s.Bets))
	for i := 0; i < len(s.TurnOrder); i++ {
		id := s.TurnOrder[(start+i)%len(s.TurnOrder)]
		if b, ok := s.Bets[id]; ok {
			bets = append(bets, b)
		}
	}
	return HighestBet(bets)
}

// AllBetsPlaced reports whether every seat has a recorded bet this round
func AllBetsPlaced(s *GameState) bool {
	for _, id := range s.TurnOrder {
		if _, ok := s.Bets[id]; !ok {
			return false
		}
	}
	return len(s.TurnOrder) == MaxPlayers
}

// isLastToBid reports whether every other seat has already bid,
// making this player the closing bidder
func isLastToBid(s *GameState) bool {
	return len(s.Bets) == len(s.TurnOrder)-1
}

// CanPlaceBid checks the legality of a proposed bid without applying it.
//
// Skip is always legal except for the closing bidder when everyone else
// skipped: someone has to take the contract. A numeric bid must open at
// seven or beat the running highest; at equal value, no-trump outranks
// trump, and only the closing bidder may equalize when the trump flags
// match. Comparison is only ever against the running highest bid, never
// the full bid history.
func CanPlaceBid(s *GameState, playerID string, tier BetTier, trump bool) bool {
	if s.Phase != Bets {
		return false
	}
	if s.CurrentTurn != playerID {
		return false
	}
	if _, alreadyBid := s.Bets[playerID]; alreadyBid {
		return false
	}
	if tier < Skip || tier > Twelve {
		return false
	}

	highest := currentHighestBet(s)
	lastToBid := isLastToBid(s)

	if tier == Skip {
		if lastToBid && highest == nil {
			return false
		}
		return true
	}

	value := tier.Value()
	if highest == nil {
		return value >= Seven.Value()
	}
	if value > highest.Value {
		return true
	}
	if value == highest.Value {
		if !trump && highest.Trump {
			return true
		}
		if lastToBid && trump == highest.Trump {
			return true
		}
	}
	return false
}

// PlaceBid records a bid and advances the auction. When the final bid
// lands, the phase moves to the card play, trump is cleared pending the
// first card of the round, and the highest bidder leads.
func PlaceBid(s *GameState, playerID string, tier BetTier, trump bool) (*GameState, error) {
	if !CanPlaceBid(s, playerID, tier, trump) {
		return nil, fmt.Errorf("%w: %s %s (trump=%t)", ErrIllegalBid, playerID, tier, trump)
	}

	next := s.Clone()
	next.Bets[playerID] = Bet{
		PlayerID:  playerID,
		Tier:      tier,
		Value:     tier.Value(),
		Trump:     trump,
		Timestamp: time.Now(),
	}

	if AllBetsPlaced(next) {
		highest := currentHighestBet(next)
		if highest == nil {
			// forced-bid rule makes this unreachable
			return nil, ErrNoHighestBid
		}
		next.HighestBet = highest
		next.Trump = nil
		next.Phase = Cards
		next.CurrentTurn = highest.PlayerID
		return next, nil
	}

	next.CurrentTurn = next.NextInTurnOrder(playerID)
	return next, nil
}
