package bonhomme

import (
	"fmt"
	"math/rand"
)

// RoundResult summarises the scoring of one completed round
type RoundResult struct {
	TeamAScore     int  `json:"teamAScore"`
	TeamBScore     int  `json:"teamBScore"`
	BettingTeamWon bool `json:"bettingTeamWon"`
}

// CalculateRoundScores computes each team's score delta for the round.
// The betting team makes its contract when its trick points reach the bid
// value; it then scores the bid plus one point per excess trick on a trump
// bid, or two on a no-trump bid. A failed contract scores the negative of
// the bid. The defending team always keeps its own trick points.
//
// The function reads the snapshot without modifying it, so calling it
// twice on the same state yields identical results.
func CalculateRoundScores(s *GameState) (RoundResult, error) {
	if s.HighestBet == nil {
		return RoundResult{}, ErrNoHighestBid
	}
	if !IsRoundComplete(s) {
		return RoundResult{}, ErrRoundNotComplete
	}

	bettingTeam := s.teamOf(s.HighestBet.PlayerID)
	if bettingTeam == nil {
		return RoundResult{}, fmt.Errorf("%w: highest bidder has no team", ErrNoHighestBid)
	}

	bettingPoints := s.teamTrickPoints(*bettingTeam)
	defendingTeam := TeamB
	if *bettingTeam == TeamB {
		defendingTeam = TeamA
	}
	defendingPoints := s.teamTrickPoints(defendingTeam)

	won := bettingPoints >= s.HighestBet.Value

	var bettingScore int
	if won {
		excess := bettingPoints - s.HighestBet.Value
		perExcess := 2
		if s.HighestBet.Trump {
			perExcess = 1
		}
		bettingScore = s.HighestBet.Value + excess*perExcess
	} else {
		bettingScore = -s.HighestBet.Value
	}

	result := RoundResult{BettingTeamWon: won}
	if *bettingTeam == TeamA {
		result.TeamAScore = bettingScore
		result.TeamBScore = defendingPoints
	} else {
		result.TeamAScore = defendingPoints
		result.TeamBScore = bettingScore
	}
	return result, nil
}

// ProcessRoundEnd folds the round's scores into the cumulative totals and
// sets up the next round: fresh deal, dealer rotated one seat, starter one
// seat past the new dealer, bidding reopened. If a team has reached the
// winning score the game ends instead.
func ProcessRoundEnd(s *GameState, rnd *rand.Rand) (*GameState, error) {
	result, err := CalculateRoundScores(s)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	for _, p := range next.Players {
		if p.Team == nil {
			continue
		}
		switch *p.Team {
		case TeamA:
			next.Scores[p.ID] += result.TeamAScore
		case TeamB:
			next.Scores[p.ID] += result.TeamBScore
		}
	}

	next.Round++
	next.Bets = map[string]Bet{}
	next.HighestBet = nil
	next.Trump = nil
	next.PlayedCards = map[string]PlayedCard{}

	if winner := GameWinner(next); winner != nil {
		next.Phase = GameEnd
		next.CurrentTurn = ""
		return next, nil
	}

	currentDealerIdx := 0
	for i, id := range next.TurnOrder {
		if id == next.Dealer {
			currentDealerIdx = i
			break
		}
	}
	next.Dealer = next.TurnOrder[(currentDealerIdx+1)%len(next.TurnOrder)]
	next.Starter = next.TurnOrder[(currentDealerIdx+2)%len(next.TurnOrder)]
	next.CurrentTurn = next.Starter
	next.Phase = Bets
	dealCards(next, rnd)

	return next, nil
}

// GameWinner returns the team that has won the game, if any: the first
// team to reach the winning score, or the opponents of a team that has
// sunk to its negative. The higher total wins if both teams cross a
// boundary in the same round. Every player carries their team's full
// cumulative score, so one read per team suffices.
func GameWinner(s *GameState) *Team {
	totals := map[Team]int{}
	for _, p := range s.Players {
		if p.Team != nil {
			totals[*p.Team] = s.Scores[p.ID]
		}
	}
	a, b := totals[TeamA], totals[TeamB]

	switch {
	case a >= WinningScore || b >= WinningScore:
		if a >= b {
			return teamPtr(TeamA)
		}
		return teamPtr(TeamB)
	case a <= -WinningScore || b <= -WinningScore:
		if a >= b {
			return teamPtr(TeamA)
		}
		return teamPtr(TeamB)
	}
	return nil
}

func teamPtr(t Team) *Team {
	return &t
}
