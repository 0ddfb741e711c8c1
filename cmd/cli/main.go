// Plays a full four-bot game on the terminal. Useful for eyeballing the
// rules engine end to end without a browser.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/mtlgames/bonhomme"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the game's randomness")
	maxRounds := flag.Int("rounds", 200, "give up after this many rounds")
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seed))

	state := bonhomme.NewGameState(bonhomme.Player{
		ID:   bonhomme.NewID(),
		Name: "Bot 1",
		Bot:  true,
	})

	var err error
	for _, name := range []string{"Bot 2", "Bot 3", "Bot 4"} {
		if state, err = bonhomme.AddBot(state, name); err != nil {
			log.Fatal(err)
		}
	}
	if state, err = bonhomme.AutoSeatBots(state); err != nil {
		log.Fatal(err)
	}
	if state, err = bonhomme.StartGame(state, rnd); err != nil {
		log.Fatal(err)
	}

	for state.Phase != bonhomme.GameEnd && state.Round <= *maxRounds {
		round := state.Round
		if state, err = bonhomme.PlayBotTurn(state, rnd); err != nil {
			log.Fatal(err)
		}
		if state.Round != round || state.Phase == bonhomme.GameEnd {
			printScores(state)
		}
	}

	if winner := bonhomme.GameWinner(state); winner != nil {
		fmt.Printf("team %s wins\n", winner)
	} else {
		fmt.Println("no winner after", *maxRounds, "rounds")
	}
}

func printScores(state *bonhomme.GameState) {
	fmt.Printf("--- round %d, phase %s ---\n", state.Round, state.Phase)
	for _, id := range state.TurnOrder {
		p := state.Players[id]
		fmt.Printf("%s (team %s): %d points\n", p.Name, p.Team, state.Scores[id])
	}
}
