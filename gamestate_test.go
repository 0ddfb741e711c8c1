package bonhomme

import (
	"testing"

	utils "github.com/mtlgames/bonhomme/internal"
)

func TestNextInTurnOrder(t *testing.T) {
	state := biddingGame(t)

	utils.AssertEqual(t, state.NextInTurnOrder("p2"), "p3")
	utils.AssertEqual(t, state.NextInTurnOrder("p4"), "p1")

	t.Run("unknown ids stay put", func(t *testing.T) {
		utils.AssertEqual(t, state.NextInTurnOrder("ghost"), "ghost")
	})
}
