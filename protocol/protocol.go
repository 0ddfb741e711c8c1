// Package protocol defines the websocket message vocabulary shared by the
// server and its clients.
package protocol

// Cmd represents a command
type Cmd int

const (
	NewJoiner Cmd = iota
	TeamChosen
	SeatChosen
	Ready
	GameStarted
	BetPlaced
	CardPlayed
	TrickWon
	RoundEnded
	GameEnded
	StateUpdate
)

var cmdNames = []string{
	"NewJoiner",
	"TeamChosen",
	"SeatChosen",
	"Ready",
	"GameStarted",
	"BetPlaced",
	"CardPlayed",
	"TrickWon",
	"RoundEnded",
	"GameEnded",
	"StateUpdate",
}

func (c Cmd) String() string {
	if c < NewJoiner || c > StateUpdate {
		return "Unknown"
	}
	return cmdNames[c]
}
