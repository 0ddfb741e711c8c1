package deck

import (
	"errors"
	"fmt"
)

// Color represents one of the four card colors
type Color int

var colorNames = []string{"red", "blue", "green", "brown"}

const (
	Red Color = iota
	Blue
	Green
	Brown
)

func (c Color) String() string {
	if c < Red || c > Brown {
		return "unknown"
	}
	return colorNames[c]
}

// Colors lists every color in deck order
func Colors() []Color {
	return []Color{Red, Blue, Green, Brown}
}

// Card values run from 0 to 7 in each color
const (
	MinValue = 0
	MaxValue = 7
)

// Card represents a playing card
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Value int    `json:"value"`
}

// NewCard constructs a card
func NewCard(color Color, value int) (Card, error) {
	if color < Red || color > Brown || value < MinValue || value > MaxValue {
		return Card{}, errors.New("arguments out of range")
	}
	return Card{
		ID:    fmt.Sprintf("%s-%d", color, value),
		Color: color,
		Value: value,
	}, nil
}

func (c Card) String() string {
	return fmt.Sprintf("%s %d", c.Color, c.Value)
}

// IsBonhommeRouge reports whether the card is the red 0,
// worth an extra 5 points to the trick winner.
func (c Card) IsBonhommeRouge() bool {
	return c.Color == Red && c.Value == 0
}

// IsBonhommeBrun reports whether the card is the brown 0,
// which costs the trick winner 3 points.
func (c Card) IsBonhommeBrun() bool {
	return c.Color == Brown && c.Value == 0
}
