package deck

import (
	"math/rand"
)

// Deck represents a deck of cards
type Deck []Card

// New creates the 32-card deck: every value of every color
func New() Deck {
	cards := []Card{}
	for _, color := range Colors() {
		for value := MinValue; value <= MaxValue; value++ {
			c, _ := NewCard(color, value)
			cards = append(cards, c)
		}
	}
	return cards
}

// Shuffle shuffles the deck of cards using the given source of randomness
func (d *Deck) Shuffle(rnd *rand.Rand) {
	actualDeck := *d
	for i := len(actualDeck) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		actualDeck[i], actualDeck[j] = actualDeck[j], actualDeck[i]
	}
}

// Deal deals n cards from the deck, until it is empty
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 || n > numCardsInDeck {
		return []Card{}
	}
	startingIndex := numCardsInDeck - n
	subSlice := (*d)[startingIndex:numCardsInDeck]
	*d = (*d)[:startingIndex]
	return subSlice
}
