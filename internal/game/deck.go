package game

import "math/rand"

// DeckProvider supplies cards to the player. An empty draw is not an error.
type DeckProvider interface {
	DrawCard() (Card, bool)
	ShuffleRemaining()
}

// Discarder is implemented by providers that take played cards back.
type Discarder interface {
	Discard(cards ...Card)
}

// Deck is a draw pile with an optional discard pile that is shuffled back in when empty.
type Deck struct {
	cards    []Card // top of deck is last element (pop from end)
	discard  []Card
	rng      *rand.Rand
	recycle  bool
	OnRefill func(n int) // called after the discard pile is shuffled into an empty deck
}

// NewDeck creates a deck. cards[0] is drawn first.
func NewDeck(cards []Card, rng *rand.Rand, recycle bool) *Deck {
	pile := make([]Card, len(cards))
	for i, c := range cards {
		pile[len(cards)-1-i] = c
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Deck{cards: pile, rng: rng, recycle: recycle}
}

// DrawCard removes the top card. Returns false when nothing can be drawn.
func (d *Deck) DrawCard() (Card, bool) {
	if len(d.cards) == 0 && d.recycle && len(d.discard) > 0 {
		d.cards = d.discard
		d.discard = nil
		d.ShuffleRemaining()
		if d.OnRefill != nil {
			d.OnRefill(len(d.cards))
		}
	}
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// ShuffleRemaining randomizes the order of the undrawn cards.
func (d *Deck) ShuffleRemaining() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Discard implements Discarder.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// Count returns the number of cards left to draw.
func (d *Deck) Count() int {
	return len(d.cards)
}

// DiscardCount returns the size of the discard pile.
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}
