package domain

import (
	"fmt"
	"strings"
)

// CardPlayKind is the size class of a card play. Plays of different kinds
// are never compared for legality: a pair can never beat a single.
type CardPlayKind int

const (
	Single CardPlayKind = iota + 1
	Pair
	Triple
	Quad
)

func (k CardPlayKind) String() string {
	switch k {
	case Single:
		return "Single"
	case Pair:
		return "Pair"
	case Triple:
		return "Triple"
	case Quad:
		return "Quad"
	}
	return "Invalid"
}

// CardPlay is a same-rank group of 1 to 4 cards, the atomic move unit.
// The zero value is not a valid play; construct with NewCardPlay.
type CardPlay struct {
	kind  CardPlayKind
	cards [4]Card
}

// NewCardPlay builds a play from 1-4 cards of a single rank. An empty or
// oversized slice, or mixed ranks, is a caller error and returns a non-nil
// error; engine call sites treat that error as fatal.
func NewCardPlay(cards []Card) (CardPlay, error) {
	if len(cards) == 0 || len(cards) > 4 {
		return CardPlay{}, fmt.Errorf("card play must have 1-4 cards, got %d", len(cards))
	}
	rank := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != rank {
			return CardPlay{}, fmt.Errorf("card play mixes ranks %s and %s", rank, c.Rank)
		}
	}
	cp := CardPlay{kind: CardPlayKind(len(cards))}
	copy(cp.cards[:], cards)
	return cp, nil
}

// MustCardPlay is NewCardPlay for statically known-good inputs; it panics
// on a malformed group.
func MustCardPlay(cards ...Card) CardPlay {
	cp, err := NewCardPlay(cards)
	if err != nil {
		panic(err)
	}
	return cp
}

// Kind reports the play's size class.
func (cp CardPlay) Kind() CardPlayKind {
	return cp.kind
}

// Size is the number of cards in the play.
func (cp CardPlay) Size() int {
	return int(cp.kind)
}

// Value is the play's strength, the shared Value of its cards.
func (cp CardPlay) Value() int {
	return cp.cards[0].Value()
}

// Rank is the shared rank of the play's cards.
func (cp CardPlay) Rank() Rank {
	return cp.cards[0].Rank
}

// Cards returns the group's cards in construction order.
func (cp CardPlay) Cards() []Card {
	out := make([]Card, cp.Size())
	copy(out, cp.cards[:cp.Size()])
	return out
}

// Contains reports whether the play includes the exact physical card.
func (cp CardPlay) Contains(card Card) bool {
	for _, c := range cp.cards[:cp.Size()] {
		if c == card {
			return true
		}
	}
	return false
}

// Beats reports whether this play beats other under the climbing rule:
// same size and strictly greater value. Plays of different sizes never
// beat one another.
func (cp CardPlay) Beats(other CardPlay) bool {
	return cp.kind == other.kind && cp.Value() > other.Value()
}

func (cp CardPlay) String() string {
	parts := make([]string, 0, cp.Size())
	for _, c := range cp.cards[:cp.Size()] {
		parts = append(parts, c.String())
	}
	return "(" + strings.Join(parts, ",") + ")"
}
