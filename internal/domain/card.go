package domain

// Suit identifies one of the four standard suits. Suit never participates
// in card ordering; it exists for display and to disambiguate which
// physical card is being played or sent.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	}
	return "?"
}

// Rank identifies a card rank. The constant order is the natural ordinal
// order; game value is computed by Card.Value, where Two outranks Ace.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	return "?"
}

// Card is an immutable value from a standard 52-card deck.
type Card struct {
	Rank Rank
	Suit Suit
}

// Value returns the card's position in the game's total order.
// Two is the highest card, one above Ace; every other rank keeps its
// natural ordinal.
func (c Card) Value() int {
	if c.Rank == Two {
		return int(Ace) + 1
	}
	return int(c.Rank)
}

// Less orders cards by Value only. Cards of equal rank are not less than
// one another regardless of suit.
func (c Card) Less(other Card) bool {
	return c.Value() < other.Value()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}
