package domain

import "testing"

func TestCardOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		less bool
	}{
		{
			name: "Two beats Ace",
			a:    Card{Rank: Ace, Suit: Hearts},
			b:    Card{Rank: Two, Suit: Spades},
			less: true,
		},
		{
			name: "Ace beats King",
			a:    Card{Rank: King, Suit: Diamonds},
			b:    Card{Rank: Ace, Suit: Hearts},
			less: true,
		},
		{
			name: "Three is the lowest rank",
			a:    Card{Rank: Three, Suit: Clubs},
			b:    Card{Rank: Four, Suit: Clubs},
			less: true,
		},
		{
			name: "Suit does not order equal ranks",
			a:    Card{Rank: Jack, Suit: Clubs},
			b:    Card{Rank: Jack, Suit: Spades},
			less: false,
		},
		{
			name: "Two is not less than anything",
			a:    Card{Rank: Two, Suit: Clubs},
			b:    Card{Rank: Ace, Suit: Spades},
			less: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.less {
				t.Errorf("%s.Less(%s) = %v, want %v", tt.a, tt.b, got, tt.less)
			}
		})
	}
}

func TestCardValue(t *testing.T) {
	two := Card{Rank: Two, Suit: Clubs}
	ace := Card{Rank: Ace, Suit: Clubs}
	if two.Value() != ace.Value()+1 {
		t.Errorf("Two value = %d, want %d", two.Value(), ace.Value()+1)
	}
	three := Card{Rank: Three, Suit: Clubs}
	if !(three.Value() < ace.Value()) {
		t.Errorf("Three value %d should be below Ace value %d", three.Value(), ace.Value())
	}
}
