package domain

import "sort"

// Hand is a player's unordered card collection.
type Hand []Card

// Singles enumerates every one-card play in the hand.
func (h Hand) Singles() []CardPlay {
	return h.sameRankGroups(1)
}

// Pairs enumerates every same-rank two-card combination in the hand.
func (h Hand) Pairs() []CardPlay {
	return h.sameRankGroups(2)
}

// Triples enumerates every same-rank three-card combination in the hand.
func (h Hand) Triples() []CardPlay {
	return h.sameRankGroups(3)
}

// Quads enumerates every same-rank four-card combination in the hand.
func (h Hand) Quads() []CardPlay {
	return h.sameRankGroups(4)
}

// sameRankGroups materializes all k-combinations of the hand whose cards
// share one rank. Hands are small so plain enumeration is fine.
func (h Hand) sameRankGroups(k int) []CardPlay {
	byRank := make(map[Rank][]Card)
	ranks := make([]Rank, 0, len(h))
	for _, c := range h {
		if _, seen := byRank[c.Rank]; !seen {
			ranks = append(ranks, c.Rank)
		}
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	var plays []CardPlay
	for _, rank := range ranks {
		group := byRank[rank]
		if len(group) < k {
			continue
		}
		for _, combo := range combinations(group, k) {
			plays = append(plays, MustCardPlay(combo...))
		}
	}
	return plays
}

// combinations returns all k-element subsets of cards, preserving the
// input card order inside each subset.
func combinations(cards []Card, k int) [][]Card {
	var out [][]Card
	pick := make([]Card, 0, k)
	var recurse func(start int)
	recurse = func(start int) {
		if len(pick) == k {
			out = append(out, append([]Card(nil), pick...))
			return
		}
		for i := start; i <= len(cards)-(k-len(pick)); i++ {
			pick = append(pick, cards[i])
			recurse(i + 1)
			pick = pick[:len(pick)-1]
		}
	}
	recurse(0)
	return out
}

// RemoveCard removes one card matching by equality. A false return means
// the card was not present, which callers must treat as a precondition
// violation rather than ignore.
func (h *Hand) RemoveCard(card Card) bool {
	for i, c := range *h {
		if c == card {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// Push adds a card to the hand.
func (h *Hand) Push(card Card) {
	*h = append(*h, card)
}

// Contains reports whether the exact physical card is in the hand.
func (h Hand) Contains(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the hand holds no cards.
func (h Hand) IsEmpty() bool {
	return len(h) == 0
}

// Sorted returns the hand's cards ordered by ascending value, then suit
// for a stable display order. The hand itself is not mutated.
func (h Hand) Sorted() []Card {
	out := append([]Card(nil), h...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value() != out[j].Value() {
			return out[i].Value() < out[j].Value()
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}

// TopCards returns the n highest cards by value, highest first.
func (h Hand) TopCards(n int) []Card {
	sorted := h.Sorted()
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Card, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		out = append(out, sorted[i])
	}
	return out
}

// BottomCards returns the n lowest cards by value, lowest first.
func (h Hand) BottomCards(n int) []Card {
	sorted := h.Sorted()
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
