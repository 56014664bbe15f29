package bot

import (
	"testing"

	"presidents/internal/domain"
)

func TestHandStringSortsByValue(t *testing.T) {
	hand := domain.Hand{
		{Rank: domain.Two, Suit: domain.Spades},
		{Rank: domain.Three, Suit: domain.Clubs},
		{Rank: domain.King, Suit: domain.Hearts},
	}
	if got, want := handString(hand), "3C KH 2S"; got != want {
		t.Errorf("handString = %q, want %q", got, want)
	}
}

func TestConsoleTakesSoleOption(t *testing.T) {
	private := &domain.PlayerState{Hand: domain.Hand{{Rank: domain.Five, Suit: domain.Clubs}}}
	public := &domain.PublicInfo{}
	only := []domain.Action{domain.PassAction()}

	// A single legal action is taken without prompting, so this never
	// blocks on terminal input.
	got := (&ConsoleStrategy{}).SelectAction(private, public, only)
	if got.Type != domain.ActionPass {
		t.Errorf("got %s, want Pass", got)
	}
}
