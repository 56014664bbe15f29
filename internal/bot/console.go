package bot

import (
	"strings"

	"github.com/pterm/pterm"

	"presidents/internal/domain"
)

// ConsoleStrategy asks a human at the terminal. It renders the table,
// the active card play, and the player's hand, then offers the legal
// actions through an interactive picker.
type ConsoleStrategy struct{}

func (s *ConsoleStrategy) SelectAction(private *domain.PlayerState, public *domain.PublicInfo, actions []domain.Action) domain.Action {
	s.render(private, public)

	if len(actions) == 1 {
		pterm.Info.Printfln("Only one option: %s", actions[0])
		return actions[0]
	}

	options := make([]string, 0, len(actions))
	for _, a := range actions {
		options = append(options, a.String())
	}
	selected, err := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select your next action").
		WithOptions(options).
		Show()
	if err != nil {
		pterm.Error.Printfln("input failed (%v), taking the first option", err)
		return actions[0]
	}
	for i, option := range options {
		if option == selected {
			return actions[i]
		}
	}
	return actions[0]
}

func (s *ConsoleStrategy) render(private *domain.PlayerState, public *domain.PublicInfo) {
	rows := pterm.TableData{{"Player", "Role", "Cards"}}
	for _, p := range public.Table {
		name := p.Name
		if p.ID == private.ID {
			name = pterm.LightCyan(name + " (you)")
		}
		rows = append(rows, []string{name, p.Role.String(), pterm.Sprintf("%d", p.HandSize)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Printfln("render table: %v", err)
	}

	if public.TopCard != nil {
		pterm.Info.Printfln("Card play to beat: %s", pterm.LightYellow(public.TopCard))
	} else {
		pterm.Info.Println("The table is open")
	}
	pterm.Info.Printfln("Your hand: %s", handString(private.Hand))
}

func handString(hand domain.Hand) string {
	cards := make([]string, 0, len(hand))
	for _, c := range hand.Sorted() {
		cards = append(cards, c.String())
	}
	return strings.Join(cards, " ")
}
