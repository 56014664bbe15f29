package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ActionType tags the variant carried by an Action.
type ActionType int

const (
	ActionPlayCards ActionType = iota
	ActionPass
	ActionSendCard
)

func (t ActionType) String() string {
	switch t {
	case ActionPlayCards:
		return "PlayCards"
	case ActionPass:
		return "Pass"
	case ActionSendCard:
		return "SendCard"
	}
	return "Unknown"
}

// Action is a tagged move variant. Play is set for ActionPlayCards; To and
// Card are set for ActionSendCard, which is only valid during the pregame
// exchange. Actions are comparable with ==.
type Action struct {
	Type ActionType
	Play CardPlay
	To   uuid.UUID
	Card Card
}

// PassAction builds a pass, legal only while a card play is active.
func PassAction() Action {
	return Action{Type: ActionPass}
}

// PlayCardsAction builds an in-round play of the given group.
func PlayCardsAction(cp CardPlay) Action {
	return Action{Type: ActionPlayCards, Play: cp}
}

// SendCardAction builds a pregame transfer of one card to another player.
func SendCardAction(to uuid.UUID, card Card) Action {
	return Action{Type: ActionSendCard, To: to, Card: card}
}

func (a Action) String() string {
	switch a.Type {
	case ActionPass:
		return "Pass"
	case ActionSendCard:
		return "Send " + a.Card.String()
	case ActionPlayCards:
		parts := make([]string, 0, a.Play.Size())
		for _, c := range a.Play.Cards() {
			parts = append(parts, c.String())
		}
		return "Play " + strings.Join(parts, ",")
	}
	return "Unknown"
}

// Event is an immutable history entry: who acted and what they did.
// History is append-only and is the single source of truth for who
// started, who played last, and what each player has discarded.
type Event struct {
	PlayerID uuid.UUID
	Action   Action
}
