package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is a social rank assigned from the previous round's finishing
// order. It drives the pregame card exchange.
type Role int

const (
	RoleNone Role = iota
	RolePresident
	RoleVicePresident
	RoleSecretary
	RoleViceAsshole
	RoleAsshole
)

func (r Role) String() string {
	switch r {
	case RolePresident:
		return "President"
	case RoleVicePresident:
		return "VicePresident"
	case RoleSecretary:
		return "Secretary"
	case RoleViceAsshole:
		return "ViceAsshole"
	case RoleAsshole:
		return "Asshole"
	}
	return "None"
}

// PlayerState is a player's private state. Identity is stable across
// rounds; role and hand are reset every round. Two players are the same
// player iff their IDs match.
type PlayerState struct {
	ID   uuid.UUID
	Name string
	Role Role
	Hand Hand
}

// Equal reports identity equality, ignoring role and hand.
func (p *PlayerState) Equal(other *PlayerState) bool {
	return p.ID == other.ID
}

func (p *PlayerState) String() string {
	return fmt.Sprintf("%s (%s) %d cards", p.Name, p.Role, len(p.Hand))
}

// Public strips the hand down to its size for observers.
func (p *PlayerState) Public() PublicPlayerState {
	return PublicPlayerState{
		ID:       p.ID,
		Name:     p.Name,
		Role:     p.Role,
		HandSize: len(p.Hand),
	}
}

// PublicPlayerState is what opponents may observe about a player.
type PublicPlayerState struct {
	ID       uuid.UUID
	Name     string
	Role     Role
	HandSize int
}

// PublicInfo is the observable game state handed to strategies: the
// active top card, the full event history, and every seated player's
// public state in table order.
type PublicInfo struct {
	TopCard *CardPlay
	History []Event
	Table   []PublicPlayerState
}

// Strategy selects exactly one action from the engine-computed legal set.
// Returning anything outside the set is a contract violation; the engine
// does not re-validate beyond the assertions in PerformIngameAction.
// A strategy may block, e.g. on interactive input.
type Strategy interface {
	SelectAction(private *PlayerState, public *PublicInfo, actions []Action) Action
}

// Player pairs a player's state with its move-selection strategy. The
// engine owns the pairing but never inspects or persists the strategy.
type Player struct {
	State    PlayerState
	Strategy Strategy
}
