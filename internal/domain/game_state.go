package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RolePolicy controls role assignment at small table sizes, where the
// original index arithmetic lets the Vice slots collide with the
// President/Asshole slots.
type RolePolicy int

const (
	// RolePolicyStrict assigns President and Asshole always, and the
	// Vice roles only when at least four players are seated.
	RolePolicyStrict RolePolicy = iota
	// RolePolicyLegacy reproduces the original slot arithmetic: Asshole,
	// ViceAsshole, VicePresident, President are assigned in that order
	// and a later assignment overwrites an earlier one when the slots
	// collide (tables of 2 or 3).
	RolePolicyLegacy
)

// PlayerSetup describes one seat for a new game.
type PlayerSetup struct {
	ID       uuid.UUID
	Name     string
	Strategy Strategy
}

// RoundResult is one player's final standing for a finished round.
type RoundResult struct {
	PlayerID uuid.UUID
	Name     string
	Place    int // 1 = best
	Role     Role
}

// GameState is the turn state machine for one game. The table is an
// ordered rotation with the current player at the front; topCard is nil
// whenever the trick is cleared. One GameState instance advances exactly
// one game at a time, synchronously, and is reused across rounds: history
// and hands reset each round while identities and roles persist.
type GameState struct {
	table   []*Player
	topCard *CardPlay
	history []Event
	policy  RolePolicy
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewGame seats the given players in a random order and deals the first
// round's hands evenly from a shuffled deck. A nil rng falls back to a
// time-seeded source and a nil logger to a no-op logger. Fewer than two
// players is a caller error.
func NewGame(setups []PlayerSetup, rng *rand.Rand, logger *zap.Logger) *GameState {
	if len(setups) < 2 {
		panic(fmt.Sprintf("a game needs at least 2 players, got %d", len(setups)))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &GameState{rng: rng, logger: logger}

	deck := ShuffleDeck(rng, NewDeck())
	handSize := len(deck) / len(setups)
	logger.Info("dealing new game",
		zap.Int("players", len(setups)),
		zap.Int("hand_size", handSize))

	dealt := 0
	for _, setup := range setups {
		id := setup.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		hand := Hand(append([]Card(nil), deck[dealt:dealt+handSize]...))
		dealt += handSize
		g.table = append(g.table, &Player{
			State:    PlayerState{ID: id, Name: setup.Name, Hand: hand},
			Strategy: setup.Strategy,
		})
	}

	rng.Shuffle(len(g.table), func(i, j int) {
		g.table[i], g.table[j] = g.table[j], g.table[i]
	})
	return g
}

// SetRolePolicy selects how roles are assigned at round end.
func (g *GameState) SetRolePolicy(policy RolePolicy) {
	g.policy = policy
}

// Reseed replaces the engine's random source. The driver calls this with
// a recorded seed before each redeal so every round's deck replays.
func (g *GameState) Reseed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// CurrentPlayer returns the player at the front of the rotation, whose
// turn it is.
func (g *GameState) CurrentPlayer() *Player {
	if len(g.table) == 0 {
		panic("game has no current player: empty table")
	}
	return g.table[0]
}

// NumPlayers is the number of seated players.
func (g *GameState) NumPlayers() int {
	return len(g.table)
}

// PlayerOrder returns seated player IDs in current rotation order.
func (g *GameState) PlayerOrder() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(g.table))
	for _, p := range g.table {
		out = append(out, p.State.ID)
	}
	return out
}

// GetPlayer looks a player up by ID.
func (g *GameState) GetPlayer(id uuid.UUID) *Player {
	for _, p := range g.table {
		if p.State.ID == id {
			return p
		}
	}
	return nil
}

// TopCard returns the active card play, or nil when the trick is clear.
func (g *GameState) TopCard() *CardPlay {
	if g.topCard == nil {
		return nil
	}
	cp := *g.topCard
	return &cp
}

// History returns a copy of the round's event history.
func (g *GameState) History() []Event {
	return append([]Event(nil), g.history...)
}

// PublicInfo snapshots the observable state handed to strategies.
func (g *GameState) PublicInfo() *PublicInfo {
	table := make([]PublicPlayerState, 0, len(g.table))
	for _, p := range g.table {
		table = append(table, p.State.Public())
	}
	return &PublicInfo{
		TopCard: g.TopCard(),
		History: g.History(),
		Table:   table,
	}
}

// PermittedActions computes the legal move set for the current player.
// With no active top card every same-rank group the hand can form is a
// candidate; otherwise only groups of the top card's size that strictly
// beat it, plus Pass. Until the round's first play, every candidate must
// contain the round's starting card. The call is pure: repeated calls
// without a mutation yield identical results.
func (g *GameState) PermittedActions() []Action {
	hand := g.CurrentPlayer().State.Hand
	var actions []Action

	if g.topCard == nil {
		for _, plays := range [][]CardPlay{hand.Singles(), hand.Pairs(), hand.Triples(), hand.Quads()} {
			for _, cp := range plays {
				actions = append(actions, PlayCardsAction(cp))
			}
		}
	} else {
		var candidates []CardPlay
		switch g.topCard.Kind() {
		case Single:
			candidates = hand.Singles()
		case Pair:
			candidates = hand.Pairs()
		case Triple:
			candidates = hand.Triples()
		case Quad:
			candidates = hand.Quads()
		}
		for _, cp := range candidates {
			if cp.Beats(*g.topCard) {
				actions = append(actions, PlayCardsAction(cp))
			}
		}
		actions = append(actions, PassAction())
	}

	if !g.anyCardsPlayed() {
		_, startingCard := g.startingPlayerAndCard()
		filtered := actions[:0]
		for _, a := range actions {
			if a.Type == ActionPlayCards && a.Play.Contains(startingCard) {
				filtered = append(filtered, a)
			}
		}
		actions = filtered
	}
	return actions
}

// PerformIngameAction applies the current player's action, records it in
// history, and rotates the turn. Sending a card mid-round, playing a card
// that is not in hand, or playing a group that does not beat the top card
// all indicate the legal-move set and application have desynchronized and
// are fatal.
func (g *GameState) PerformIngameAction(action Action) {
	player := g.CurrentPlayer()
	playerID := player.State.ID

	switch action.Type {
	case ActionSendCard:
		panic("attempted to send a card in the middle of a round")
	case ActionPass:
	case ActionPlayCards:
		for _, card := range action.Play.Cards() {
			if !player.State.Hand.RemoveCard(card) {
				panic(fmt.Sprintf("attempted to play card %s that is not in %s's hand", card, player.State.Name))
			}
		}
		if g.topCard != nil && !action.Play.Beats(*g.topCard) {
			panic(fmt.Sprintf("play %s does not beat top card %s", action.Play, *g.topCard))
		}
		cp := action.Play
		g.topCard = &cp
	}

	g.logger.Info("action",
		zap.String("player", player.State.Name),
		zap.Stringer("did", action))
	g.history = append(g.history, Event{PlayerID: playerID, Action: action})

	// Rotation clears the trick if play has come back around; finished
	// players are skipped entirely.
	g.nextPlayersTurn()
	for g.CurrentPlayer().State.Hand.IsEmpty() {
		g.nextPlayersTurn()
	}
}

func (g *GameState) nextPlayersTurn() {
	g.rotate(1)
	if last := g.lastPlayedPlayer(); last != nil && last.State.Equal(&g.CurrentPlayer().State) {
		g.topCard = nil
	}
}

func (g *GameState) rotate(n int) {
	if len(g.table) == 0 {
		return
	}
	n %= len(g.table)
	rotated := make([]*Player, 0, len(g.table))
	rotated = append(rotated, g.table[n:]...)
	rotated = append(rotated, g.table[:n]...)
	g.table = rotated
}

func (g *GameState) anyCardsPlayed() bool {
	for _, ev := range g.history {
		if ev.Action.Type == ActionPlayCards {
			return true
		}
	}
	return false
}

func (g *GameState) lastPlayedPlayer() *Player {
	for i := len(g.history) - 1; i >= 0; i-- {
		if g.history[i].Action.Type == ActionPlayCards {
			return g.GetPlayer(g.history[i].PlayerID)
		}
	}
	return nil
}

// startingCardCandidates is searched in order; whoever holds the first
// present candidate starts the round and the first play must contain it.
var startingCardCandidates = []Card{
	{Rank: Three, Suit: Clubs},
	{Rank: Three, Suit: Spades},
	{Rank: Three, Suit: Hearts},
	{Rank: Three, Suit: Diamonds},
	{Rank: Four, Suit: Clubs},
}

func (g *GameState) startingPlayerAndCard() (uuid.UUID, Card) {
	for _, candidate := range startingCardCandidates {
		for _, p := range g.table {
			if p.State.Hand.Contains(candidate) {
				return p.State.ID, candidate
			}
		}
	}
	panic("no player holds any of 3C, 3S, 3H, 3D, 4C: malformed deal")
}

func (g *GameState) setStartingPlayer() Card {
	starterID, card := g.startingPlayerAndCard()
	for i, p := range g.table {
		if p.State.ID == starterID {
			g.rotate(i)
			return card
		}
	}
	panic("starting player vanished from the table")
}

func (g *GameState) roleHolder(role Role) *Player {
	for _, p := range g.table {
		if p.State.Role == role {
			return p
		}
	}
	return nil
}

// RunPregame performs the role-based card exchanges (Asshole sends the
// President 2 cards, ViceAsshole sends the VicePresident 1) and rotates
// the round's starting player to the front. It returns the exchange
// events in the order they were applied. On the very first round no roles
// exist yet, so the exchanges are skipped.
func (g *GameState) RunPregame() []Event {
	events := g.swapCardsByRole(RoleAsshole, RolePresident, 2)
	events = append(events, g.swapCardsByRole(RoleViceAsshole, RoleVicePresident, 1)...)
	g.setStartingPlayer()
	return events
}

func (g *GameState) swapCardsByRole(subordinate, superior Role, count int) []Event {
	sub := g.roleHolder(subordinate)
	sup := g.roleHolder(superior)
	switch {
	case sub == nil && sup == nil:
		g.logger.Warn("no players hold either exchange role, skipping swap",
			zap.Stringer("subordinate", subordinate),
			zap.Stringer("superior", superior))
		return nil
	case sub == nil || sup == nil:
		g.logger.Error("only one exchange role is held, skipping swap",
			zap.Stringer("subordinate", subordinate),
			zap.Stringer("superior", superior))
		return nil
	}

	public := g.PublicInfo()
	events := make([]Event, 0, 2*count)

	// The subordinate's best cards go over unconditionally.
	for _, card := range sub.State.Hand.TopCards(count) {
		events = append(events, Event{
			PlayerID: sub.State.ID,
			Action:   SendCardAction(sup.State.ID, card),
		})
	}

	// The superior chooses what to give back, one card at a time; a card
	// already selected in this exchange cannot be selected again.
	sent := make(map[Card]bool, count)
	for i := 0; i < count; i++ {
		var available []Action
		for _, card := range sup.State.Hand {
			if !sent[card] {
				available = append(available, SendCardAction(sub.State.ID, card))
			}
		}
		action := sup.Strategy.SelectAction(&sup.State, public, available)
		if action.Type == ActionSendCard {
			sent[action.Card] = true
		}
		events = append(events, Event{PlayerID: sup.State.ID, Action: action})
	}

	// Apply every transfer in event order.
	for _, ev := range events {
		if ev.Action.Type != ActionSendCard {
			continue
		}
		sender := g.GetPlayer(ev.PlayerID)
		if sender == nil {
			panic(fmt.Sprintf("card-send event recorded by unknown player %s", ev.PlayerID))
		}
		if !sender.State.Hand.RemoveCard(ev.Action.Card) {
			panic(fmt.Sprintf("attempted to send card %s that is not in %s's hand", ev.Action.Card, sender.State.Name))
		}
		receiver := g.GetPlayer(ev.Action.To)
		if receiver == nil {
			panic(fmt.Sprintf("attempted to send a card to unknown player %s", ev.Action.To))
		}
		receiver.State.Hand.Push(ev.Action.Card)
		g.logger.Info("action",
			zap.String("player", sender.State.Name),
			zap.Stringer("did", ev.Action))
	}
	return events
}

// StillPlaying reports whether the round is in progress: at least two
// players still hold cards.
func (g *GameState) StillPlaying() bool {
	holding := 0
	for _, p := range g.table {
		if !p.State.Hand.IsEmpty() {
			holding++
		}
	}
	return holding >= 2
}

// StartNewGame resolves the finished round and deals the next one. The
// finishing order worst-to-first is any player still holding cards,
// followed by players in reverse order of their last play in history.
// Roles are cleared and reassigned per the active RolePolicy, hands are
// redealt from a fresh shuffle, and history and the top card reset.
// Seating order is unchanged between rounds. It returns each player's
// final standing for the round.
func (g *GameState) StartNewGame() []RoundResult {
	worstToFirst := make([]uuid.UUID, 0, len(g.table))
	for _, p := range g.table {
		if !p.State.Hand.IsEmpty() {
			worstToFirst = append(worstToFirst, p.State.ID)
		}
	}
	for i := len(g.history) - 1; i >= 0; i-- {
		ev := g.history[i]
		if ev.Action.Type != ActionPlayCards {
			continue
		}
		seen := false
		for _, id := range worstToFirst {
			if id == ev.PlayerID {
				seen = true
				break
			}
		}
		if !seen {
			worstToFirst = append(worstToFirst, ev.PlayerID)
		}
	}

	roles := g.assignRoles(worstToFirst)

	results := make([]RoundResult, 0, len(worstToFirst))
	for i := len(worstToFirst) - 1; i >= 0; i-- {
		id := worstToFirst[i]
		player := g.GetPlayer(id)
		if player == nil {
			panic(fmt.Sprintf("player %s from the finished round no longer exists", id))
		}
		results = append(results, RoundResult{
			PlayerID: id,
			Name:     player.State.Name,
			Place:    len(worstToFirst) - i,
			Role:     roles[id],
		})
	}
	for _, res := range results {
		g.logger.Info("round result",
			zap.Int("place", res.Place),
			zap.String("player", res.Name),
			zap.Stringer("role", res.Role))
	}

	g.topCard = nil
	g.history = nil

	deck := ShuffleDeck(g.rng, NewDeck())
	handSize := len(deck) / len(g.table)
	dealt := 0
	for _, p := range g.table {
		p.State.Hand = Hand(append([]Card(nil), deck[dealt:dealt+handSize]...))
		dealt += handSize
	}
	g.logger.Info("new round", zap.Int("hand_size", handSize))

	return results
}

// assignRoles clears every role, applies the policy to the worst-to-first
// order, and returns the resulting assignment by player ID.
func (g *GameState) assignRoles(worstToFirst []uuid.UUID) map[uuid.UUID]Role {
	for _, p := range g.table {
		p.State.Role = RoleNone
	}

	roles := make(map[uuid.UUID]Role, len(worstToFirst))
	n := len(worstToFirst)
	if n == 0 {
		return roles
	}

	switch g.policy {
	case RolePolicyLegacy:
		// Original slot order; later assignments overwrite on collision.
		roles[worstToFirst[0]] = RoleAsshole
		if n > 1 {
			roles[worstToFirst[1]] = RoleViceAsshole
		}
		if n >= 2 {
			roles[worstToFirst[n-2]] = RoleVicePresident
		}
		roles[worstToFirst[n-1]] = RolePresident
	default:
		roles[worstToFirst[0]] = RoleAsshole
		roles[worstToFirst[n-1]] = RolePresident
		if n >= 4 {
			roles[worstToFirst[1]] = RoleViceAsshole
			roles[worstToFirst[n-2]] = RoleVicePresident
		}
	}

	for id, role := range roles {
		player := g.GetPlayer(id)
		if player == nil {
			panic(fmt.Sprintf("player %s from the finished round no longer exists", id))
		}
		player.State.Role = role
	}
	return roles
}
