package domain

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pickFirst always selects the first available action.
type pickFirst struct{}

func (pickFirst) SelectAction(_ *PlayerState, _ *PublicInfo, actions []Action) Action {
	return actions[0]
}

// testGame seats players with the given hands in order, bypassing the
// dealer, with the first hand's owner as current player.
func testGame(names []string, hands []Hand) *GameState {
	g := &GameState{
		rng:    rand.New(rand.NewSource(1)),
		logger: zap.NewNop(),
	}
	for i, name := range names {
		g.table = append(g.table, &Player{
			State:    PlayerState{ID: uuid.New(), Name: name, Hand: hands[i]},
			Strategy: pickFirst{},
		})
	}
	return g
}

// playedEvent marks the round as past its first play so the starting-card
// constraint no longer applies.
func playedEvent(g *GameState) {
	g.history = append(g.history, Event{
		PlayerID: g.table[len(g.table)-1].State.ID,
		Action:   PlayCardsAction(MustCardPlay(Card{Rank: Three, Suit: Hearts})),
	})
}

func actionPlays(actions []Action) []CardPlay {
	var plays []CardPlay
	for _, a := range actions {
		if a.Type == ActionPlayCards {
			plays = append(plays, a.Play)
		}
	}
	return plays
}

func hasPass(actions []Action) bool {
	for _, a := range actions {
		if a.Type == ActionPass {
			return true
		}
	}
	return false
}

func TestPermittedActionsOpenTable(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: King, Suit: Clubs}, {Rank: King, Suit: Hearts}, {Rank: Ace, Suit: Spades}},
			{{Rank: Four, Suit: Diamonds}},
		},
	)
	playedEvent(g)

	actions := g.PermittedActions()
	plays := actionPlays(actions)

	wantPair := MustCardPlay(Card{Rank: King, Suit: Clubs}, Card{Rank: King, Suit: Hearts})
	wantSingle := MustCardPlay(Card{Rank: Ace, Suit: Spades})
	foundPair, foundSingle := false, false
	for _, cp := range plays {
		if cp == wantPair {
			foundPair = true
		}
		if cp == wantSingle {
			foundSingle = true
		}
		if cp.Size() >= 3 {
			t.Errorf("unexpected %v-card candidate %s", cp.Size(), cp)
		}
	}
	if !foundPair || !foundSingle {
		t.Errorf("candidates %v missing pair of kings or single ace", plays)
	}
	if hasPass(actions) {
		t.Error("pass must not be offered with no active top card")
	}
}

func TestPermittedActionsAgainstSingle(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: Queen, Suit: Clubs}, {Rank: Ten, Suit: Hearts}},
			{{Rank: Four, Suit: Diamonds}},
		},
	)
	playedEvent(g)
	top := MustCardPlay(Card{Rank: Jack, Suit: Spades})
	g.topCard = &top

	actions := g.PermittedActions()
	plays := actionPlays(actions)
	if len(plays) != 1 || plays[0].Rank() != Queen {
		t.Errorf("candidates = %v, want only the queen", plays)
	}
	if !hasPass(actions) {
		t.Error("pass must be offered while a card play is active")
	}
}

func TestPermittedActionsNeverMixSizes(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: Two, Suit: Spades}, {Rank: Ace, Suit: Clubs}, {Rank: Ace, Suit: Hearts}},
			{{Rank: Four, Suit: Diamonds}},
		},
	)
	playedEvent(g)
	top := MustCardPlay(Card{Rank: King, Suit: Clubs}, Card{Rank: King, Suit: Hearts})
	g.topCard = &top

	// Single Two is the highest card in the game but must never be
	// offered against a pair.
	for _, cp := range actionPlays(g.PermittedActions()) {
		if cp.Size() != 2 {
			t.Errorf("size-%d candidate %s offered against a pair", cp.Size(), cp)
		}
	}
}

func TestPermittedActionsIdempotent(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: King, Suit: Clubs}, {Rank: King, Suit: Hearts}, {Rank: Ace, Suit: Spades}},
			{{Rank: Three, Suit: Clubs}},
		},
	)
	playedEvent(g)
	first := g.PermittedActions()
	second := g.PermittedActions()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestFirstPlayMustContainStartingCard(t *testing.T) {
	starting := Card{Rank: Three, Suit: Clubs}
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{starting, {Rank: Three, Suit: Hearts}, {Rank: King, Suit: Spades}},
			{{Rank: Four, Suit: Diamonds}},
		},
	)

	actions := g.PermittedActions()
	if len(actions) == 0 {
		t.Fatal("starting player must have at least one permitted action")
	}
	for _, a := range actions {
		if a.Type != ActionPlayCards {
			t.Errorf("non-play action %s offered before the first play", a)
			continue
		}
		if !a.Play.Contains(starting) {
			t.Errorf("first-play candidate %s does not contain %s", a.Play, starting)
		}
	}
}

func TestPerformPlayCardsMutatesState(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: King, Suit: Clubs}, {Rank: King, Suit: Hearts}, {Rank: Ace, Suit: Spades}},
			{{Rank: Four, Suit: Diamonds}, {Rank: Five, Suit: Clubs}},
		},
	)
	playedEvent(g)
	acting := g.CurrentPlayer()
	cp := MustCardPlay(Card{Rank: King, Suit: Clubs}, Card{Rank: King, Suit: Hearts})

	g.PerformIngameAction(PlayCardsAction(cp))

	if acting.State.Hand.Contains(Card{Rank: King, Suit: Clubs}) ||
		acting.State.Hand.Contains(Card{Rank: King, Suit: Hearts}) {
		t.Error("played cards must leave the acting player's hand")
	}
	if g.topCard == nil || *g.topCard != cp {
		t.Errorf("top card = %v, want %s", g.topCard, cp)
	}
	last := g.history[len(g.history)-1]
	if last.PlayerID != acting.State.ID || last.Action.Type != ActionPlayCards {
		t.Errorf("history tail = %+v, want play by %s", last, acting.State.Name)
	}
	if g.CurrentPlayer().State.ID == acting.State.ID {
		t.Error("turn must advance after a play")
	}
}

func TestPerformPassMutatesNothingButHistory(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: King, Suit: Clubs}},
			{{Rank: Four, Suit: Diamonds}},
		},
	)
	playedEvent(g)
	top := MustCardPlay(Card{Rank: Ace, Suit: Spades})
	g.topCard = &top
	before := len(g.CurrentPlayer().State.Hand)

	g.PerformIngameAction(PassAction())

	if len(g.table[1].State.Hand) != before {
		t.Error("pass must not touch any hand")
	}
	if g.history[len(g.history)-1].Action.Type != ActionPass {
		t.Error("pass must be recorded in history")
	}
}

func TestPerformIngameActionPanics(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		top    *CardPlay
	}{
		{
			name:   "send card mid round",
			action: SendCardAction(uuid.New(), Card{Rank: King, Suit: Clubs}),
		},
		{
			name:   "card not in hand",
			action: PlayCardsAction(MustCardPlay(Card{Rank: Queen, Suit: Diamonds})),
		},
		{
			name:   "play does not beat top card",
			action: PlayCardsAction(MustCardPlay(Card{Rank: King, Suit: Clubs})),
			top:    func() *CardPlay { cp := MustCardPlay(Card{Rank: Ace, Suit: Spades}); return &cp }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGame(
				[]string{"A", "B"},
				[]Hand{
					{{Rank: King, Suit: Clubs}},
					{{Rank: Four, Suit: Diamonds}},
				},
			)
			playedEvent(g)
			g.topCard = tt.top
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for %s", tt.name)
				}
			}()
			g.PerformIngameAction(tt.action)
		})
	}
}

func TestTurnRotationAndTrickClearing(t *testing.T) {
	g := testGame(
		[]string{"A", "B", "C"},
		[]Hand{
			{{Rank: Three, Suit: Clubs}, {Rank: Five, Suit: Hearts}},
			{{Rank: Six, Suit: Clubs}, {Rank: Seven, Suit: Clubs}},
			{{Rank: Queen, Suit: Diamonds}, {Rank: Nine, Suit: Spades}},
		},
	)

	// A leads with the starting card.
	g.PerformIngameAction(PlayCardsAction(MustCardPlay(Card{Rank: Three, Suit: Clubs})))
	if g.CurrentPlayer().State.Name != "B" {
		t.Fatalf("current = %s, want B", g.CurrentPlayer().State.Name)
	}

	// B passes, C beats A.
	g.PerformIngameAction(PassAction())
	g.PerformIngameAction(PlayCardsAction(MustCardPlay(Card{Rank: Queen, Suit: Diamonds})))

	if g.CurrentPlayer().State.Name != "A" {
		t.Fatalf("current = %s, want A after C's play", g.CurrentPlayer().State.Name)
	}
	if g.topCard == nil {
		t.Fatal("top card must still be active before play returns to C")
	}

	// A and B cannot beat the queen and pass; the trick clears only once
	// play returns full-circle to C.
	g.PerformIngameAction(PassAction())
	if g.topCard == nil {
		t.Fatal("trick must not clear before rotation reaches the last aggressor")
	}
	g.PerformIngameAction(PassAction())

	if g.CurrentPlayer().State.Name != "C" {
		t.Fatalf("current = %s, want C", g.CurrentPlayer().State.Name)
	}
	if g.topCard != nil {
		t.Error("trick must clear when play returns to the last aggressor")
	}
}

func TestRotationSkipsFinishedPlayers(t *testing.T) {
	g := testGame(
		[]string{"A", "B", "C"},
		[]Hand{
			{{Rank: King, Suit: Clubs}},
			{},
			{{Rank: Four, Suit: Diamonds}, {Rank: Five, Suit: Clubs}},
		},
	)
	playedEvent(g)

	g.PerformIngameAction(PlayCardsAction(MustCardPlay(Card{Rank: King, Suit: Clubs})))
	if g.CurrentPlayer().State.Name != "C" {
		t.Errorf("current = %s, want C (B has no cards)", g.CurrentPlayer().State.Name)
	}
}

func TestStillPlaying(t *testing.T) {
	g := testGame(
		[]string{"A", "B", "C"},
		[]Hand{
			{{Rank: King, Suit: Clubs}},
			{},
			{{Rank: Four, Suit: Diamonds}},
		},
	)
	if !g.StillPlaying() {
		t.Error("two players with cards should still be playing")
	}
	g.table[2].State.Hand = Hand{}
	if g.StillPlaying() {
		t.Error("one player with cards means the round is over")
	}
}

func TestPregameExchange(t *testing.T) {
	// Previous round's standings: D president, C vice-president,
	// B vice-asshole, A asshole.
	g := testGame(
		[]string{"A", "B", "C", "D"},
		[]Hand{
			{{Rank: Two, Suit: Spades}, {Rank: Ace, Suit: Hearts}, {Rank: Five, Suit: Clubs}},
			{{Rank: King, Suit: Diamonds}, {Rank: Six, Suit: Clubs}},
			{{Rank: Seven, Suit: Hearts}, {Rank: Eight, Suit: Hearts}},
			{{Rank: Three, Suit: Clubs}, {Rank: Four, Suit: Hearts}, {Rank: Nine, Suit: Spades}},
		},
	)
	g.table[0].State.Role = RoleAsshole
	g.table[1].State.Role = RoleViceAsshole
	g.table[2].State.Role = RoleVicePresident
	g.table[3].State.Role = RolePresident

	asshole := g.table[0]
	viceAsshole := g.table[1]
	vicePresident := g.table[2]
	president := g.table[3]

	events := g.RunPregame()

	// 2 up + 2 back for the main exchange, 1 up + 1 back for the vice pair.
	if len(events) != 6 {
		t.Fatalf("events = %d, want 6", len(events))
	}

	// Asshole's two best cards (the Two and the Ace) reached the president.
	if !president.State.Hand.Contains(Card{Rank: Two, Suit: Spades}) ||
		!president.State.Hand.Contains(Card{Rank: Ace, Suit: Hearts}) {
		t.Errorf("president hand %v missing the asshole's top cards", president.State.Hand)
	}
	if asshole.State.Hand.Contains(Card{Rank: Two, Suit: Spades}) {
		t.Error("sent cards must leave the asshole's hand")
	}
	// President gave two cards back, so both hands keep their sizes.
	if len(asshole.State.Hand) != 3 || len(president.State.Hand) != 3 {
		t.Errorf("hand sizes = %d/%d, want 3/3", len(asshole.State.Hand), len(president.State.Hand))
	}
	if len(viceAsshole.State.Hand) != 2 || len(vicePresident.State.Hand) != 2 {
		t.Errorf("vice hand sizes = %d/%d, want 2/2", len(viceAsshole.State.Hand), len(vicePresident.State.Hand))
	}

	// The send-set must forbid choosing the same physical card twice.
	seen := make(map[Card]int)
	for _, ev := range events {
		if ev.PlayerID == president.State.ID {
			seen[ev.Action.Card]++
		}
	}
	for card, n := range seen {
		if n > 1 {
			t.Errorf("president sent %s %d times", card, n)
		}
	}

	// Whoever now holds the lowest starting card is at the front.
	if !g.CurrentPlayer().State.Hand.Contains(Card{Rank: Three, Suit: Clubs}) {
		t.Error("starting player must be rotated to the front after the pregame")
	}
}

func TestPregameSkippedWithoutRoles(t *testing.T) {
	g := testGame(
		[]string{"A", "B"},
		[]Hand{
			{{Rank: King, Suit: Clubs}},
			{{Rank: Three, Suit: Clubs}},
		},
	)
	events := g.RunPregame()
	if len(events) != 0 {
		t.Errorf("events = %d, want 0 on the very first round", len(events))
	}
	if g.CurrentPlayer().State.Name != "B" {
		t.Errorf("current = %s, want B (holds 3C)", g.CurrentPlayer().State.Name)
	}
}

// finishedGame builds a game whose round just ended: the last player in
// names is stuck holding cards, the rest went out in names order (first
// name finished first and is best).
func finishedGame(names []string) *GameState {
	hands := make([]Hand, len(names))
	hands[len(names)-1] = Hand{{Rank: Five, Suit: Clubs}}
	g := testGame(names, hands)
	for i := 0; i < len(names)-1; i++ {
		g.history = append(g.history, Event{
			PlayerID: g.table[i].State.ID,
			Action:   PlayCardsAction(MustCardPlay(Card{Rank: Six, Suit: Clubs})),
		})
	}
	return g
}

func TestStartNewGameRoleAssignment(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		policy RolePolicy
		roles  map[string]Role // expected role per player, RoleNone omitted
	}{
		{
			name:   "strict table of 2",
			names:  []string{"best", "worst"},
			policy: RolePolicyStrict,
			roles: map[string]Role{
				"best":  RolePresident,
				"worst": RoleAsshole,
			},
		},
		{
			name:   "strict table of 3",
			names:  []string{"best", "mid", "worst"},
			policy: RolePolicyStrict,
			roles: map[string]Role{
				"best":  RolePresident,
				"worst": RoleAsshole,
			},
		},
		{
			name:   "strict table of 4",
			names:  []string{"best", "second", "third", "worst"},
			policy: RolePolicyStrict,
			roles: map[string]Role{
				"best":   RolePresident,
				"second": RoleVicePresident,
				"third":  RoleViceAsshole,
				"worst":  RoleAsshole,
			},
		},
		{
			name:   "strict table of 6",
			names:  []string{"best", "second", "third", "fourth", "fifth", "worst"},
			policy: RolePolicyStrict,
			roles: map[string]Role{
				"best":   RolePresident,
				"second": RoleVicePresident,
				"fifth":  RoleViceAsshole,
				"worst":  RoleAsshole,
			},
		},
		{
			// Legacy slot arithmetic: with two players the VicePresident
			// slot lands on the loser and President on the winner.
			name:   "legacy table of 2",
			names:  []string{"best", "worst"},
			policy: RolePolicyLegacy,
			roles: map[string]Role{
				"best":  RolePresident,
				"worst": RoleVicePresident,
			},
		},
		{
			// Legacy with three players: the middle player's ViceAsshole
			// is overwritten by VicePresident.
			name:   "legacy table of 3",
			names:  []string{"best", "mid", "worst"},
			policy: RolePolicyLegacy,
			roles: map[string]Role{
				"best":  RolePresident,
				"mid":   RoleVicePresident,
				"worst": RoleAsshole,
			},
		},
		{
			name:   "legacy table of 4",
			names:  []string{"best", "second", "third", "worst"},
			policy: RolePolicyLegacy,
			roles: map[string]Role{
				"best":   RolePresident,
				"second": RoleVicePresident,
				"third":  RoleViceAsshole,
				"worst":  RoleAsshole,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := finishedGame(tt.names)
			g.SetRolePolicy(tt.policy)

			results := g.StartNewGame()

			if len(results) != len(tt.names) {
				t.Fatalf("results = %d, want %d", len(results), len(tt.names))
			}
			for _, res := range results {
				want := tt.roles[res.Name] // RoleNone when absent
				if res.Role != want {
					t.Errorf("%s role = %s, want %s", res.Name, res.Role, want)
				}
			}
			// Best finisher is place 1; the stuck player is last.
			if results[0].Place != 1 || results[0].Name != tt.names[0] {
				t.Errorf("first result = %+v, want %s at place 1", results[0], tt.names[0])
			}
			last := results[len(results)-1]
			if last.Name != tt.names[len(tt.names)-1] || last.Place != len(tt.names) {
				t.Errorf("last result = %+v, want the stuck player at place %d", last, len(tt.names))
			}
		})
	}
}

func TestStartNewGameRedeals(t *testing.T) {
	g := finishedGame([]string{"A", "B", "C", "D"})
	g.StartNewGame()

	if g.topCard != nil {
		t.Error("top card must clear between rounds")
	}
	if len(g.history) != 0 {
		t.Error("history must clear between rounds")
	}
	for _, p := range g.table {
		if len(p.State.Hand) != DeckSize/4 {
			t.Errorf("%s hand = %d cards, want %d", p.State.Name, len(p.State.Hand), DeckSize/4)
		}
	}
}

func TestReseedReproducesDeal(t *testing.T) {
	deal := func() []Hand {
		g := finishedGame([]string{"A", "B"})
		g.Reseed(1234)
		g.StartNewGame()
		return []Hand{g.table[0].State.Hand, g.table[1].State.Hand}
	}
	first := deal()
	second := deal()
	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds must produce identical deals")
	}
}

func TestNewGameDealsEvenly(t *testing.T) {
	setups := []PlayerSetup{
		{Name: "A", Strategy: pickFirst{}},
		{Name: "B", Strategy: pickFirst{}},
		{Name: "C", Strategy: pickFirst{}},
		{Name: "D", Strategy: pickFirst{}},
	}
	g := NewGame(setups, rand.New(rand.NewSource(7)), zap.NewNop())

	seen := make(map[Card]bool)
	for _, p := range g.table {
		if len(p.State.Hand) != 13 {
			t.Errorf("%s hand = %d cards, want 13", p.State.Name, len(p.State.Hand))
		}
		for _, c := range p.State.Hand {
			if seen[c] {
				t.Errorf("card %s dealt twice", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != DeckSize {
		t.Errorf("dealt %d distinct cards, want %d", len(seen), DeckSize)
	}
}
