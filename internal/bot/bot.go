// Package bot provides the built-in strategies: deterministic bots of
// varying ambition and an interactive console strategy for a human seat.
package bot

import (
	"fmt"
	"math/rand"

	"presidents/internal/domain"
)

// Kind names a built-in strategy, as used in configuration.
type Kind string

const (
	KindLowest  Kind = "lowest"
	KindGreedy  Kind = "greedy"
	KindRandom  Kind = "random"
	KindConsole Kind = "console"
)

// New creates a strategy of the given kind. The rng is only used by
// kinds that need one; deterministic kinds ignore it.
func New(kind Kind, rng *rand.Rand) (domain.Strategy, error) {
	switch kind {
	case KindLowest:
		return &LowestBot{}, nil
	case KindGreedy:
		return &GreedyBot{Tuning: DefaultTuning}, nil
	case KindRandom:
		if rng == nil {
			return nil, fmt.Errorf("the %q strategy needs a random source", kind)
		}
		return &RandomBot{Rng: rng}, nil
	case KindConsole:
		return &ConsoleStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy kind: %q", kind)
	}
}
