package bot

import (
	"math/rand"
	"sort"

	"presidents/internal/domain"
)

// LowestBot always sheds its cheapest option: the lowest-valued play it
// is allowed to make, preferring to drop more cards on a tie. It only
// passes when nothing can be played, and gives its lowest cards away
// during exchanges.
type LowestBot struct{}

func (b *LowestBot) SelectAction(_ *domain.PlayerState, _ *domain.PublicInfo, actions []domain.Action) domain.Action {
	plays := playActions(actions)
	if len(plays) > 0 {
		sort.Slice(plays, func(i, j int) bool {
			if plays[i].Play.Value() != plays[j].Play.Value() {
				return plays[i].Play.Value() < plays[j].Play.Value()
			}
			return plays[i].Play.Size() > plays[j].Play.Size()
		})
		return plays[0]
	}
	if send, ok := lowestSend(actions); ok {
		return send
	}
	return actions[0]
}

// GreedyBot scores every candidate play against its Weights and passes
// when even the best play is not worth its cards.
type GreedyBot struct {
	Tuning Weights
}

func (b *GreedyBot) SelectAction(private *domain.PlayerState, _ *domain.PublicInfo, actions []domain.Action) domain.Action {
	plays := playActions(actions)
	if len(plays) > 0 {
		best, bestScore := plays[0], b.score(plays[0].Play, private)
		for _, a := range plays[1:] {
			if s := b.score(a.Play, private); s > bestScore {
				best, bestScore = a, s
			}
		}
		if pass, ok := passAction(actions); ok && bestScore < b.Tuning.PassThreshold {
			return pass
		}
		return best
	}
	if send, ok := lowestSend(actions); ok {
		return send
	}
	return actions[0]
}

func (b *GreedyBot) score(cp domain.CardPlay, private *domain.PlayerState) float64 {
	valuePenalty := b.Tuning.ValuePenalty
	if len(private.Hand) < b.Tuning.HoardBelowCards {
		valuePenalty *= b.Tuning.HoardValueFactor
	}
	score := b.Tuning.CardsShedWeight*float64(cp.Size()) - valuePenalty*float64(cp.Value())
	if cp.Rank() == domain.Two {
		score -= b.Tuning.SpendTwoPenalty
	}
	if cp.Size() == len(private.Hand) {
		score += b.Tuning.FinishBonus
	}
	return score
}

// RandomBot picks uniformly among whatever it is offered.
type RandomBot struct {
	Rng *rand.Rand
}

func (b *RandomBot) SelectAction(_ *domain.PlayerState, _ *domain.PublicInfo, actions []domain.Action) domain.Action {
	return actions[b.Rng.Intn(len(actions))]
}

func playActions(actions []domain.Action) []domain.Action {
	var plays []domain.Action
	for _, a := range actions {
		if a.Type == domain.ActionPlayCards {
			plays = append(plays, a)
		}
	}
	return plays
}

func passAction(actions []domain.Action) (domain.Action, bool) {
	for _, a := range actions {
		if a.Type == domain.ActionPass {
			return a, true
		}
	}
	return domain.Action{}, false
}

func lowestSend(actions []domain.Action) (domain.Action, bool) {
	best, found := domain.Action{}, false
	for _, a := range actions {
		if a.Type != domain.ActionSendCard {
			continue
		}
		if !found || a.Card.Less(best.Card) {
			best, found = a, true
		}
	}
	return best, found
}
