package bot

// Weights steer the greedy bot's scoring of a candidate play.
type Weights struct {
	CardsShedWeight  float64 // reward per card a play removes from hand
	ValuePenalty     float64 // penalty per point of play value spent
	SpendTwoPenalty  float64 // extra penalty for burning a Two
	FinishBonus      float64 // reward for a play that empties the hand
	PassThreshold    float64 // minimum score to play instead of passing
	HoardBelowCards  int     // hand size under which high cards are hoarded harder
	HoardValueFactor float64
}

// DefaultTuning prefers shedding cards cheaply, saves Twos for contested
// tricks, and tightens up once the hand runs low.
var DefaultTuning = Weights{
	CardsShedWeight:  2.0,
	ValuePenalty:     0.4,
	SpendTwoPenalty:  5.0,
	FinishBonus:      100.0,
	PassThreshold:    -4.0,
	HoardBelowCards:  4,
	HoardValueFactor: 1.5,
}
