package strategy

import (
	"fmt"
	"math/rand"

	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/qlearn"
)

// New builds a strategy by name: "basic", "random" or "learn". The learner
// is only required for "learn".
func New(kind string, learner *qlearn.Learner, rng *rand.Rand, epsilon float64) (game.Strategy, error) {
	switch kind {
	case "basic":
		return NewBasic(), nil
	case "random":
		return NewRandom(rng), nil
	case "learn":
		if learner == nil {
			return nil, fmt.Errorf("strategy %q requires a learner", kind)
		}
		return NewLearned(learner, rng, epsilon), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}
