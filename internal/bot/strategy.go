// Package bot implements the action-selection strategies: uniform random
// exploration, a damage-calculation heuristic, and neural policy inference.
package bot

import (
	"fmt"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Strategy picks one action index from the legal set each turn.
type Strategy interface {
	Name() string
	ChooseAction(snap *battle.Snapshot, mask rl.ActionMask) (int, error)
}

// ValueEstimator reports a win-probability estimate for a position.
// Not all strategies support value estimation; use a type assertion to check.
type ValueEstimator interface {
	EstimateValue(snap *battle.Snapshot) (float64, error)
}

// StrategyForName returns the strategy for a configured name.
func StrategyForName(name string) Strategy {
	switch name {
	case "random":
		return &RandomStrategy{}
	case "neural", "gonnx":
		return newGonnxOrFallback()
	default:
		return &HeuristicStrategy{}
	}
}

// --- RandomStrategy ---

// RandomStrategy samples uniformly over the legal actions. It is the
// exploration opponent and the baseline for reward sanity checks.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) ChooseAction(_ *battle.Snapshot, mask rl.ActionMask) (int, error) {
	n := mask.Count()
	if n == 0 {
		return -1, fmt.Errorf("no legal actions")
	}
	pick := botIntn(n)
	for a := 0; a < rl.NumActions; a++ {
		if !mask[a] {
			continue
		}
		if pick == 0 {
			return a, nil
		}
		pick--
	}
	return mask.First(), nil
}
