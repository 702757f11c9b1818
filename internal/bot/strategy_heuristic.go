package bot

import (
	"fmt"
	"math"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// expectedRoll is the midpoint of the simulator's damage roll range.
const expectedRoll = 0.925

// HeuristicStrategy scores actions with the damage estimator: moves by
// expected HP removed with KO and speed bonuses, switches by the matchup
// differential of the incoming pokemon. It is the default opponent the
// learner trains against.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

func (s HeuristicStrategy) ChooseAction(snap *battle.Snapshot, mask rl.ActionMask) (int, error) {
	if mask.Count() == 0 {
		return -1, fmt.Errorf("no legal actions")
	}

	best, bestScore := -1, math.Inf(-1)
	reserve := snap.OwnReserve()
	for a := 0; a < rl.NumActions; a++ {
		if !mask[a] {
			continue
		}
		var score float64
		if a < rl.MoveActions {
			score = s.moveScore(snap, a)
		} else {
			r := a - rl.MoveActions
			if r < len(reserve) {
				score = s.switchScore(snap, &reserve[r])
			}
		}
		if score > bestScore {
			best, bestScore = a, score
		}
	}
	if best < 0 {
		return mask.First(), nil
	}
	return best, nil
}

func (HeuristicStrategy) moveScore(snap *battle.Snapshot, slot int) float64 {
	active := snap.Active()
	opp := snap.OpponentActive()
	if active == nil || slot >= len(active.Moves) {
		return 0
	}
	mv := &active.Moves[slot]

	if mv.BasePower == 0 {
		// Status moves are worth something while we are healthy and have
		// turns to spend, nothing when racing for a KO.
		if active.HP > 0.6 {
			return 0.15
		}
		return 0.05
	}
	if opp == nil {
		return float64(mv.BasePower) / 250 * mv.Accuracy
	}

	dmg := battle.EstimateDamage(mv, active, opp, &snap.Field, true, expectedRoll)
	score := dmg * mv.Accuracy
	if battle.EstimateDamage(mv, active, opp, &snap.Field, true, 0.85) >= opp.HP {
		score += 0.5
		if battle.Outspeeds(active, opp, &snap.Field) {
			score += 0.25
		}
	}
	return score
}

func (HeuristicStrategy) switchScore(snap *battle.Snapshot, target *battle.PokemonView) float64 {
	opp := snap.OpponentActive()
	if opp == nil {
		return 0.1
	}
	offense := battle.BestDamage(target, opp, &snap.Field, true, expectedRoll)
	defense := battle.BestDamage(opp, target, &snap.Field, false, expectedRoll)
	score := 0.1 + 0.4*(offense-defense)
	if !snap.ForcedSwitch {
		// Voluntary switches give up a turn.
		score -= 0.2
	}
	return score
}
