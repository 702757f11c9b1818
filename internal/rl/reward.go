package rl

import "github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"

// RewardConfig holds the shaping coefficients. Each term is independently
// bounded by its coefficient; the config travels as a value so two calls
// with the same inputs always produce the same reward.
type RewardConfig struct {
	Win          float64 // terminal bonus when the agent's side wins
	Lose         float64 // terminal penalty magnitude when it loses
	OppFaint     float64 // per newly fainted opponent pokemon
	OwnFaint     float64 // per newly fainted own pokemon
	HPDeltaScale float64 // terminal (own - opponent) total HP fraction scale
}

// DefaultRewardConfig mirrors the coefficients the agent was tuned with.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Win:          1.0,
		Lose:         1.0,
		OppFaint:     0.15,
		OwnFaint:     0.15,
		HPDeltaScale: 0.01,
	}
}

// Reward converts two consecutive snapshots into the scalar step signal:
// faint differentials every step, plus the win/lose bonus and the total-HP
// differential once at battle end. Faints are diffed per roster slot so a
// pokemon already down in prev is never counted again.
func Reward(prev, cur *battle.Snapshot, terminal bool, winner battle.Player, cfg RewardConfig) float64 {
	r := 0.0

	r += cfg.OppFaint * float64(newlyFainted(prev.Opp, cur.Opp))
	r -= cfg.OwnFaint * float64(newlyFainted(prev.Own, cur.Own))

	if terminal {
		switch winner {
		case battle.SideSelf:
			r += cfg.Win
		case battle.SideOpponent:
			r -= cfg.Lose
		}
		r += cfg.HPDeltaScale * (battle.TotalHPFraction(cur.Own) - battle.TotalHPFraction(cur.Opp))
	}

	return r
}

func newlyFainted(prev, cur []battle.PokemonView) int {
	n := 0
	for i := range cur {
		if !cur[i].Exists || !cur[i].Fainted {
			continue
		}
		if i < len(prev) && prev[i].Exists && prev[i].Fainted {
			continue
		}
		n++
	}
	return n
}
