package battle

import "math"

// Damage estimation for heuristic play. All figures assume level 100 with
// 31 IVs and 85 EVs, the random-battle spread. Results are fractions of the
// defender's estimated max HP, so `estimate >= defender.HP` reads as a KO.

const (
	avgRoll = 0.925 // midpoint of the 0.85-1.00 damage roll
	minRoll = 0.85
	maxRoll = 1.0
)

// StatAt100 estimates a stat value at level 100 from its species base.
func StatAt100(base int) float64 {
	return float64(2*base+31+21) + 5
}

// HPAt100 estimates max HP at level 100 from the species base HP.
func HPAt100(base int) float64 {
	return float64(2*base+31+21) + 110
}

// BoostMultiplier converts a stat stage in [-6,6] to its multiplier.
func BoostMultiplier(stage int) float64 {
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// EstimateDamage estimates the HP fraction a move removes from the defender
// using the Gen 6+ formula with STAB, weather, terrain, screens and burn.
// Item and ability modifiers are not modelled; the environment reports their
// move-suppression effects separately. isOwnAttack selects which side's
// screens reduce the damage. roll is the random damage factor in [0.85,1].
func EstimateDamage(move *MoveView, attacker, defender *PokemonView, field *FieldState, isOwnAttack bool, roll float64) float64 {
	if move == nil || move.BasePower == 0 {
		return 0
	}

	eff := Effectiveness(move.Type, defender.Types)
	if eff == 0 {
		return 0
	}

	isPhysical := move.Category == Physical

	atkBase, defBase := attacker.Stats.SpA, defender.Stats.SpD
	atkStage, defStage := attacker.Boosts[BoostSpA], defender.Boosts[BoostSpD]
	if isPhysical {
		atkBase, defBase = attacker.Stats.Atk, defender.Stats.Def
		atkStage, defStage = attacker.Boosts[BoostAtk], defender.Boosts[BoostDef]
	}
	atk := StatAt100(orDefault(atkBase)) * BoostMultiplier(atkStage)
	def := StatAt100(orDefault(defBase)) * BoostMultiplier(defStage)

	stab := 1.0
	if attacker.HasType(move.Type) {
		stab = 1.5
	}

	burn := 1.0
	if isPhysical && attacker.Status == StatusBurn {
		burn = 0.5
	}

	// floor(floor(floor(2*100/5+2) * power * atk/def / 50) + 2)
	base := math.Floor(math.Floor(42*float64(move.BasePower)*atk/def/50) + 2)

	damage := base * roll * stab * eff * burn *
		weatherMultiplier(move.Type, field) *
		terrainMultiplier(move.Type, field) /
		screenDivisor(field, isPhysical, isOwnAttack)

	hp := HPAt100(orDefault(defender.Stats.HP))
	return clamp01(damage / hp)
}

// BestDamage returns the best single-move damage fraction the attacker can
// deal to the defender. With no known moves it assumes a STAB move of base
// power 80 off the stronger attacking stat, the standard unknown-set guess.
func BestDamage(attacker, defender *PokemonView, field *FieldState, isOwnAttack bool, roll float64) float64 {
	best := 0.0
	known := false
	for i := range attacker.Moves {
		mv := &attacker.Moves[i]
		if !mv.Known || mv.BasePower == 0 {
			continue
		}
		known = true
		if d := EstimateDamage(mv, attacker, defender, field, isOwnAttack, roll); d > best {
			best = d
		}
	}
	if known {
		return best
	}

	atkBase := attacker.Stats.Atk
	cat := Physical
	if attacker.Stats.SpA > atkBase {
		atkBase = attacker.Stats.SpA
		cat = Special
	}
	for _, t := range attacker.Types {
		if t == TypeNone {
			continue
		}
		guess := MoveView{Type: t, Category: cat, BasePower: 80, Known: true}
		probe := *attacker
		if d := EstimateDamage(&guess, &probe, defender, field, isOwnAttack, roll); d > best {
			best = d
		}
	}
	return best
}

// KOProbability estimates the chance the attacker one-shots the defender,
// interpolating where the defender's current HP falls inside the
// [minRoll,maxRoll] damage range.
func KOProbability(attacker, defender *PokemonView, field *FieldState, isOwnAttack bool) float64 {
	dmgMin := BestDamage(attacker, defender, field, isOwnAttack, minRoll)
	dmgMax := BestDamage(attacker, defender, field, isOwnAttack, maxRoll)

	switch {
	case dmgMin >= defender.HP:
		return 1
	case dmgMax < defender.HP:
		return 0
	}
	span := dmgMax - dmgMin
	if span < 1e-8 {
		return 0
	}
	return clamp01((dmgMax - defender.HP) / span)
}

// EffectiveSpeed estimates a pokemon's speed accounting for stages and the
// paralysis halving. Trick Room inverts comparisons at the call site.
func EffectiveSpeed(p *PokemonView) float64 {
	spe := StatAt100(orDefault(p.Stats.Spe)) * BoostMultiplier(p.Boosts[BoostSpe])
	if p.Status == StatusParalysis {
		spe *= 0.5
	}
	return spe
}

// Outspeeds reports whether a moves before b under the current field.
func Outspeeds(a, b *PokemonView, field *FieldState) bool {
	fast := EffectiveSpeed(a) > EffectiveSpeed(b)
	if field != nil && field.TrickRoom {
		return !fast
	}
	return fast
}

func weatherMultiplier(moveType Type, field *FieldState) float64 {
	if field == nil {
		return 1
	}
	switch field.Weather {
	case WeatherSun:
		if moveType == Fire {
			return 1.5
		}
		if moveType == Water {
			return 0.5
		}
	case WeatherRain:
		if moveType == Water {
			return 1.5
		}
		if moveType == Fire {
			return 0.5
		}
	}
	return 1
}

func terrainMultiplier(moveType Type, field *FieldState) float64 {
	if field == nil {
		return 1
	}
	switch {
	case field.Terrain == TerrainElectric && moveType == Electric:
		return 1.3
	case field.Terrain == TerrainGrassy && moveType == Grass:
		return 1.3
	case field.Terrain == TerrainMisty && moveType == Dragon:
		return 0.5
	case field.Terrain == TerrainPsychic && moveType == Psychic:
		return 1.3
	}
	return 1
}

func screenDivisor(field *FieldState, isPhysical, isOwnAttack bool) float64 {
	if field == nil {
		return 1
	}
	side := field.OwnSide
	if isOwnAttack {
		side = field.OppSide
	}
	if side.AuroraVeil {
		return 2
	}
	if isPhysical && side.Reflect {
		return 2
	}
	if !isPhysical && side.LightScreen {
		return 2
	}
	return 1
}

// orDefault substitutes the 50-base placeholder for unknown species stats.
func orDefault(base int) int {
	if base <= 0 {
		return 50
	}
	return base
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
