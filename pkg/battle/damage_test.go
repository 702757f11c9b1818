package battle

import (
	"math"
	"testing"
)

func attacker() *PokemonView {
	return &PokemonView{
		Species: "attacker",
		Types:   [2]Type{Fire, TypeNone},
		HP:      1,
		Stats:   BaseStats{HP: 80, Atk: 100, Def: 80, SpA: 110, SpD: 80, Spe: 95},
		Exists:  true,
	}
}

func defender() *PokemonView {
	return &PokemonView{
		Species: "defender",
		Types:   [2]Type{Grass, TypeNone},
		HP:      1,
		Stats:   BaseStats{HP: 90, Atk: 80, Def: 85, SpA: 80, SpD: 90, Spe: 70},
		Exists:  true,
	}
}

func fireBlast() *MoveView {
	return &MoveView{Name: "fireblast", Type: Fire, Category: Special, BasePower: 110, Accuracy: 0.85, PPFraction: 1, Known: true}
}

func TestStatEstimation(t *testing.T) {
	// stat = 2*base + 31 + 21 + 5; HP swaps the +5 for +110.
	if got := StatAt100(100); got != 257 {
		t.Errorf("StatAt100(100) = %v, want 257", got)
	}
	if got := HPAt100(100); got != 362 {
		t.Errorf("HPAt100(100) = %v, want 362", got)
	}
}

func TestBoostMultiplier(t *testing.T) {
	cases := map[int]float64{
		0:  1,
		1:  1.5,
		2:  2,
		6:  4,
		-1: 2.0 / 3.0,
		-6: 0.25,
	}
	for stage, want := range cases {
		if got := BoostMultiplier(stage); math.Abs(got-want) > 1e-12 {
			t.Errorf("BoostMultiplier(%d) = %v, want %v", stage, got, want)
		}
	}
}

func TestEstimateDamageBasics(t *testing.T) {
	atk, def := attacker(), defender()

	d := EstimateDamage(fireBlast(), atk, def, &FieldState{}, true, avgRoll)
	if d <= 0 || d > 1 {
		t.Fatalf("damage fraction %v out of (0,1]", d)
	}

	// STAB + super effective Fire vs Grass must out-damage a neutral hit
	// of the same power.
	neutral := fireBlast()
	neutral.Type = Normal
	if n := EstimateDamage(neutral, atk, def, &FieldState{}, true, avgRoll); n >= d {
		t.Errorf("neutral non-STAB hit %v >= boosted hit %v", n, d)
	}
}

func TestEstimateDamageImmunity(t *testing.T) {
	atk, def := attacker(), defender()
	def.Types = [2]Type{Flying, TypeNone}
	quake := &MoveView{Name: "earthquake", Type: Ground, Category: Physical, BasePower: 100, Accuracy: 1, PPFraction: 1, Known: true}
	if d := EstimateDamage(quake, atk, def, &FieldState{}, true, avgRoll); d != 0 {
		t.Fatalf("ground move vs flying dealt %v, want 0", d)
	}
}

func TestEstimateDamageStatusMove(t *testing.T) {
	wisp := &MoveView{Name: "willowisp", Type: Fire, Category: StatusMove, BasePower: 0, Accuracy: 0.85, PPFraction: 1, Known: true}
	if d := EstimateDamage(wisp, attacker(), defender(), &FieldState{}, true, avgRoll); d != 0 {
		t.Fatalf("status move dealt %v, want 0", d)
	}
}

func TestEstimateDamageModifiers(t *testing.T) {
	atk, def := attacker(), defender()
	base := EstimateDamage(fireBlast(), atk, def, &FieldState{}, true, avgRoll)

	sunny := EstimateDamage(fireBlast(), atk, def, &FieldState{Weather: WeatherSun}, true, avgRoll)
	if sunny <= base {
		t.Errorf("sun-boosted fire %v <= base %v", sunny, base)
	}

	rain := EstimateDamage(fireBlast(), atk, def, &FieldState{Weather: WeatherRain}, true, avgRoll)
	if rain >= base {
		t.Errorf("rain-halved fire %v >= base %v", rain, base)
	}

	screened := EstimateDamage(fireBlast(), atk, def, &FieldState{OppSide: SideState{LightScreen: true}}, true, avgRoll)
	if math.Abs(screened-rain) > 1e-9 {
		// Both a screen and rain halve special fire damage here.
		t.Errorf("light screen %v and rain %v should match", screened, rain)
	}

	burned := attacker()
	burned.Status = StatusBurn
	tackle := &MoveView{Name: "tackle", Type: Normal, Category: Physical, BasePower: 40, Accuracy: 1, PPFraction: 1, Known: true}
	healthyHit := EstimateDamage(tackle, atk, def, &FieldState{}, true, avgRoll)
	burnedHit := EstimateDamage(tackle, burned, def, &FieldState{}, true, avgRoll)
	if burnedHit >= healthyHit {
		t.Errorf("burned physical hit %v >= healthy %v", burnedHit, healthyHit)
	}
}

func TestBestDamageUnknownMovesetFallback(t *testing.T) {
	atk, def := attacker(), defender()
	atk.Moves = nil
	if d := BestDamage(atk, def, &FieldState{}, true, avgRoll); d <= 0 {
		t.Fatalf("unknown moveset estimate %v, want STAB power-80 guess > 0", d)
	}
}

func TestKOProbabilityBounds(t *testing.T) {
	atk, def := attacker(), defender()

	def.HP = 0.01
	if p := KOProbability(atk, def, &FieldState{}, true); p != 1 {
		t.Errorf("KO probability %v vs near-dead target, want 1", p)
	}

	def.HP = 1
	def.Types = [2]Type{Water, Dragon}
	def.Stats.SpD = 230
	atk.Moves = []MoveView{{Name: "ember", Type: Fire, Category: Special, BasePower: 40, Accuracy: 1, PPFraction: 1, Known: true}}
	if p := KOProbability(atk, def, &FieldState{}, true); p != 0 {
		t.Errorf("KO probability %v vs resistant wall, want 0", p)
	}
}

func TestOutspeeds(t *testing.T) {
	fast, slow := attacker(), defender()
	if !Outspeeds(fast, slow, &FieldState{}) {
		t.Error("95 base speed should outspeed 70")
	}
	if Outspeeds(fast, slow, &FieldState{TrickRoom: true}) {
		t.Error("trick room should invert the speed comparison")
	}

	paralyzed := attacker()
	paralyzed.Status = StatusParalysis
	if got, want := EffectiveSpeed(paralyzed), EffectiveSpeed(fast)/2; got != want {
		t.Errorf("paralyzed speed %v, want halved %v", got, want)
	}
}
