package battle

// typeChart[attacker][defender] holds the Gen 6+ effectiveness multiplier
// (0, 0.5, 1 or 2). Dual-type defenders multiply both entries.
var typeChart = buildTypeChart()

func buildTypeChart() [NumTypes][NumTypes]float64 {
	var chart [NumTypes][NumTypes]float64
	for a := 0; a < NumTypes; a++ {
		for d := 0; d < NumTypes; d++ {
			chart[a][d] = 1
		}
	}

	se := func(atk Type, defs ...Type) {
		for _, d := range defs {
			chart[atk][d] = 2
		}
	}
	nve := func(atk Type, defs ...Type) {
		for _, d := range defs {
			chart[atk][d] = 0.5
		}
	}
	imm := func(atk Type, defs ...Type) {
		for _, d := range defs {
			chart[atk][d] = 0
		}
	}

	nve(Normal, Rock, Steel)
	imm(Normal, Ghost)
	se(Fire, Grass, Ice, Bug, Steel)
	nve(Fire, Fire, Water, Rock, Dragon)
	se(Water, Fire, Ground, Rock)
	nve(Water, Water, Grass, Dragon)
	se(Electric, Water, Flying)
	nve(Electric, Electric, Grass, Dragon)
	imm(Electric, Ground)
	se(Grass, Water, Ground, Rock)
	nve(Grass, Fire, Grass, Poison, Flying, Bug, Dragon, Steel)
	se(Ice, Grass, Ground, Flying, Dragon)
	nve(Ice, Fire, Water, Ice, Steel)
	se(Fighting, Normal, Ice, Rock, Dark, Steel)
	nve(Fighting, Poison, Flying, Psychic, Bug, Fairy)
	imm(Fighting, Ghost)
	se(Poison, Grass, Fairy)
	nve(Poison, Poison, Ground, Rock, Ghost)
	imm(Poison, Steel)
	se(Ground, Fire, Electric, Poison, Rock, Steel)
	nve(Ground, Grass, Bug)
	imm(Ground, Flying)
	se(Flying, Grass, Fighting, Bug)
	nve(Flying, Electric, Rock, Steel)
	se(Psychic, Fighting, Poison)
	nve(Psychic, Psychic, Steel)
	imm(Psychic, Dark)
	se(Bug, Grass, Psychic, Dark)
	nve(Bug, Fire, Fighting, Flying, Ghost, Steel, Fairy)
	se(Rock, Fire, Ice, Flying, Bug)
	nve(Rock, Fighting, Ground, Steel)
	se(Ghost, Psychic, Ghost)
	nve(Ghost, Dark)
	imm(Ghost, Normal)
	se(Dragon, Dragon)
	nve(Dragon, Steel)
	imm(Dragon, Fairy)
	se(Dark, Psychic, Ghost)
	nve(Dark, Fighting, Dark, Fairy)
	se(Steel, Ice, Rock, Fairy)
	nve(Steel, Fire, Water, Electric, Steel)
	se(Fairy, Fighting, Dragon, Dark)
	nve(Fairy, Fire, Poison, Steel)

	return chart
}

// Effectiveness returns the combined type multiplier of an attacking type
// against a defender's type pair.
func Effectiveness(atk Type, defender [2]Type) float64 {
	if atk == TypeNone {
		return 1
	}
	mult := 1.0
	for _, d := range defender {
		if d != TypeNone {
			mult *= typeChart[atk][d]
		}
	}
	return mult
}
