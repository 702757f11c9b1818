package battle

// Player identifies a side of the battle.
type Player string

const (
	SideSelf     Player = "p1"
	SideOpponent Player = "p2"
	SideNone     Player = ""
)

// Weather represents the active weather condition.
type Weather int

const (
	WeatherNone Weather = iota
	WeatherSun
	WeatherRain
	WeatherSand
	WeatherSnow
	NumWeathers = 5 // 4 conditions + none
)

// WeatherFromName resolves a protocol weather token ("SunnyDay", "Hail", ...).
func WeatherFromName(name string) Weather {
	switch name {
	case "SunnyDay", "DesolateLand":
		return WeatherSun
	case "RainDance", "PrimordialSea":
		return WeatherRain
	case "Sandstorm":
		return WeatherSand
	case "Hail", "Snow", "Snowscape":
		return WeatherSnow
	default:
		return WeatherNone
	}
}

// Terrain represents the active terrain condition.
type Terrain int

const (
	TerrainNone Terrain = iota
	TerrainElectric
	TerrainGrassy
	TerrainMisty
	TerrainPsychic
	NumTerrains = 5 // 4 conditions + none
)

// TerrainFromName resolves a protocol field token ("Electric Terrain", ...).
func TerrainFromName(name string) Terrain {
	switch name {
	case "Electric Terrain":
		return TerrainElectric
	case "Grassy Terrain":
		return TerrainGrassy
	case "Misty Terrain":
		return TerrainMisty
	case "Psychic Terrain":
		return TerrainPsychic
	default:
		return TerrainNone
	}
}

// SideState holds per-side screens. Screen timers are not tracked; only
// presence matters to the encoder and the damage estimator.
type SideState struct {
	Reflect     bool
	LightScreen bool
	AuroraVeil  bool
}

// FieldState is the battle-wide condition set.
type FieldState struct {
	Weather   Weather
	Terrain   Terrain
	OwnSide   SideState
	OppSide   SideState
	TrickRoom bool
	Turn      int
}

// Restraints carries the server-reported suppression state for the own
// active pokemon. The battle engine decides what suppresses a move; this
// struct only transports its verdicts (see the request protocol).
type Restraints struct {
	Taunted    bool
	ChoiceLock int // locked move slot, -1 when unlocked
	Trapped    bool
}

// NewRestraints returns a Restraints with no suppression active.
func NewRestraints() Restraints {
	return Restraints{ChoiceLock: -1}
}

// Snapshot is a complete point-in-time view of a battle from one side's
// perspective. Roster order is fixed once per battle: the encoder and the
// action catalog both rely on slot positions never reshuffling.
type Snapshot struct {
	Own          []PokemonView
	Opp          []PokemonView
	OwnActive    int // index into Own, -1 if none
	OppActive    int // index into Opp, -1 if none
	Field        FieldState
	Restraints   Restraints
	ForcedSwitch bool // server demands a switch (active fainted, U-turn, ...)
	Turn         int
	Terminal     bool
	Winner       Player // set only when Terminal
}

// Active returns the own active pokemon, nil if none.
func (s *Snapshot) Active() *PokemonView {
	if s.OwnActive < 0 || s.OwnActive >= len(s.Own) {
		return nil
	}
	return &s.Own[s.OwnActive]
}

// OpponentActive returns the opponent's active pokemon, nil if none.
func (s *Snapshot) OpponentActive() *PokemonView {
	if s.OppActive < 0 || s.OppActive >= len(s.Opp) {
		return nil
	}
	return &s.Opp[s.OppActive]
}

// OwnReserve returns the own roster minus the active slot, in fixed team
// order. The slice indexes align with switch actions 1-5.
func (s *Snapshot) OwnReserve() []PokemonView {
	return reserveOf(s.Own, s.OwnActive)
}

// OppReserve returns the opponent roster minus their active slot.
func (s *Snapshot) OppReserve() []PokemonView {
	return reserveOf(s.Opp, s.OppActive)
}

func reserveOf(team []PokemonView, active int) []PokemonView {
	out := make([]PokemonView, 0, len(team))
	for i := range team {
		if i == active {
			continue
		}
		out = append(out, team[i])
	}
	return out
}

// FaintedCount returns how many existing members of the team have fainted.
func FaintedCount(team []PokemonView) int {
	n := 0
	for i := range team {
		if team[i].Exists && team[i].Fainted {
			n++
		}
	}
	return n
}

// TotalHPFraction sums HP fractions over the existing members of a team.
func TotalHPFraction(team []PokemonView) float64 {
	total := 0.0
	for i := range team {
		if team[i].Exists {
			total += team[i].HP
		}
	}
	return total
}
