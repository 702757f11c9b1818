package battle

// BaseStats holds the species base stats. Values are the published species
// numbers (0-255), not level-adjusted.
type BaseStats struct {
	HP  int
	Atk int
	Def int
	SpA int
	SpD int
	Spe int
}

// MoveView is the observed state of one move slot.
type MoveView struct {
	Name       string
	Type       Type
	Category   MoveCategory
	BasePower  int     // 0 for status moves
	Accuracy   float64 // 0-1; 1 for always-hit moves
	PPFraction float64 // remaining PP / max PP
	Known      bool    // false for opponent slots that have not been revealed
	Disabled   bool    // move-targeted suppression (Disable, Torment lock, ...)
}

// PokemonView is the observed state of one roster slot. For the opponent's
// side fields may be unobserved; Revealed distinguishes "not yet seen" from
// "seen and fainted" so the two never collapse to the same encoding.
type PokemonView struct {
	Species  string
	Types    [2]Type // second slot TypeNone for monotype
	HP       float64 // fraction in [0,1]
	Status   Status
	Boosts   [NumBoosts]int // stages in [-6,6]
	Stats    BaseStats
	Moves    []MoveView // at most the format's move-slot count
	Fainted  bool
	Exists   bool // roster slot occupied
	Revealed bool // opponent slot has appeared in battle
	Active   bool
}

// HasType reports whether the pokemon carries the given type.
func (p *PokemonView) HasType(t Type) bool {
	return t != TypeNone && (p.Types[0] == t || p.Types[1] == t)
}

// Available reports whether the pokemon could be switched in.
func (p *PokemonView) Available() bool {
	return p.Exists && !p.Fainted && !p.Active
}
