package battle

// Type represents one of the 18 pokemon types.
type Type int

const (
	Normal Type = iota
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy
	NumTypes = 18
)

// TypeNone marks an absent second type slot.
const TypeNone Type = -1

var typeNames = [NumTypes]string{
	"normal", "fire", "water", "electric", "grass", "ice", "fighting",
	"poison", "ground", "flying", "psychic", "bug", "rock", "ghost",
	"dragon", "dark", "steel", "fairy",
}

func (t Type) String() string {
	if t < 0 || int(t) >= NumTypes {
		return "none"
	}
	return typeNames[t]
}

// TypeFromName resolves a type from its lowercase name, TypeNone if unknown.
func TypeFromName(name string) Type {
	for i, n := range typeNames {
		if n == name {
			return Type(i)
		}
	}
	return TypeNone
}

// Status represents a non-volatile status condition. Faint is modelled as a
// status so a knocked-out pokemon is distinguishable from a healthy one even
// when HP rounding reports a nonzero fraction.
type Status int

const (
	StatusNone Status = iota
	StatusBurn
	StatusFreeze
	StatusParalysis
	StatusPoison
	StatusToxic
	StatusSleep
	StatusFaint
	NumStatuses = 8 // 7 conditions + none
)

var statusNames = [NumStatuses]string{
	"", "brn", "frz", "par", "psn", "tox", "slp", "fnt",
}

func (s Status) String() string {
	if s <= StatusNone || int(s) >= NumStatuses {
		return "none"
	}
	return statusNames[s]
}

// StatusFromName resolves a protocol status token ("brn", "tox", ...).
func StatusFromName(name string) Status {
	for i := 1; i < NumStatuses; i++ {
		if statusNames[i] == name {
			return Status(i)
		}
	}
	return StatusNone
}

// MoveCategory splits moves into damage classes.
type MoveCategory int

const (
	Physical MoveCategory = iota
	Special
	StatusMove
	NumCategories = 3
)

func (c MoveCategory) String() string {
	switch c {
	case Physical:
		return "physical"
	case Special:
		return "special"
	default:
		return "status"
	}
}

// BoostStat enumerates the boostable stages carried in a snapshot. Evasion
// is omitted: every supported format runs Evasion Clause, so the stage is
// pinned at zero and carries no signal.
type BoostStat int

const (
	BoostAtk BoostStat = iota
	BoostDef
	BoostSpA
	BoostSpD
	BoostSpe
	BoostAcc
	NumBoosts = 6
)

var boostNames = [NumBoosts]string{"atk", "def", "spa", "spd", "spe", "accuracy"}

func (b BoostStat) String() string {
	if b < 0 || int(b) >= NumBoosts {
		return "?"
	}
	return boostNames[b]
}

// BoostStatFromName resolves a protocol boost token, -1 if untracked.
func BoostStatFromName(name string) BoostStat {
	for i, n := range boostNames {
		if n == name {
			return BoostStat(i)
		}
	}
	return BoostStat(-1)
}
