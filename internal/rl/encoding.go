// Package rl holds the three pure transforms between a battle snapshot and
// the learning loop: the fixed-length state encoding, the discrete action
// catalog with per-turn legality masking, and the shaping reward. All three
// are deterministic, stateless and never mutate a snapshot.
package rl

import (
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Sub-block widths of the observation layout. The move block is
// type one-hot(18) + category one-hot(3) + power + accuracy + pp + unknown.
const (
	moveBlockSize    = battle.NumTypes + battle.NumCategories + 4
	reserveSlotSize  = 1 + battle.NumTypes + 1 // hp + types + exists
	fieldBlockSize   = battle.NumWeathers + battle.NumTerrains + 3 + 3 + 1 + 1 + 2
	statBlockSize    = 5 // atk/def/spa/spd/spe, each /255
	maxBoostStage    = 6
	powerScale       = 250
	turnScale        = 100
	defaultTeamSize  = 6
	defaultMoveSlots = 4
)

// EncoderConfig fixes the observation schema. TeamSize and MoveSlots come
// from the battle format; SchemaVersion tags trajectories so a retrained
// consumer can reject vectors produced under an older layout.
type EncoderConfig struct {
	SchemaVersion int
	TeamSize      int
	MoveSlots     int
}

// DefaultEncoderConfig is the gen 9 singles schema: 6 pokemon, 4 move
// slots, 496 observation dims.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{SchemaVersion: 1, TeamSize: defaultTeamSize, MoveSlots: defaultMoveSlots}
}

// ActiveBlockSize returns the per-active-pokemon block width.
func (c EncoderConfig) ActiveBlockSize() int {
	return 1 + battle.NumTypes + battle.NumStatuses + battle.NumBoosts + statBlockSize + c.MoveSlots*moveBlockSize
}

// ReserveBlockSize returns the per-side reserve block width.
func (c EncoderConfig) ReserveBlockSize() int {
	return (c.TeamSize - 1) * reserveSlotSize
}

// ObservationSize returns the total vector length; 496 for the default
// config, invariant over roster size.
func (c EncoderConfig) ObservationSize() int {
	return 2*c.ActiveBlockSize() + 2*c.ReserveBlockSize() + fieldBlockSize
}

// Encode turns a snapshot into a fixed-length observation vector. It is a
// pure transform: identical snapshots encode identically, and rosters below
// the configured size zero-fill their remaining slots with exists=0.
// A structurally inconsistent snapshot yields an *EncodingError; the caller
// must never substitute a zero vector for it.
func Encode(snap *battle.Snapshot, cfg EncoderConfig) ([]float32, error) {
	if err := validate(snap, cfg); err != nil {
		return nil, err
	}

	vec := make([]float32, cfg.ObservationSize())
	off := 0

	off = encodeActive(vec, off, snap.Active(), true, cfg)
	off = encodeReserve(vec, off, snap.OwnReserve(), true, cfg)
	off = encodeActive(vec, off, snap.OpponentActive(), false, cfg)
	off = encodeReserve(vec, off, snap.OppReserve(), false, cfg)
	encodeField(vec, off, &snap.Field)

	return vec, nil
}

func validate(snap *battle.Snapshot, cfg EncoderConfig) error {
	if snap == nil {
		return encodingErrorf("nil snapshot")
	}
	if snap.Active() == nil {
		return encodingErrorf("no active pokemon on own side")
	}
	if len(snap.Own) > cfg.TeamSize {
		return encodingErrorf("own roster size %d exceeds format maximum %d", len(snap.Own), cfg.TeamSize)
	}
	if len(snap.Opp) > cfg.TeamSize {
		return encodingErrorf("opponent roster size %d exceeds format maximum %d", len(snap.Opp), cfg.TeamSize)
	}
	for _, team := range [][]battle.PokemonView{snap.Own, snap.Opp} {
		for i := range team {
			p := &team[i]
			if !p.Exists {
				continue
			}
			if p.HP < 0 || p.HP > 1 {
				return encodingErrorf("%s hp fraction %f out of range", p.Species, p.HP)
			}
			if len(p.Moves) > cfg.MoveSlots {
				return encodingErrorf("%s carries %d moves, format allows %d", p.Species, len(p.Moves), cfg.MoveSlots)
			}
		}
	}
	return nil
}

// encodeActive writes an active-pokemon block. For the opponent, move slots
// that have not been revealed are zeroed with the unknown indicator set, so
// "unobserved" never encodes identically to "absent".
func encodeActive(vec []float32, off int, p *battle.PokemonView, isOwn bool, cfg EncoderConfig) int {
	end := off + cfg.ActiveBlockSize()
	if p == nil {
		// Opponent active can be briefly absent (start of battle); the own
		// side is guaranteed by validation.
		if !isOwn {
			markUnknownMoves(vec, off+1+battle.NumTypes+battle.NumStatuses+battle.NumBoosts+statBlockSize, cfg.MoveSlots)
		}
		return end
	}

	vec[off] = float32(p.HP)
	off++

	off = encodeTypes(vec, off, p.Types)

	// Status one-hot, "none" in the final slot.
	if p.Status == battle.StatusNone {
		vec[off+battle.NumStatuses-1] = 1
	} else {
		vec[off+int(p.Status)-1] = 1
	}
	off += battle.NumStatuses

	for i := 0; i < battle.NumBoosts; i++ {
		vec[off+i] = float32(p.Boosts[i]) / maxBoostStage
	}
	off += battle.NumBoosts

	// Base stats are species data, known once the species is revealed.
	vec[off+0] = float32(p.Stats.Atk) / 255
	vec[off+1] = float32(p.Stats.Def) / 255
	vec[off+2] = float32(p.Stats.SpA) / 255
	vec[off+3] = float32(p.Stats.SpD) / 255
	vec[off+4] = float32(p.Stats.Spe) / 255
	off += statBlockSize

	for slot := 0; slot < cfg.MoveSlots; slot++ {
		if slot < len(p.Moves) && p.Moves[slot].Known {
			encodeMove(vec, off, &p.Moves[slot])
		} else if !isOwn {
			// Unrevealed opponent slot: may hold a move we have not seen.
			vec[off+moveBlockSize-1] = 1
		}
		// Own empty slot stays all-zero: known-absent.
		off += moveBlockSize
	}
	return end
}

func encodeMove(vec []float32, off int, mv *battle.MoveView) {
	if mv.Type != battle.TypeNone {
		vec[off+int(mv.Type)] = 1
	}
	off += battle.NumTypes
	vec[off+int(mv.Category)] = 1
	off += battle.NumCategories
	vec[off] = min32(float32(mv.BasePower)/powerScale, 1)
	vec[off+1] = float32(mv.Accuracy)
	vec[off+2] = float32(mv.PPFraction)
	// off+3 is the unknown indicator, zero for a revealed move.
}

func markUnknownMoves(vec []float32, off, slots int) {
	for slot := 0; slot < slots; slot++ {
		vec[off+slot*moveBlockSize+moveBlockSize-1] = 1
	}
}

// encodeReserve writes the per-side reserve block in fixed team order.
// A fainted teammate keeps exists=1 with hp 0; an opponent slot that has
// never been revealed (or does not exist) is all-zero including the exists
// bit, so "fainted" and "not yet seen" stay distinguishable.
func encodeReserve(vec []float32, off int, reserve []battle.PokemonView, isOwn bool, cfg EncoderConfig) int {
	end := off + cfg.ReserveBlockSize()
	for slot := 0; slot < cfg.TeamSize-1; slot++ {
		if slot >= len(reserve) {
			off += reserveSlotSize
			continue
		}
		p := &reserve[slot]
		if !p.Exists || (!isOwn && !p.Revealed) {
			off += reserveSlotSize
			continue
		}
		if p.Fainted {
			vec[off] = 0
		} else {
			vec[off] = float32(p.HP)
		}
		encodeTypes(vec, off+1, p.Types)
		vec[off+1+battle.NumTypes] = 1 // exists
		off += reserveSlotSize
	}
	return end
}

func encodeTypes(vec []float32, off int, types [2]battle.Type) int {
	for _, t := range types {
		if t != battle.TypeNone {
			vec[off+int(t)] = 1
		}
	}
	return off + battle.NumTypes
}

func encodeField(vec []float32, off int, f *battle.FieldState) {
	vec[off+int(f.Weather)] = 1 // WeatherNone occupies slot 0
	off += battle.NumWeathers
	vec[off+int(f.Terrain)] = 1
	off += battle.NumTerrains

	off = encodeSide(vec, off, f.OwnSide)
	off = encodeSide(vec, off, f.OppSide)

	if f.TrickRoom {
		vec[off] = 1
	}
	vec[off+1] = min32(float32(f.Turn)/turnScale, 1)
	// Final two slots are reserved padding for schema growth.
}

func encodeSide(vec []float32, off int, s battle.SideState) int {
	if s.Reflect {
		vec[off] = 1
	}
	if s.LightScreen {
		vec[off+1] = 1
	}
	if s.AuroraVeil {
		vec[off+2] = 1
	}
	return off + 3
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
