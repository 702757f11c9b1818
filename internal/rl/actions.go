package rl

import (
	"fmt"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// The discrete action space. Indices 0-3 use the active pokemon's move
// slots in list order; 4-8 switch to reserve slots 1-5 in the encoder's
// fixed team order. The catalog never changes shape: per-turn availability
// is expressed through the mask alone.
const (
	MoveActions   = 4
	SwitchActions = 5
	NumActions    = MoveActions + SwitchActions
)

// ActionMask marks which of the 9 actions are legal this turn.
type ActionMask [NumActions]bool

// Count returns the number of legal actions.
func (m ActionMask) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// First returns the lowest legal action index, -1 if none.
func (m ActionMask) First() int {
	for i, ok := range m {
		if ok {
			return i
		}
	}
	return -1
}

// ActionName renders an action index for logs ("move 2", "switch 5").
func ActionName(action int) string {
	switch {
	case action >= 0 && action < MoveActions:
		return fmt.Sprintf("move %d", action+1)
	case action >= MoveActions && action < NumActions:
		return fmt.Sprintf("switch %d", action-MoveActions+1)
	default:
		return fmt.Sprintf("action %d", action)
	}
}

// ComputeMask derives the legality mask for a snapshot. For any
// non-terminal snapshot at least one entry is true: when every move slot is
// suppressed and no switch is possible, slot 0 is forced legal and stands
// for the engine's fallback move (Struggle).
func ComputeMask(snap *battle.Snapshot) ActionMask {
	var mask ActionMask
	if snap == nil || snap.Terminal {
		return mask
	}

	active := snap.Active()
	if active != nil && !snap.ForcedSwitch {
		for i := 0; i < MoveActions; i++ {
			mask[i] = moveLegal(active, &snap.Restraints, i)
		}
	}

	if !snap.Restraints.Trapped || snap.ForcedSwitch {
		reserve := snap.OwnReserve()
		for i := 0; i < SwitchActions; i++ {
			mask[MoveActions+i] = i < len(reserve) && reserve[i].Available()
		}
	}

	if mask.Count() == 0 {
		mask[0] = true
	}
	return mask
}

// moveLegal is the per-slot legality predicate: the slot holds a move with
// PP left, and no reported effect suppresses it. The enumeration of
// suppressing effects lives in the battle engine; the snapshot only carries
// its verdicts (disabled flags, taunt, choice lock).
func moveLegal(active *battle.PokemonView, r *battle.Restraints, slot int) bool {
	if slot >= len(active.Moves) {
		return false
	}
	mv := &active.Moves[slot]
	switch {
	case !mv.Known, mv.PPFraction <= 0, mv.Disabled:
		return false
	case r.Taunted && mv.Category == battle.StatusMove:
		return false
	case r.ChoiceLock >= 0 && r.ChoiceLock != slot:
		return false
	}
	return true
}

// ValidateAction is the enforcement boundary between the learner and the
// environment: an index whose mask entry is false is rejected instead of
// being executed.
func ValidateAction(mask ActionMask, action int) error {
	if action < 0 || action >= NumActions || !mask[action] {
		return &IllegalActionError{Action: action, Mask: mask}
	}
	return nil
}
