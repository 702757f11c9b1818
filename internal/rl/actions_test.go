package rl

import (
	"testing"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// fullMoveset gives the active pokemon four usable moves.
func fullMoveset() []battle.MoveView {
	return []battle.MoveView{
		testMove("flamethrower", battle.Fire, battle.Special, 90, 1),
		testMove("earthquake", battle.Ground, battle.Physical, 100, 1),
		testMove("willowisp", battle.Fire, battle.StatusMove, 0, 1),
		testMove("roost", battle.Flying, battle.StatusMove, 0, 1),
	}
}

func TestComputeMaskAllAvailable(t *testing.T) {
	snap := testSnapshot(6, 6)
	snap.Own[0].Moves = fullMoveset()

	mask := ComputeMask(snap)
	for i := 0; i < NumActions; i++ {
		if !mask[i] {
			t.Errorf("action %s unexpectedly illegal", ActionName(i))
		}
	}
}

// Move slot with exhausted PP is masked; everything else stays legal.
func TestComputeMaskExhaustedPP(t *testing.T) {
	snap := testSnapshot(6, 6)
	snap.Own[0].Moves = fullMoveset()
	snap.Own[0].Moves[1].PPFraction = 0

	mask := ComputeMask(snap)
	want := ActionMask{true, false, true, true, true, true, true, true, true}
	if mask != want {
		t.Fatalf("mask = %v, want %v", mask, want)
	}
}

func TestComputeMaskSuppression(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*battle.Snapshot)
		want  [MoveActions]bool
	}{
		{
			"disable",
			func(s *battle.Snapshot) { s.Own[0].Moves[0].Disabled = true },
			[MoveActions]bool{false, true, true, true},
		},
		{
			"taunt blocks status moves",
			func(s *battle.Snapshot) { s.Restraints.Taunted = true },
			[MoveActions]bool{true, true, false, false},
		},
		{
			"choice lock",
			func(s *battle.Snapshot) { s.Restraints.ChoiceLock = 1 },
			[MoveActions]bool{false, true, false, false},
		},
	}

	for _, tc := range cases {
		snap := testSnapshot(6, 6)
		snap.Own[0].Moves = fullMoveset()
		tc.setup(snap)
		mask := ComputeMask(snap)
		for i := 0; i < MoveActions; i++ {
			if mask[i] != tc.want[i] {
				t.Errorf("%s: mask[%d] = %v, want %v", tc.name, i, mask[i], tc.want[i])
			}
		}
	}
}

func TestComputeMaskSwitchLegality(t *testing.T) {
	snap := testSnapshot(6, 6)
	snap.Own[0].Moves = fullMoveset()
	snap.Own[2].Fainted = true // reserve slot 2
	snap.Own[4].Exists = false // reserve slot 4

	mask := ComputeMask(snap)
	wantSwitch := [SwitchActions]bool{true, false, true, false, true}
	for i := 0; i < SwitchActions; i++ {
		if mask[MoveActions+i] != wantSwitch[i] {
			t.Errorf("switch slot %d = %v, want %v", i+1, mask[MoveActions+i], wantSwitch[i])
		}
	}
}

func TestComputeMaskTrapped(t *testing.T) {
	snap := testSnapshot(6, 6)
	snap.Own[0].Moves = fullMoveset()
	snap.Restraints.Trapped = true

	mask := ComputeMask(snap)
	for i := MoveActions; i < NumActions; i++ {
		if mask[i] {
			t.Errorf("trapped pokemon can still %s", ActionName(i))
		}
	}
	if !mask[0] {
		t.Error("trapped pokemon lost its move actions")
	}
}

func TestComputeMaskForcedSwitch(t *testing.T) {
	snap := testSnapshot(6, 6)
	snap.Own[0].Moves = fullMoveset()
	snap.Own[0].Fainted = true
	snap.ForcedSwitch = true

	mask := ComputeMask(snap)
	for i := 0; i < MoveActions; i++ {
		if mask[i] {
			t.Errorf("forced switch still allows %s", ActionName(i))
		}
	}
	if mask.Count() != SwitchActions {
		t.Errorf("forced switch mask %v, want all five switches", mask)
	}
}

// With every move suppressed and no switch available, slot 0 is forced
// legal: the engine falls back to Struggle.
func TestComputeMaskStruggleFallback(t *testing.T) {
	snap := testSnapshot(1, 6)
	snap.Own[0].Moves = fullMoveset()
	for i := range snap.Own[0].Moves {
		snap.Own[0].Moves[i].PPFraction = 0
	}

	mask := ComputeMask(snap)
	want := ActionMask{true, false, false, false, false, false, false, false, false}
	if mask != want {
		t.Fatalf("mask = %v, want struggle fallback %v", mask, want)
	}
}

// Mask totality: any non-terminal snapshot keeps at least one legal action.
func TestComputeMaskTotality(t *testing.T) {
	snaps := []*battle.Snapshot{
		testSnapshot(1, 1),
		testSnapshot(6, 6),
		func() *battle.Snapshot {
			s := testSnapshot(3, 3)
			s.Restraints.Trapped = true
			s.Own[0].Moves[0].PPFraction = 0
			return s
		}(),
		func() *battle.Snapshot {
			s := testSnapshot(2, 2)
			s.Restraints.Taunted = true
			s.Restraints.ChoiceLock = 0
			return s
		}(),
	}
	for i, snap := range snaps {
		if mask := ComputeMask(snap); mask.Count() < 1 {
			t.Errorf("snapshot %d: non-terminal mask has no legal action", i)
		}
	}
}

func TestComputeMaskTerminal(t *testing.T) {
	snap := testSnapshot(2, 2)
	snap.Terminal = true
	if mask := ComputeMask(snap); mask.Count() != 0 {
		t.Errorf("terminal snapshot mask %v, want empty", mask)
	}
}

func TestValidateAction(t *testing.T) {
	mask := ActionMask{true, false, true, false, false, true, false, false, false}

	if err := ValidateAction(mask, 2); err != nil {
		t.Errorf("legal action rejected: %v", err)
	}
	for _, action := range []int{1, 3, -1, NumActions} {
		err := ValidateAction(mask, action)
		if err == nil {
			t.Errorf("action %d passed validation against %v", action, mask)
			continue
		}
		var illegalErr *IllegalActionError
		if ie, ok := err.(*IllegalActionError); !ok {
			t.Errorf("action %d: error type %T, want *IllegalActionError", action, err)
		} else {
			illegalErr = ie
		}
		if illegalErr != nil && action >= 0 && illegalErr.Action != action {
			t.Errorf("error reports action %d, want %d", illegalErr.Action, action)
		}
	}
}

func TestActionName(t *testing.T) {
	cases := map[int]string{
		0: "move 1",
		3: "move 4",
		4: "switch 1",
		8: "switch 5",
	}
	for action, want := range cases {
		if got := ActionName(action); got != want {
			t.Errorf("ActionName(%d) = %q, want %q", action, got, want)
		}
	}
}
