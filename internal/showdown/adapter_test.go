package showdown

import (
	"testing"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
)

const switchRequest = `{
	"active": [{"moves": [
		{"move": "Flamethrower", "id": "flamethrower", "pp": 15, "maxpp": 15, "disabled": false}
	], "trapped": false}],
	"side": {"name": "trainerbot", "id": "p1", "pokemon": [
		{"ident": "p1: Charizard", "details": "Charizard, L82, M", "condition": "211/280",
			"active": true, "moves": ["flamethrower"], "item": ""},
		{"ident": "p1: Blastoise", "details": "Blastoise, L84, F", "condition": "100/100",
			"active": false, "moves": ["flamethrower"], "item": ""},
		{"ident": "p1: Garchomp", "details": "Garchomp, L80, M", "condition": "100/100",
			"active": false, "moves": ["earthquake"], "item": ""}
	]},
	"rqid": 3
}`

func switchAdapter(t *testing.T) *Adapter {
	t.Helper()
	b := NewBattle("battle-gen9randombattle-2", "trainerbot", testDex(t))
	lines := []string{
		"|player|p1|trainerbot|169|",
		"|request|" + switchRequest,
		"|switch|p1a: Charizard|Charizard, L82, M|211/280",
		"|switch|p2a: Garchomp|Garchomp, L80, F|100/100",
		"|turn|1",
	}
	for _, line := range lines {
		if err := b.HandleLine(line); err != nil {
			t.Fatal(err)
		}
	}
	return &Adapter{battle: b}
}

func TestChoiceForMoves(t *testing.T) {
	a := switchAdapter(t)
	snap := a.battle.Snapshot()

	choice, err := a.choiceFor(snap, 0)
	if err != nil {
		t.Fatal(err)
	}
	if choice != "move 1" {
		t.Errorf("choice = %q, want %q", choice, "move 1")
	}
}

func TestChoiceForSwitches(t *testing.T) {
	a := switchAdapter(t)
	snap := a.battle.Snapshot()

	// Reserve slot 0 is Blastoise, the second entry of the request roster.
	choice, err := a.choiceFor(snap, rl.MoveActions)
	if err != nil {
		t.Fatal(err)
	}
	if choice != "switch 2" {
		t.Errorf("choice = %q, want %q", choice, "switch 2")
	}

	choice, err = a.choiceFor(snap, rl.MoveActions+1)
	if err != nil {
		t.Fatal(err)
	}
	if choice != "switch 3" {
		t.Errorf("choice = %q, want %q", choice, "switch 3")
	}

	// Reserve slots beyond the roster cannot be resolved.
	if _, err := a.choiceFor(snap, rl.MoveActions+4); err == nil {
		t.Error("expected error for empty reserve slot")
	}
}

func TestChallengeSender(t *testing.T) {
	from, ok := challengeSender("|pm| rival| rlbot|/challenge gen9randombattle", "rlbot")
	if !ok || from != "rival" {
		t.Errorf("sender = %q, ok = %v", from, ok)
	}

	// Own outgoing challenge echoes back and must not be accepted.
	if _, ok := challengeSender("|pm| rlbot| rival|/challenge gen9randombattle", "rlbot"); ok {
		t.Error("accepted own outgoing challenge")
	}
	if _, ok := challengeSender("|pm| rival| rlbot|hello", "rlbot"); ok {
		t.Error("treated chat message as challenge")
	}
}
