package dex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

const samplePokedex = `{
	"charizard": {
		"name": "Charizard",
		"types": ["Fire", "Flying"],
		"baseStats": {"hp": 78, "atk": 84, "def": 78, "spa": 109, "spd": 85, "spe": 100}
	},
	"mrmime": {
		"name": "Mr. Mime",
		"types": ["Psychic", "Fairy"],
		"baseStats": {"hp": 40, "atk": 45, "def": 65, "spa": 100, "spd": 120, "spe": 90}
	}
}`

const sampleMoves = `{
	"flamethrower": {
		"name": "Flamethrower",
		"type": "Fire",
		"category": "Special",
		"basePower": 90,
		"accuracy": 100,
		"pp": 15
	},
	"aerialace": {
		"name": "Aerial Ace",
		"type": "Flying",
		"category": "Physical",
		"basePower": 60,
		"accuracy": true,
		"pp": 20
	},
	"swordsdance": {
		"name": "Swords Dance",
		"type": "Normal",
		"category": "Status",
		"basePower": 0,
		"accuracy": true,
		"pp": 20
	}
}`

func writeDexDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pokedex.json"), []byte(samplePokedex), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "moves.json"), []byte(sampleMoves), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadAndLookupSpecies(t *testing.T) {
	d, err := Load(writeDexDir(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, ok := d.LookupSpecies("Charizard")
	if !ok {
		t.Fatal("expected charizard in dex")
	}
	if s.Types[0] != battle.Fire || s.Types[1] != battle.Flying {
		t.Errorf("types = %v, %v", s.Types[0], s.Types[1])
	}
	if s.Stats.SpA != 109 || s.Stats.Spe != 100 {
		t.Errorf("stats = %+v", s.Stats)
	}

	// ID normalization strips punctuation and spaces.
	if _, ok := d.LookupSpecies("Mr. Mime"); !ok {
		t.Error("expected mr. mime lookup to hit via normalized id")
	}
}

func TestLookupMove(t *testing.T) {
	d, err := Load(writeDexDir(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m, ok := d.LookupMove("Flamethrower")
	if !ok {
		t.Fatal("expected flamethrower in dex")
	}
	if m.Type != battle.Fire || m.Category != battle.Special {
		t.Errorf("type/category = %v/%v", m.Type, m.Category)
	}
	if m.BasePower != 90 || m.Accuracy != 1.0 || m.PP != 15 {
		t.Errorf("power/acc/pp = %d/%v/%d", m.BasePower, m.Accuracy, m.PP)
	}

	aa, _ := d.LookupMove("aerialace")
	if aa.Accuracy != 1 {
		t.Errorf("always-hit accuracy = %v, want 1", aa.Accuracy)
	}

	sd, _ := d.LookupMove("Swords Dance")
	if sd.Category != battle.StatusMove {
		t.Errorf("swords dance category = %v", sd.Category)
	}
}

func TestLookupDefaults(t *testing.T) {
	d, err := Load(writeDexDir(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, ok := d.LookupSpecies("missingno")
	if ok {
		t.Error("unknown species reported ok")
	}
	if s.Stats.HP != 80 {
		t.Errorf("placeholder HP = %d, want 80", s.Stats.HP)
	}

	m, ok := d.LookupMove("notamove")
	if ok {
		t.Error("unknown move reported ok")
	}
	if m.BasePower != 80 || m.Accuracy != 1 {
		t.Errorf("placeholder move = %+v", m)
	}

	// nil receiver still answers with defaults
	var nilDex *Dex
	if _, ok := nilDex.LookupMove("tackle"); ok {
		t.Error("nil dex reported ok")
	}
}

func TestToID(t *testing.T) {
	cases := map[string]string{
		"Mr. Mime":     "mrmime",
		"Flamethrower": "flamethrower",
		"U-turn":       "uturn",
		"Porygon2":     "porygon2",
	}
	for in, want := range cases {
		if got := ToID(in); got != want {
			t.Errorf("ToID(%q) = %q, want %q", in, got, want)
		}
	}
}
