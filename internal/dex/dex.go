// Package dex resolves species and move identifiers to battle data. Tables
// are loaded from the JSON dumps shipped with the Showdown simulator
// (`pokedex.json`, `moves.json`); lookups on a missing entry degrade to
// conservative defaults so an unexpected species never aborts a battle.
package dex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Species holds the dex data for one pokemon.
type Species struct {
	Name  string
	Types [2]battle.Type
	Stats battle.BaseStats
}

// Move holds the dex data for one move.
type Move struct {
	Name      string
	Type      battle.Type
	Category  battle.MoveCategory
	BasePower int
	Accuracy  float64 // 0-1; always-hit moves report 1
	PP        int
}

// Dex is an immutable lookup table, safe for concurrent use once loaded.
type Dex struct {
	species map[string]Species
	moves   map[string]Move
}

type rawSpecies struct {
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	BaseStats struct {
		HP  int `json:"hp"`
		Atk int `json:"atk"`
		Def int `json:"def"`
		SpA int `json:"spa"`
		SpD int `json:"spd"`
		Spe int `json:"spe"`
	} `json:"baseStats"`
}

type rawMove struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	BasePower int             `json:"basePower"`
	Accuracy  json.RawMessage `json:"accuracy"` // number, or true for always-hit
	PP        int             `json:"pp"`
}

// Load reads pokedex.json and moves.json from a directory.
func Load(dir string) (*Dex, error) {
	d := &Dex{
		species: make(map[string]Species),
		moves:   make(map[string]Move),
	}
	if err := d.loadSpecies(filepath.Join(dir, "pokedex.json")); err != nil {
		return nil, err
	}
	if err := d.loadMoves(filepath.Join(dir, "moves.json")); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dex) loadSpecies(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pokedex: %w", err)
	}
	defer f.Close()

	var raw map[string]rawSpecies
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return fmt.Errorf("decode pokedex: %w", err)
	}
	for _, r := range raw {
		types := [2]battle.Type{battle.TypeNone, battle.TypeNone}
		for i, t := range r.Types {
			if i >= 2 {
				break
			}
			types[i] = battle.TypeFromName(strings.ToLower(t))
		}
		d.species[ToID(r.Name)] = Species{
			Name:  r.Name,
			Types: types,
			Stats: battle.BaseStats{
				HP:  r.BaseStats.HP,
				Atk: r.BaseStats.Atk,
				Def: r.BaseStats.Def,
				SpA: r.BaseStats.SpA,
				SpD: r.BaseStats.SpD,
				Spe: r.BaseStats.Spe,
			},
		}
	}
	return nil
}

func (d *Dex) loadMoves(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open moves: %w", err)
	}
	defer f.Close()

	var raw map[string]rawMove
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return fmt.Errorf("decode moves: %w", err)
	}
	for _, r := range raw {
		d.moves[ToID(r.Name)] = Move{
			Name:      r.Name,
			Type:      battle.TypeFromName(strings.ToLower(r.Type)),
			Category:  categoryFromName(r.Category),
			BasePower: r.BasePower,
			Accuracy:  parseAccuracy(r.Accuracy),
			PP:        r.PP,
		}
	}
	return nil
}

// LookupSpecies resolves a species by name or ID. Unknown species report
// ok=false with a typeless, average-stats placeholder.
func (d *Dex) LookupSpecies(name string) (Species, bool) {
	if d != nil {
		if s, ok := d.species[ToID(name)]; ok {
			return s, true
		}
	}
	return Species{
		Name:  name,
		Types: [2]battle.Type{battle.TypeNone, battle.TypeNone},
		Stats: battle.BaseStats{HP: 80, Atk: 80, Def: 80, SpA: 80, SpD: 80, Spe: 80},
	}, false
}

// LookupMove resolves a move by name or ID. Unknown moves report ok=false
// with the standard power-80 neutral guess.
func (d *Dex) LookupMove(name string) (Move, bool) {
	if d != nil {
		if m, ok := d.moves[ToID(name)]; ok {
			return m, true
		}
	}
	return Move{
		Name:      name,
		Type:      battle.TypeNone,
		Category:  battle.Physical,
		BasePower: 80,
		Accuracy:  1,
		PP:        16,
	}, false
}

// ToID normalizes a display name to a Showdown ID: lowercase with
// everything but letters and digits stripped ("Mr. Mime" -> "mrmime").
func ToID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func categoryFromName(name string) battle.MoveCategory {
	switch name {
	case "Physical":
		return battle.Physical
	case "Special":
		return battle.Special
	default:
		return battle.StatusMove
	}
}

func parseAccuracy(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 1
	}
	var pct float64
	if err := json.Unmarshal(raw, &pct); err == nil {
		return pct / 100
	}
	// accuracy: true means the move cannot miss
	return 1
}
