package showdown

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Request is the decision payload the simulator sends before each choice.
// It is the authoritative source for the own side: exact PP, items, full
// rosters, and the server's own legality verdicts (trapped, disabled,
// forced switch).
type Request struct {
	Active      []ActiveOptions `json:"active"`
	Side        SideInfo        `json:"side"`
	ForceSwitch []bool          `json:"forceSwitch"`
	Wait        bool            `json:"wait"`
	TeamPreview bool            `json:"teamPreview"`
	RQID        int             `json:"rqid"`
}

// ActiveOptions lists the move choices for one active slot.
type ActiveOptions struct {
	Moves   []RequestMove `json:"moves"`
	Trapped bool          `json:"trapped"`
}

// RequestMove is one selectable move with its remaining PP.
type RequestMove struct {
	Move     string `json:"move"`
	ID       string `json:"id"`
	PP       int    `json:"pp"`
	MaxPP    int    `json:"maxpp"`
	Disabled bool   `json:"disabled"`
}

// SideInfo is the request's view of the own roster.
type SideInfo struct {
	Name    string           `json:"name"`
	ID      string           `json:"id"`
	Pokemon []RequestPokemon `json:"pokemon"`
}

// RequestPokemon is one own-side roster entry.
type RequestPokemon struct {
	Ident       string          `json:"ident"`   // "p1: Charizard"
	Details     string          `json:"details"` // "Charizard, L82, M"
	Condition   string          `json:"condition"`
	Active      bool            `json:"active"`
	Stats       map[string]int  `json:"stats"`
	Moves       []string        `json:"moves"`
	BaseAbility string          `json:"baseAbility"`
	Item        string          `json:"item"`
	Ability     string          `json:"ability"`
	TeraType    json.RawMessage `json:"teraType"`
}

// ParseRequest decodes the JSON payload of a |request| line.
func ParseRequest(payload string) (*Request, error) {
	var req Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

// ForcedSwitch reports whether the request demands a switch for slot 0.
func (r *Request) ForcedSwitch() bool {
	return len(r.ForceSwitch) > 0 && r.ForceSwitch[0]
}

// Species extracts the species name from a details string
// ("Charizard, L82, M" -> "Charizard").
func (p *RequestPokemon) Species() string {
	if i := strings.IndexByte(p.Details, ','); i >= 0 {
		return p.Details[:i]
	}
	return p.Details
}

// ParseCondition splits a protocol condition string ("211/280", "0 fnt",
// "150/300 brn") into an HP fraction and a status.
func ParseCondition(cond string) (hp float64, status battle.Status, fainted bool) {
	cond = strings.TrimSpace(cond)
	statusTok := ""
	if i := strings.IndexByte(cond, ' '); i >= 0 {
		statusTok = cond[i+1:]
		cond = cond[:i]
	}
	if statusTok == "fnt" {
		return 0, battle.StatusFaint, true
	}

	cur, max := cond, ""
	if i := strings.IndexByte(cond, '/'); i >= 0 {
		cur, max = cond[:i], cond[i+1:]
	}
	c, err := strconv.ParseFloat(cur, 64)
	if err != nil {
		return 1, battle.StatusNone, false
	}
	if c <= 0 {
		return 0, battle.StatusFaint, true
	}
	m := 100.0
	if max != "" {
		if parsed, err := strconv.ParseFloat(max, 64); err == nil && parsed > 0 {
			m = parsed
		}
	}
	hp = c / m
	if hp > 1 {
		hp = 1
	}
	return hp, battle.StatusFromName(statusTok), false
}
