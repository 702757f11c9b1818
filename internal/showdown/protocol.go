package showdown

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/dex"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Battle tracks one battle room from the bot's perspective. The own side is
// refreshed from |request| payloads; the opponent's side is accumulated from
// protocol events, with species data filled from the dex. Roster order is
// fixed the first time a pokemon is seen and never reshuffles afterwards.
type Battle struct {
	RoomID   string
	Username string

	dex *dex.Dex

	ownID string // "p1" or "p2", set by the |player| line

	own       []battle.PokemonView
	ownIdx    map[string]int // ident -> slot
	opp       []battle.PokemonView
	oppIdx    map[string]int
	ownActive int
	oppActive int

	field      battle.FieldState
	restraints battle.Restraints
	forced     bool
	turn       int
	terminal   bool
	winner     battle.Player

	lastReq      *Request
	lastMoveSlot int    // own active's last used move slot, -1 after switch-in
	activeItem   string // own active's held item, for choice lock detection
}

// NewBattle creates a tracker for one battle room.
func NewBattle(roomID, username string, d *dex.Dex) *Battle {
	return &Battle{
		RoomID:       roomID,
		Username:     username,
		dex:          d,
		ownIdx:       make(map[string]int),
		oppIdx:       make(map[string]int),
		ownActive:    -1,
		oppActive:    -1,
		restraints:   battle.NewRestraints(),
		lastMoveSlot: -1,
	}
}

// Terminal reports whether the battle has ended.
func (b *Battle) Terminal() bool { return b.terminal }

// RQID returns the id of the most recent request, 0 if none seen yet.
func (b *Battle) RQID() int {
	if b.lastReq == nil {
		return 0
	}
	return b.lastReq.RQID
}

// NeedsDecision reports whether the server is waiting on a choice from us.
func (b *Battle) NeedsDecision() bool {
	return b.lastReq != nil && !b.lastReq.Wait && !b.terminal
}

// HandleLine applies one protocol line to the tracked state. Unknown
// message types are ignored.
func (b *Battle) HandleLine(line string) error {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}
	cmd, args := parts[1], parts[2:]

	switch cmd {
	case "player":
		if len(args) >= 2 && args[1] == b.Username {
			b.ownID = args[0]
		}
	case "request":
		if len(args) >= 1 && strings.TrimSpace(args[0]) != "" {
			req, err := ParseRequest(args[0])
			if err != nil {
				return err
			}
			b.applyRequest(req)
		}
	case "switch", "drag", "replace":
		if len(args) >= 2 {
			cond := ""
			if len(args) >= 3 {
				cond = args[2]
			}
			b.handleSwitch(args[0], args[1], cond)
		}
	case "move":
		if len(args) >= 2 {
			b.handleMove(args[0], args[1])
		}
	case "faint":
		if len(args) >= 1 {
			b.handleFaint(args[0])
		}
	case "-damage", "-heal", "-sethp":
		if len(args) >= 2 {
			b.handleHP(args[0], args[1])
		}
	case "-status":
		if len(args) >= 2 {
			if p := b.lookup(args[0]); p != nil {
				p.Status = battle.StatusFromName(args[1])
			}
		}
	case "-curestatus":
		if len(args) >= 1 {
			if p := b.lookup(args[0]); p != nil {
				p.Status = battle.StatusNone
			}
		}
	case "-boost", "-unboost":
		if len(args) >= 3 {
			b.handleBoost(args[0], args[1], args[2], cmd == "-unboost")
		}
	case "-setboost":
		if len(args) >= 3 {
			if p := b.lookup(args[0]); p != nil {
				if stat := battle.BoostStatFromName(args[1]); stat >= 0 {
					n, _ := strconv.Atoi(args[2])
					p.Boosts[stat] = clampStage(n)
				}
			}
		}
	case "-clearboost", "-clearallboost":
		b.clearBoosts(args)
	case "-start":
		if len(args) >= 2 && args[1] == "move: Taunt" && b.isOwn(args[0]) {
			b.restraints.Taunted = true
		}
	case "-end":
		if len(args) >= 2 && args[1] == "move: Taunt" && b.isOwn(args[0]) {
			b.restraints.Taunted = false
		}
	case "-weather":
		if len(args) >= 1 {
			b.field.Weather = battle.WeatherFromName(args[0])
		}
	case "-fieldstart":
		if len(args) >= 1 {
			b.handleField(args[0], true)
		}
	case "-fieldend":
		if len(args) >= 1 {
			b.handleField(args[0], false)
		}
	case "-sidestart":
		if len(args) >= 2 {
			b.handleSide(args[0], args[1], true)
		}
	case "-sideend":
		if len(args) >= 2 {
			b.handleSide(args[0], args[1], false)
		}
	case "turn":
		if len(args) >= 1 {
			if t, err := strconv.Atoi(args[0]); err == nil {
				b.turn = t
				b.field.Turn = t
			}
		}
	case "win":
		b.terminal = true
		if len(args) >= 1 && args[0] == b.Username {
			b.winner = battle.SideSelf
		} else {
			b.winner = battle.SideOpponent
		}
	case "tie":
		b.terminal = true
		b.winner = battle.SideNone
	case "error":
		if len(args) >= 1 {
			log.Warn().Str("room", b.RoomID).Str("error", args[0]).Msg("Battle protocol error")
		}
	}
	return nil
}

// Snapshot assembles the current point-in-time view.
func (b *Battle) Snapshot() *battle.Snapshot {
	snap := &battle.Snapshot{
		Own:          append([]battle.PokemonView(nil), b.own...),
		Opp:          append([]battle.PokemonView(nil), b.opp...),
		OwnActive:    b.ownActive,
		OppActive:    b.oppActive,
		Field:        b.field,
		Restraints:   b.restraints,
		ForcedSwitch: b.forced,
		Turn:         b.turn,
		Terminal:     b.terminal,
		Winner:       b.winner,
	}
	return snap
}

func (b *Battle) applyRequest(req *Request) {
	b.lastReq = req
	b.forced = req.ForcedSwitch()
	if b.ownID == "" {
		b.ownID = req.Side.ID
	}

	for _, rp := range req.Side.Pokemon {
		slot, ok := b.ownIdx[rp.Ident]
		if !ok {
			slot = len(b.own)
			b.ownIdx[rp.Ident] = slot
			b.own = append(b.own, b.newOwnPokemon(&rp))
		}
		p := &b.own[slot]
		p.HP, p.Status, p.Fainted = ParseCondition(rp.Condition)
		p.Active = rp.Active
		if rp.Active {
			b.ownActive = slot
			b.activeItem = rp.Item
		}
	}

	// The request's move options carry exact PP and the engine's disabled
	// verdicts for the active slot.
	if len(req.Active) > 0 && b.ownActive >= 0 {
		opts := req.Active[0]
		b.restraints.Trapped = opts.Trapped
		active := &b.own[b.ownActive]
		active.Moves = make([]battle.MoveView, 0, len(opts.Moves))
		for _, rm := range opts.Moves {
			mv := b.moveView(rm.ID)
			if rm.MaxPP > 0 {
				mv.PPFraction = float64(rm.PP) / float64(rm.MaxPP)
			}
			mv.Disabled = rm.Disabled
			active.Moves = append(active.Moves, mv)
		}
	}
	b.updateChoiceLock()
}

func (b *Battle) newOwnPokemon(rp *RequestPokemon) battle.PokemonView {
	species := rp.Species()
	sp, ok := b.dex.LookupSpecies(species)
	if !ok {
		log.Debug().Str("species", species).Msg("Species missing from dex")
	}
	p := battle.PokemonView{
		Species:  species,
		Types:    sp.Types,
		Stats:    sp.Stats,
		Exists:   true,
		Revealed: true,
	}
	for _, id := range rp.Moves {
		mv := b.moveView(id)
		mv.PPFraction = 1
		p.Moves = append(p.Moves, mv)
	}
	return p
}

func (b *Battle) moveView(id string) battle.MoveView {
	m, _ := b.dex.LookupMove(id)
	return battle.MoveView{
		Name:       m.Name,
		Type:       m.Type,
		Category:   m.Category,
		BasePower:  m.BasePower,
		Accuracy:   m.Accuracy,
		PPFraction: 1,
		Known:      true,
	}
}

func (b *Battle) handleSwitch(ident, details, cond string) {
	side, name := splitIdent(ident)
	if side == b.ownID {
		// Request payloads are authoritative for the own side; the switch
		// line only resets the volatile state.
		if slot, ok := b.ownIdx[b.ownID+": "+name]; ok {
			if b.ownActive >= 0 && b.ownActive != slot {
				b.own[b.ownActive].Active = false
				b.own[b.ownActive].Boosts = [battle.NumBoosts]int{}
			}
			b.ownActive = slot
			b.own[slot].Active = true
			b.own[slot].Boosts = [battle.NumBoosts]int{}
		}
		b.restraints = battle.NewRestraints()
		b.lastMoveSlot = -1
		return
	}

	slot, ok := b.oppIdx[name]
	if !ok {
		species := details
		if i := strings.IndexByte(details, ','); i >= 0 {
			species = details[:i]
		}
		sp, _ := b.dex.LookupSpecies(species)
		slot = len(b.opp)
		b.oppIdx[name] = slot
		b.opp = append(b.opp, battle.PokemonView{
			Species:  species,
			Types:    sp.Types,
			Stats:    sp.Stats,
			Exists:   true,
			Revealed: true,
		})
	}
	if b.oppActive >= 0 && b.oppActive != slot {
		b.opp[b.oppActive].Active = false
		b.opp[b.oppActive].Boosts = [battle.NumBoosts]int{}
	}
	b.oppActive = slot
	p := &b.opp[slot]
	p.Active = true
	p.Boosts = [battle.NumBoosts]int{}
	if cond != "" {
		p.HP, p.Status, p.Fainted = ParseCondition(cond)
	}
}

func (b *Battle) handleMove(ident, moveName string) {
	side, name := splitIdent(ident)
	if side == b.ownID {
		// Remember the slot for choice item locking.
		if b.ownActive >= 0 {
			id := dex.ToID(moveName)
			for i, mv := range b.own[b.ownActive].Moves {
				if dex.ToID(mv.Name) == id {
					b.lastMoveSlot = i
					break
				}
			}
		}
		b.updateChoiceLock()
		return
	}

	slot, ok := b.oppIdx[name]
	if !ok {
		return
	}
	p := &b.opp[slot]
	id := dex.ToID(moveName)
	for i := range p.Moves {
		if dex.ToID(p.Moves[i].Name) == id {
			m, _ := b.dex.LookupMove(id)
			if m.PP > 0 {
				p.Moves[i].PPFraction -= 1 / float64(m.PP)
				if p.Moves[i].PPFraction < 0 {
					p.Moves[i].PPFraction = 0
				}
			}
			return
		}
	}
	if len(p.Moves) < 4 {
		mv := b.moveView(id)
		m, _ := b.dex.LookupMove(id)
		if m.PP > 0 {
			mv.PPFraction = 1 - 1/float64(m.PP)
		}
		p.Moves = append(p.Moves, mv)
	}
}

func (b *Battle) handleFaint(ident string) {
	if p := b.lookup(ident); p != nil {
		p.HP = 0
		p.Status = battle.StatusFaint
		p.Fainted = true
	}
}

func (b *Battle) handleHP(ident, cond string) {
	if p := b.lookup(ident); p != nil {
		p.HP, p.Status, p.Fainted = ParseCondition(cond)
	}
}

func (b *Battle) handleBoost(ident, statName, amount string, negate bool) {
	p := b.lookup(ident)
	if p == nil {
		return
	}
	stat := battle.BoostStatFromName(statName)
	if stat < 0 {
		return
	}
	n, err := strconv.Atoi(amount)
	if err != nil {
		return
	}
	if negate {
		n = -n
	}
	p.Boosts[stat] = clampStage(p.Boosts[stat] + n)
}

func (b *Battle) clearBoosts(args []string) {
	if len(args) >= 1 {
		if p := b.lookup(args[0]); p != nil {
			p.Boosts = [battle.NumBoosts]int{}
		}
		return
	}
	if b.ownActive >= 0 {
		b.own[b.ownActive].Boosts = [battle.NumBoosts]int{}
	}
	if b.oppActive >= 0 {
		b.opp[b.oppActive].Boosts = [battle.NumBoosts]int{}
	}
}

func (b *Battle) handleField(effect string, start bool) {
	effect = strings.TrimPrefix(effect, "move: ")
	if effect == "Trick Room" {
		b.field.TrickRoom = start
		return
	}
	if t := battle.TerrainFromName(effect); t != battle.TerrainNone {
		if start {
			b.field.Terrain = t
		} else if b.field.Terrain == t {
			b.field.Terrain = battle.TerrainNone
		}
	}
}

func (b *Battle) handleSide(sideArg, effect string, start bool) {
	sideID := sideArg
	if i := strings.IndexByte(sideArg, ':'); i >= 0 {
		sideID = sideArg[:i]
	}
	side := &b.field.OppSide
	if sideID == b.ownID {
		side = &b.field.OwnSide
	}
	switch strings.TrimPrefix(effect, "move: ") {
	case "Reflect":
		side.Reflect = start
	case "Light Screen":
		side.LightScreen = start
	case "Aurora Veil":
		side.AuroraVeil = start
	}
}

func (b *Battle) updateChoiceLock() {
	if strings.HasPrefix(strings.ToLower(b.activeItem), "choice") && b.lastMoveSlot >= 0 {
		b.restraints.ChoiceLock = b.lastMoveSlot
	} else {
		b.restraints.ChoiceLock = -1
	}
}

func (b *Battle) isOwn(ident string) bool {
	side, _ := splitIdent(ident)
	return side == b.ownID
}

// lookup resolves a protocol ident ("p2a: Garchomp") to the tracked view.
func (b *Battle) lookup(ident string) *battle.PokemonView {
	side, name := splitIdent(ident)
	if side == b.ownID {
		if slot, ok := b.ownIdx[b.ownID+": "+name]; ok {
			return &b.own[slot]
		}
		return nil
	}
	if slot, ok := b.oppIdx[name]; ok {
		return &b.opp[slot]
	}
	return nil
}

// splitIdent splits "p2a: Garchomp" into side id ("p2") and name.
func splitIdent(ident string) (side, name string) {
	i := strings.IndexByte(ident, ':')
	if i < 0 {
		return ident, ""
	}
	side = ident[:i]
	name = strings.TrimSpace(ident[i+1:])
	// Strip the position letter: "p1a" -> "p1".
	if len(side) == 3 {
		side = side[:2]
	}
	return side, name
}

func clampStage(n int) int {
	if n > 6 {
		return 6
	}
	if n < -6 {
		return -6
	}
	return n
}
