package showdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/dex"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Adapter drives one battle at a time over a client connection and exposes
// it as a reset/step environment. Decisions are surfaced as snapshots; the
// caller picks an action index and Step translates it into a choice command.
type Adapter struct {
	client *Client
	dex    *dex.Dex
	format string

	// Opponent switches Reset from ladder search to a direct challenge.
	// AutoAccept answers incoming challenges, for the receiving side.
	Opponent   string
	AutoAccept bool

	battle    *Battle
	actedRQID int
}

// NewAdapter wraps a connected client for the given ladder format.
func NewAdapter(client *Client, d *dex.Dex, format string) *Adapter {
	return &Adapter{client: client, dex: d, format: format}
}

// Room returns the current battle room, empty before the first Reset.
func (a *Adapter) Room() string {
	if a.battle == nil {
		return ""
	}
	return a.battle.RoomID
}

// Reset queues for a new battle and blocks until the first decision point.
func (a *Adapter) Reset(ctx context.Context) (*battle.Snapshot, error) {
	if a.battle != nil && !a.battle.Terminal() {
		if err := a.client.Forfeit(a.battle.RoomID); err != nil {
			return nil, err
		}
	}
	if a.battle != nil {
		a.client.LeaveRoom(a.battle.RoomID)
	}
	a.battle = nil
	a.actedRQID = 0

	if a.Opponent != "" {
		if err := a.client.Challenge(a.Opponent, a.format); err != nil {
			return nil, fmt.Errorf("challenge %s: %w", a.Opponent, err)
		}
	} else if !a.AutoAccept {
		if err := a.client.Search(a.format); err != nil {
			return nil, fmt.Errorf("search %s: %w", a.format, err)
		}
	}
	return a.awaitDecision(ctx)
}

// Step submits the chosen action and blocks until the next decision point
// or the end of the battle. Illegal actions fail before anything is sent.
func (a *Adapter) Step(ctx context.Context, action int) (*battle.Snapshot, error) {
	if a.battle == nil {
		return nil, fmt.Errorf("no active battle")
	}
	snap := a.battle.Snapshot()
	if err := rl.ValidateAction(rl.ComputeMask(snap), action); err != nil {
		return nil, err
	}
	choice, err := a.choiceFor(snap, action)
	if err != nil {
		return nil, err
	}
	rqid := a.battle.RQID()
	if err := a.client.Choose(a.battle.RoomID, choice, rqid); err != nil {
		return nil, fmt.Errorf("choose %q: %w", choice, err)
	}
	a.actedRQID = rqid
	return a.awaitDecision(ctx)
}

// Close tears down the connection.
func (a *Adapter) Close() error {
	a.client.Close()
	return nil
}

// choiceFor maps an action index onto the simulator's choice syntax. Switch
// targets are numbered by the latest request's roster ordering, which the
// server reshuffles to put the active slot first.
func (a *Adapter) choiceFor(snap *battle.Snapshot, action int) (string, error) {
	if action < rl.MoveActions {
		return fmt.Sprintf("move %d", action+1), nil
	}

	reserve := action - rl.MoveActions
	slot := -1
	seen := 0
	for i := range snap.Own {
		if i == snap.OwnActive {
			continue
		}
		if seen == reserve {
			slot = i
			break
		}
		seen++
	}
	if slot < 0 {
		return "", fmt.Errorf("switch target %d out of range", reserve)
	}

	ident := ""
	for id, s := range a.battle.ownIdx {
		if s == slot {
			ident = id
			break
		}
	}
	if a.battle.lastReq != nil {
		for i, rp := range a.battle.lastReq.Side.Pokemon {
			if rp.Ident == ident {
				return fmt.Sprintf("switch %d", i+1), nil
			}
		}
	}
	return "", fmt.Errorf("switch target %q missing from request", ident)
}

// awaitDecision pumps protocol messages until the battle needs a choice or
// ends. A decision is ready when a turn boundary or a forced switch arrives
// with a request newer than the last one acted on.
func (a *Adapter) awaitDecision(ctx context.Context) (*battle.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-a.client.Messages():
			if !ok {
				return nil, fmt.Errorf("connection lost")
			}
			snap, ready := a.process(msg)
			if ready {
				return snap, nil
			}
		}
	}
}

func (a *Adapter) process(msg Message) (*battle.Snapshot, bool) {
	if a.battle == nil {
		if a.AutoAccept && msg.Room == "" {
			if from, ok := challengeSender(msg.Line, a.client.Username()); ok {
				if err := a.client.AcceptChallenge(from); err != nil {
					log.Warn().Err(err).Str("from", from).Msg("Challenge accept failed")
				}
			}
			return nil, false
		}
		if strings.HasPrefix(msg.Room, "battle-") {
			a.battle = NewBattle(msg.Room, a.client.Username(), a.dex)
			log.Info().Str("room", msg.Room).Msg("Battle started")
		} else {
			return nil, false
		}
	}
	if msg.Room != a.battle.RoomID {
		return nil, false
	}

	if err := a.battle.HandleLine(msg.Line); err != nil {
		log.Warn().Err(err).Str("room", msg.Room).Msg("Bad protocol line")
		return nil, false
	}

	if a.battle.Terminal() {
		return a.battle.Snapshot(), true
	}
	if !a.battle.NeedsDecision() || a.battle.RQID() <= a.actedRQID {
		return nil, false
	}
	// Requests precede the simulation lines that resolve the previous turn,
	// so move decisions hold until the turn marker. Forced switches have no
	// turn boundary and release immediately.
	if strings.HasPrefix(msg.Line, "|turn|") || a.battle.forced {
		return a.battle.Snapshot(), true
	}
	return nil, false
}

// challengeSender extracts the challenger's name from a challenge private
// message ("|pm| rival| rlbot|/challenge gen9randombattle").
func challengeSender(line, self string) (string, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 5 || parts[1] != "pm" || !strings.HasPrefix(parts[4], "/challenge") {
		return "", false
	}
	from := strings.TrimSpace(strings.TrimLeft(parts[2], " +%@#&~*"))
	if from == "" || from == self {
		return "", false
	}
	return from, true
}
