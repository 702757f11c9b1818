// Package episode drives battles end to end: it pumps snapshots out of an
// environment, asks a strategy for actions, scores the transitions, and
// hands finished trajectories to a sink.
package episode

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/bot"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/logger"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// Environment is one battle provider. Reset starts a fresh battle and
// blocks until the first decision; Step submits an action and blocks until
// the next decision or the terminal snapshot.
type Environment interface {
	Reset(ctx context.Context) (*battle.Snapshot, error)
	Step(ctx context.Context, action int) (*battle.Snapshot, error)
	Close() error
}

// RoomNamer is implemented by environments that know their battle room.
type RoomNamer interface {
	Room() string
}

// Sink receives finished trajectories.
type Sink interface {
	PushEpisode(ctx context.Context, ep *model.EpisodeRecord) error
}

// Runner runs episodes over one environment.
type Runner struct {
	env      Environment
	strategy bot.Strategy
	sink     Sink

	Format        string
	Username      string
	ModelVersion  string
	EncoderConfig rl.EncoderConfig
	RewardConfig  rl.RewardConfig

	// KeepTruncated flushes interrupted episodes to the sink with the
	// truncated marker set instead of discarding them.
	KeepTruncated bool
}

// NewRunner wires an environment, a strategy, and an optional sink.
func NewRunner(env Environment, strategy bot.Strategy, sink Sink) *Runner {
	return &Runner{
		env:           env,
		strategy:      strategy,
		sink:          sink,
		EncoderConfig: rl.DefaultEncoderConfig(),
		RewardConfig:  rl.DefaultRewardConfig(),
	}
}

// RunEpisode plays one battle to completion. The returned record is already
// flushed to the sink unless the episode was truncated and KeepTruncated is
// off, in which case it is discarded and the interrupting error returned.
func (r *Runner) RunEpisode(ctx context.Context) (*model.EpisodeRecord, error) {
	snap, err := r.env.Reset(ctx)
	if err != nil {
		return nil, err
	}

	ep := &model.EpisodeRecord{
		ID:        uuid.NewString(),
		Format:    r.Format,
		Username:  r.Username,
		Strategy:  r.strategy.Name(),
		StartedAt: time.Now().UTC(),
	}
	if rn, ok := r.env.(RoomNamer); ok {
		ep.Room = rn.Room()
	}
	ep.ModelVersion = r.ModelVersion
	ctx = logger.WithBattleID(ctx, ep.Room)

	for !snap.Terminal {
		obs, err := rl.Encode(snap, r.EncoderConfig)
		if err != nil {
			return r.finish(ctx, ep, err)
		}
		mask := rl.ComputeMask(snap)
		action, err := r.strategy.ChooseAction(snap, mask)
		if err != nil {
			return r.finish(ctx, ep, err)
		}

		next, err := r.env.Step(ctx, action)
		if err != nil {
			var illegal *rl.IllegalActionError
			if errors.As(err, &illegal) {
				lg := logger.ForBattle(ctx)
				lg.Error().Str("episode", ep.ID).
					Str("action", rl.ActionName(illegal.Action)).
					Msg("Strategy chose illegal action")
			}
			return r.finish(ctx, ep, err)
		}

		ep.Steps = append(ep.Steps, model.StepRecord{
			Turn:        snap.Turn,
			Observation: obs,
			Mask:        mask[:],
			Action:      action,
			Reward:      rl.Reward(snap, next, next.Terminal, next.Winner, r.RewardConfig),
		})
		snap = next
	}

	ep.Won = snap.Winner == battle.SideSelf
	return r.finish(ctx, ep, nil)
}

// Run plays episodes until the count is reached or the context ends.
func (r *Runner) Run(ctx context.Context, episodes int) error {
	for i := 0; episodes <= 0 || i < episodes; i++ {
		ep, err := r.RunEpisode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Msg("Episode aborted")
			continue
		}
		log.Info().Str("episode", ep.ID).Str("room", ep.Room).
			Bool("won", ep.Won).Int("steps", len(ep.Steps)).
			Float64("reward", ep.TotalReward).Msg("Episode finished")
	}
	return nil
}

// finish totals the rewards, marks truncation, and flushes to the sink.
func (r *Runner) finish(ctx context.Context, ep *model.EpisodeRecord, cause error) (*model.EpisodeRecord, error) {
	ep.FinishedAt = time.Now().UTC()
	for _, s := range ep.Steps {
		ep.TotalReward += s.Reward
	}
	if cause != nil {
		ep.Truncated = true
		if !r.KeepTruncated {
			return nil, cause
		}
	}
	if r.sink != nil {
		if err := r.sink.PushEpisode(ctx, ep); err != nil {
			log.Error().Err(err).Str("episode", ep.ID).Msg("Sink push failed")
			if cause == nil {
				cause = err
			}
		}
	}
	return ep, cause
}
