// Package repository defines the storage interfaces between the episode
// loop, the trajectory buffer, and the battle archive.
package repository

import (
	"context"
	"time"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
)

// TrajectoryBuffer is the queue between battle workers and the trainer.
// Workers push finished episodes; the trainer pops them in FIFO order.
type TrajectoryBuffer interface {
	PushEpisode(ctx context.Context, ep *model.EpisodeRecord) error
	PopEpisode(ctx context.Context, timeout time.Duration) (*model.EpisodeRecord, error)
	Len(ctx context.Context) (int64, error)
}

// ModelRegistry tracks the deployed policy version so self-play workers
// know when to reload their opponent.
type ModelRegistry interface {
	SetModelVersion(ctx context.Context, version string) error
	ModelVersion(ctx context.Context) (string, error)
}

// BattleRepository archives per-battle summaries for win-rate tracking.
type BattleRepository interface {
	Insert(ctx context.Context, b *model.BattleRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.BattleRecord, error)
	WinRate(ctx context.Context, modelVersion string, since time.Time) (wins, total int, err error)
}
