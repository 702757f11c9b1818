// Package model holds the serialized records shared by the repositories
// and the training loop.
package model

import "time"

// StepRecord is one decision point of an episode: what the agent saw, what
// it was allowed to do, what it did, and what it got for it.
type StepRecord struct {
	Turn        int       `json:"turn"`
	Observation []float32 `json:"observation"`
	Mask        []bool    `json:"mask"`
	Action      int       `json:"action"`
	Reward      float64   `json:"reward"`
}

// EpisodeRecord is one complete battle trajectory. The trainer consumes
// these from the trajectory buffer.
type EpisodeRecord struct {
	ID           string       `json:"id"`
	Room         string       `json:"room"`
	Format       string       `json:"format"`
	Username     string       `json:"username"`
	Strategy     string       `json:"strategy"`
	ModelVersion string       `json:"model_version,omitempty"`
	Steps        []StepRecord `json:"steps"`
	TotalReward  float64      `json:"total_reward"`
	Won          bool         `json:"won"`
	Truncated    bool         `json:"truncated"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
}

// BattleRecord is the per-battle summary row kept for win-rate tracking.
type BattleRecord struct {
	ID           string    `json:"id"`
	Room         string    `json:"room"`
	Format       string    `json:"format"`
	Strategy     string    `json:"strategy"`
	ModelVersion string    `json:"model_version,omitempty"`
	Won          bool      `json:"won"`
	Truncated    bool      `json:"truncated"`
	Turns        int       `json:"turns"`
	TotalReward  float64   `json:"total_reward"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Summary converts an episode into its battle summary row.
func (e *EpisodeRecord) Summary() BattleRecord {
	turns := 0
	if n := len(e.Steps); n > 0 {
		turns = e.Steps[n-1].Turn
	}
	return BattleRecord{
		ID:           e.ID,
		Room:         e.Room,
		Format:       e.Format,
		Strategy:     e.Strategy,
		ModelVersion: e.ModelVersion,
		Won:          e.Won,
		Truncated:    e.Truncated,
		Turns:        turns,
		TotalReward:  e.TotalReward,
		StartedAt:    e.StartedAt,
		FinishedAt:   e.FinishedAt,
	}
}
