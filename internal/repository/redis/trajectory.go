package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
)

// Key layout for the training pipeline.
const (
	episodesKey     = "rl:episodes"
	modelVersionKey = "rl:model_version"
)

// PushEpisode appends a finished episode to the trajectory queue.
func (c *Client) PushEpisode(ctx context.Context, ep *model.EpisodeRecord) error {
	data, err := json.Marshal(ep)
	if err != nil {
		return fmt.Errorf("marshal episode: %w", err)
	}
	return c.rdb.LPush(ctx, episodesKey, data).Err()
}

// PopEpisode blocks up to timeout for the oldest queued episode. A nil
// record with a nil error means the timeout elapsed with an empty queue.
func (c *Client) PopEpisode(ctx context.Context, timeout time.Duration) (*model.EpisodeRecord, error) {
	vals, err := c.rdb.BRPop(ctx, timeout, episodesKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop episode: %w", err)
	}
	// BRPop returns [key, value].
	var ep model.EpisodeRecord
	if err := json.Unmarshal([]byte(vals[1]), &ep); err != nil {
		return nil, fmt.Errorf("unmarshal episode: %w", err)
	}
	return &ep, nil
}

// Len returns the number of queued episodes.
func (c *Client) Len(ctx context.Context) (int64, error) {
	return c.rdb.LLen(ctx, episodesKey).Result()
}

// SetModelVersion publishes the deployed policy version.
func (c *Client) SetModelVersion(ctx context.Context, version string) error {
	return c.rdb.Set(ctx, modelVersionKey, version, 0).Err()
}

// ModelVersion returns the deployed policy version, empty if unset.
func (c *Client) ModelVersion(ctx context.Context) (string, error) {
	v, err := c.rdb.Get(ctx, modelVersionKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get model version: %w", err)
	}
	return v, nil
}
