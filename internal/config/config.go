package config

import (
	"os"
	"strconv"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	// ServerURL is the Showdown websocket endpoint. The default targets a
	// local simulator started with `node pokemon-showdown start --no-security`.
	ServerURL    string
	LoginURL     string // action.php endpoint for challstr authentication
	Username     string
	Password     string // empty for unregistered names on a local server
	BattleFormat string

	ModelPath         string // directory holding policy.onnx
	OpponentModelPath string // frozen self-play opponent, empty = heuristic
	DexPath           string // directory holding pokedex.json and moves.json

	RedisURL    string
	DatabaseURL string

	Workers int // concurrent episodes
	Battles int // episodes to run before exiting; 0 = unbounded

	// KeepTruncated flushes interrupted trajectories with a truncated
	// marker instead of discarding them.
	KeepTruncated bool

	Reward  rl.RewardConfig
	Encoder rl.EncoderConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ServerURL:    envOrDefault("SHOWDOWN_URL", "ws://localhost:8000/showdown/websocket"),
		LoginURL:     envOrDefault("SHOWDOWN_LOGIN_URL", "https://play.pokemonshowdown.com/action.php"),
		Username:     envOrDefault("SHOWDOWN_USER", "rlbot"),
		Password:     os.Getenv("SHOWDOWN_PASS"),
		BattleFormat: envOrDefault("BATTLE_FORMAT", "gen9randombattle"),

		ModelPath:         envOrDefault("MODEL_PATH", "models"),
		OpponentModelPath: os.Getenv("OPPONENT_MODEL_PATH"),
		DexPath:           envOrDefault("DEX_PATH", "data"),

		RedisURL:    envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Workers:       envIntOrDefault("WORKERS", 4),
		Battles:       envIntOrDefault("BATTLES", 0),
		KeepTruncated: os.Getenv("KEEP_TRUNCATED") == "true",

		Reward:  rewardFromEnv(),
		Encoder: rl.DefaultEncoderConfig(),
	}
}

// rewardFromEnv overlays the default shaping coefficients with any
// REWARD_* overrides.
func rewardFromEnv() rl.RewardConfig {
	cfg := rl.DefaultRewardConfig()
	cfg.Win = envFloatOrDefault("REWARD_WIN", cfg.Win)
	cfg.Lose = envFloatOrDefault("REWARD_LOSE", cfg.Lose)
	cfg.OppFaint = envFloatOrDefault("REWARD_OPP_FAINT", cfg.OppFaint)
	cfg.OwnFaint = envFloatOrDefault("REWARD_OWN_FAINT", cfg.OwnFaint)
	cfg.HPDeltaScale = envFloatOrDefault("REWARD_HP_DELTA_SCALE", cfg.HPDeltaScale)
	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
