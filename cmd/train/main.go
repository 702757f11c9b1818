// Command train runs concurrent battle workers that fill the trajectory
// buffer: each worker logs into the simulator, plays episodes with the
// configured strategy, and pushes finished trajectories to Redis, with
// battle summaries archived to Postgres when configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/bot"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/config"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/dex"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/episode"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/logger"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/repository/postgres"
	redisrepo "github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/repository/redis"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/showdown"
)

func main() {
	strategyName := flag.String("strategy", "heuristic", "strategy for the workers (random, heuristic, neural)")
	flag.Parse()

	logger.Init()
	cfg := config.Load()
	bot.GonnxModelPath = cfg.ModelPath

	d, err := dex.Load(cfg.DexPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.DexPath).
			Msg("Dex load failed, species data degrades to defaults")
	}

	buffer, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer buffer.Close()

	sink := &trainSink{buffer: buffer}
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		sink.battles = postgres.NewBattleRepo(db)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down")
		cancel()
	}()

	modelVersion, err := buffer.ModelVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Model version lookup failed")
	}

	factory := func(worker int) (*episode.Runner, error) {
		username := fmt.Sprintf("%s-w%d", cfg.Username, worker)
		client := showdown.NewClient(cfg.ServerURL, cfg.LoginURL, username, cfg.Password)
		if err := client.Connect(); err != nil {
			return nil, err
		}
		if err := client.WaitLogin(30 * time.Second); err != nil {
			client.Close()
			return nil, err
		}

		env := showdown.NewAdapter(client, d, cfg.BattleFormat)
		r := episode.NewRunner(env, bot.StrategyForName(*strategyName), sink)
		r.Format = cfg.BattleFormat
		r.Username = username
		r.ModelVersion = modelVersion
		r.EncoderConfig = cfg.Encoder
		r.RewardConfig = cfg.Reward
		r.KeepTruncated = cfg.KeepTruncated
		return r, nil
	}

	log.Info().Int("workers", cfg.Workers).Int("battles", cfg.Battles).
		Str("strategy", *strategyName).Str("format", cfg.BattleFormat).
		Msg("Starting battle workers")

	pool := episode.NewPool(factory, cfg.Workers)
	if err := pool.Run(ctx, cfg.Battles); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Worker pool failed")
	}

	if n, err := buffer.Len(context.Background()); err == nil {
		log.Info().Int64("queued", n).Msg("Training run finished")
	}
}

// trainSink pushes trajectories to the buffer and archives summaries.
type trainSink struct {
	buffer  *redisrepo.Client
	battles *postgres.BattleRepo
}

func (s *trainSink) PushEpisode(ctx context.Context, ep *model.EpisodeRecord) error {
	if err := s.buffer.PushEpisode(ctx, ep); err != nil {
		return err
	}
	if s.battles != nil {
		summary := ep.Summary()
		if err := s.battles.Insert(ctx, &summary); err != nil {
			return err
		}
	}
	return nil
}
