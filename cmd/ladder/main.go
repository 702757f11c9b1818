// Command ladder plays ranked battles on a Showdown ladder with a trained
// policy, logging per-battle results and the running win rate.
package main

import (
	"context"
	"flag"
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
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/showdown"
)

func main() {
	battles := flag.Int("n", 10, "number of ladder battles to play")
	strategyName := flag.String("strategy", "neural", "strategy (random, heuristic, neural)")
	flag.Parse()

	logger.Init()
	cfg := config.Load()
	bot.GonnxModelPath = cfg.ModelPath

	d, err := dex.Load(cfg.DexPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.DexPath).
			Msg("Dex load failed, species data degrades to defaults")
	}

	client := showdown.NewClient(cfg.ServerURL, cfg.LoginURL, cfg.Username, cfg.Password)
	if err := client.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Connect failed")
	}
	if err := client.WaitLogin(30 * time.Second); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down")
		cancel()
	}()

	env := showdown.NewAdapter(client, d, cfg.BattleFormat)
	r := episode.NewRunner(env, bot.StrategyForName(*strategyName), nil)
	r.Format = cfg.BattleFormat
	r.Username = cfg.Username
	r.EncoderConfig = cfg.Encoder
	r.RewardConfig = cfg.Reward

	wins, played := 0, 0
	for i := 0; i < *battles && ctx.Err() == nil; i++ {
		ep, err := r.RunEpisode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn().Err(err).Msg("Battle aborted")
			continue
		}
		played++
		if ep.Won {
			wins++
		}
		log.Info().Str("room", ep.Room).Bool("won", ep.Won).
			Int("steps", len(ep.Steps)).Float64("reward", ep.TotalReward).
			Msgf("Battle %d/%d", played, *battles)
	}

	if played > 0 {
		log.Info().Int("wins", wins).Int("played", played).
			Float64("winRate", float64(wins)/float64(played)).
			Msg("Ladder session finished")
	}
}
