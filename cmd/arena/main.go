// Command arena evaluates two strategies head to head on a local simulator:
// the agent challenges the opponent directly, plays a series of battles,
// and reports win-rate and reward statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/bot"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/config"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/dex"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/episode"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/logger"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/model"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/showdown"
)

func main() {
	battles := flag.Int("n", 20, "number of evaluation battles")
	agentName := flag.String("agent", "neural", "agent strategy (random, heuristic, neural)")
	opponentName := flag.String("opponent", "heuristic", "opponent strategy")
	flag.Parse()

	logger.Init()
	cfg := config.Load()
	bot.GonnxModelPath = cfg.ModelPath

	d, err := dex.Load(cfg.DexPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.DexPath).
			Msg("Dex load failed, species data degrades to defaults")
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

	agentUser := cfg.Username + "-agent"
	oppUser := cfg.Username + "-opp"

	agentRunner, err := connectRunner(cfg, d, agentUser, *agentName, oppUser, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Agent setup failed")
	}
	oppRunner, err := connectRunner(cfg, d, oppUser, *opponentName, "", true)
	if err != nil {
		log.Fatal().Err(err).Msg("Opponent setup failed")
	}

	// The opponent side accepts challenges and plays until cancelled.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := oppRunner.Run(ctx, 0); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("Opponent loop ended")
		}
	}()

	var episodes []*model.EpisodeRecord
	for i := 0; i < *battles && ctx.Err() == nil; i++ {
		ep, err := agentRunner.RunEpisode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn().Err(err).Msg("Battle aborted")
			continue
		}
		episodes = append(episodes, ep)
		log.Info().Str("room", ep.Room).Bool("won", ep.Won).
			Float64("reward", ep.TotalReward).Msgf("Battle %d/%d", len(episodes), *battles)
	}
	cancel()
	wg.Wait()

	report(*agentName, *opponentName, episodes)
}

func connectRunner(cfg *config.Config, d *dex.Dex, username, strategyName, opponent string, accept bool) (*episode.Runner, error) {
	client := showdown.NewClient(cfg.ServerURL, cfg.LoginURL, username, cfg.Password)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	if err := client.WaitLogin(30 * time.Second); err != nil {
		client.Close()
		return nil, err
	}

	env := showdown.NewAdapter(client, d, cfg.BattleFormat)
	env.Opponent = opponent
	env.AutoAccept = accept

	r := episode.NewRunner(env, bot.StrategyForName(strategyName), nil)
	r.Format = cfg.BattleFormat
	r.Username = username
	r.EncoderConfig = cfg.Encoder
	r.RewardConfig = cfg.Reward
	return r, nil
}

func report(agent, opponent string, episodes []*model.EpisodeRecord) {
	if len(episodes) == 0 {
		log.Warn().Msg("No battles completed")
		return
	}

	rewards := make([]float64, len(episodes))
	turns := make([]float64, len(episodes))
	wins := 0
	for i, ep := range episodes {
		rewards[i] = ep.TotalReward
		if n := len(ep.Steps); n > 0 {
			turns[i] = float64(ep.Steps[n-1].Turn)
		}
		if ep.Won {
			wins++
		}
	}

	winRate := float64(wins) / float64(len(episodes))
	fmt.Printf("%s vs %s over %d battles\n", agent, opponent, len(episodes))
	fmt.Printf("  win rate:    %.1f%% (%d-%d)\n", 100*winRate, wins, len(episodes)-wins)
	fmt.Printf("  mean reward: %.3f (stddev %.3f)\n", stat.Mean(rewards, nil), stat.StdDev(rewards, nil))
	fmt.Printf("  mean turns:  %.1f\n", stat.Mean(turns, nil))
}
