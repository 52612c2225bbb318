package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjackforbots/internal/config"
	"github.com/lox/blackjackforbots/internal/display"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/monitor"
	"github.com/lox/blackjackforbots/internal/simulator"
)

type CLI struct {
	Shoes      int     `default:"1000" help:"Number of shoes to simulate"`
	Workers    int     `default:"1" help:"Parallel workers, each with a private learner replica"`
	Config     string  `default:"blackjack.hcl" help:"HCL config file (players and rules)"`
	Epsilon    float64 `default:"0.2" help:"Exploration rate for learned strategies"`
	Gamma      float64 `default:"1.0" help:"Reward discount per decision step"`
	Seed       int64   `default:"0" help:"RNG seed (0 for random)"`
	Listen     string  `help:"Serve round events over WebSocket on this address"`
	Chart      bool    `help:"Print learned decision charts after the run"`
	Checkpoint string  `help:"Write learned tables to this JSON file after the run"`
	Verbose    bool    `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	kctx.FatalIfErrorf(run(cli, logger))
	kctx.Exit(0)
}

func run(cli CLI, logger *log.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rules := buildRules(cfg.Rules)
	players := buildPlayers(cfg.Players, rules)

	simCfg := simulator.Config{
		Shoes:         cli.Shoes,
		Rules:         rules,
		Players:       players,
		Epsilon:       cli.Epsilon,
		Gamma:         cli.Gamma,
		Seed:          cli.Seed,
		Workers:       cli.Workers,
		ProgressEvery: progressInterval(cli.Shoes),
		Logger:        logger,
	}

	if cli.Listen != "" {
		mon := monitor.New(cli.Listen, logger)
		mon.Start()
		defer mon.Close()
		simCfg.Subscribers = append(simCfg.Subscribers, mon)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Simulating %d shoes (%d decks, seed %d, %d workers)\n",
		cli.Shoes, rules.Decks, cli.Seed, max(cli.Workers, 1))

	start := time.Now()
	result, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}
	printResults(result, time.Since(start))

	if cli.Chart {
		fmt.Println()
		fmt.Println(display.RenderHardChart(result.Learner))
		fmt.Println(display.RenderPairChart(result.Learner))
	}

	if cli.Checkpoint != "" {
		if err := result.Learner.WriteCheckpoint(cli.Checkpoint); err != nil {
			return err
		}
		logger.Info("checkpoint written", "path", cli.Checkpoint)
	}
	return nil
}

func buildRules(rc *config.RulesConfig) game.Rules {
	rules := game.DefaultRules()
	if rc == nil {
		return rules
	}
	if rc.Decks > 0 {
		rules.Decks = rc.Decks
	}
	if rc.CutCardDepth > 0 {
		rules.CutCardDepth = rc.CutCardDepth
	}
	if rc.MaxSpots > 0 {
		rules.MaxSpots = rc.MaxSpots
	}
	if rc.MaxResplit > 0 {
		rules.MaxResplit = rc.MaxResplit
	}
	if rc.Bet > 0 {
		rules.DefaultBet = rc.Bet
	}
	if rc.Stake > 0 {
		rules.DefaultStake = rc.Stake
	}
	rules.DealerHitsSoft17 = rc.DealerHitsSoft17
	return rules
}

func buildPlayers(pcs []config.PlayerConfig, rules game.Rules) []simulator.PlayerSpec {
	specs := make([]simulator.PlayerSpec, 0, len(pcs))
	for _, pc := range pcs {
		stake := float64(rules.DefaultStake)
		if pc.Stake > 0 {
			stake = float64(pc.Stake)
		}
		specs = append(specs, simulator.PlayerSpec{
			Name:           pc.Name,
			Strategy:       pc.Strategy,
			Spots:          pc.Spots,
			TakesInsurance: pc.Insurance,
			Stake:          stake,
		})
	}
	return specs
}

func progressInterval(shoes int) int {
	interval := shoes / 10
	if interval == 0 {
		interval = 1
	}
	return interval
}

func printResults(result *simulator.Result, duration time.Duration) {
	stats := result.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Printf("\n=== RESULTS ===\n")
	fmt.Printf("Shoes: %d, rounds: %d, time: %v\n", stats.Shoes, stats.Rounds, duration.Round(time.Millisecond))
	fmt.Printf("Mean: %.2f per shoe, median: %.2f\n", stats.Mean(), stats.Median())
	fmt.Printf("Std dev: %.2f, std error: %.2f\n", stats.StdDev(), stats.StdError())
	fmt.Printf("95%% CI: [%.2f, %.2f] per shoe\n", low, high)
	fmt.Printf("Hands: %d won, %d lost, %d pushed, %d blackjacks, %d busts\n",
		stats.Wins, stats.Losses, stats.Pushes, stats.Blackjacks, stats.Busts)

	fmt.Printf("\n=== PLAYERS ===\n")
	for _, p := range result.Players {
		fmt.Printf("%-12s net %+.2f\n", p.Name, p.Net)
	}
}
