// Package simulator drives the blackjack engine across many shoes,
// optionally fanning independent shoes out over parallel workers.
package simulator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/qlearn"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/statistics"
	"github.com/lox/blackjackforbots/internal/strategy"
)

// PlayerSpec describes one simulated player.
type PlayerSpec struct {
	Name           string
	Strategy       string // "basic", "random" or "learn"
	Spots          int
	TakesInsurance bool
	Stake          float64
}

// Config holds configuration for running simulations.
type Config struct {
	Shoes         int
	Rules         game.Rules
	Players       []PlayerSpec
	Epsilon       float64
	Gamma         float64
	Seed          int64
	Workers       int
	ProgressEvery int // shoes between progress logs, 0 disables
	Logger        *log.Logger
	Clock         quartz.Clock
	Subscribers   []game.EventSubscriber // optional observers, attached to every table
}

// PlayerResult is a player's aggregate outcome across all workers.
type PlayerResult struct {
	Name string
	Net  float64
}

// Result bundles a completed run: per-shoe statistics, per-player nets and
// the merged learner.
type Result struct {
	Stats   *statistics.Statistics
	Players []PlayerResult
	Learner *qlearn.Learner
}

// Simulator runs blackjack shoe simulations.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration.
func New(config Config) *Simulator {
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run executes the configured number of shoes. With Workers > 1 each worker
// owns a private shoe sequence, table and learner replica; replicas and
// statistics merge once every worker finishes. Decision tables are never
// shared between running workers.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	workers := s.config.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > s.config.Shoes {
		workers = s.config.Shoes
	}

	results := make([]*workerResult, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		shoes := s.config.Shoes / workers
		if w < s.config.Shoes%workers {
			shoes++
		}
		g.Go(func() error {
			res, err := s.runWorker(ctx, w, shoes)
			if err != nil {
				return err
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{
		Stats:   &statistics.Statistics{},
		Learner: qlearn.NewLearner(randutil.New(s.config.Seed), s.config.Gamma),
	}
	nets := make(map[string]float64)
	for _, res := range results {
		merged.Stats.Merge(res.stats)
		merged.Learner.Merge(res.learner)
		for _, p := range res.players {
			nets[p.Name] += p.Bankroll - res.stakes[p.Name]
		}
	}
	for _, spec := range s.config.Players {
		merged.Players = append(merged.Players, PlayerResult{Name: spec.Name, Net: nets[spec.Name]})
	}
	return merged, nil
}

// workerResult is the private state a worker hands back after finishing.
type workerResult struct {
	stats   *statistics.Statistics
	learner *qlearn.Learner
	players []*game.Player
	stakes  map[string]float64
}

// runWorker plays the given number of shoes on a private table.
func (s *Simulator) runWorker(ctx context.Context, worker, shoes int) (*workerResult, error) {
	seed := randutil.Derive(s.config.Seed, worker)
	rng := randutil.New(seed)
	logger := s.config.Logger.With("worker", worker)

	learner := qlearn.NewLearner(rng, s.config.Gamma)

	seatings := make([]game.Seating, 0, len(s.config.Players))
	stakes := make(map[string]float64, len(s.config.Players))
	players := make([]*game.Player, 0, len(s.config.Players))
	for _, spec := range s.config.Players {
		strat, err := strategy.New(spec.Strategy, learner, rng, s.config.Epsilon)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", spec.Name, err)
		}
		player := game.NewPlayer(spec.Name, spec.Stake, strat, spec.TakesInsurance)
		players = append(players, player)
		stakes[spec.Name] = spec.Stake
		seatings = append(seatings, game.Seating{Player: player, Spots: spec.Spots})
	}

	table, err := game.NewTable(s.config.Rules, seatings, learner, logger)
	if err != nil {
		return nil, err
	}

	counter := &outcomeCounter{}
	table.EventBus().Subscribe(counter)
	for _, sub := range s.config.Subscribers {
		table.EventBus().Subscribe(sub)
	}

	stats := &statistics.Statistics{}
	start := s.config.Clock.Now()

	for shoe := 0; shoe < shoes; shoe++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		before := bankrollTotal(players)
		counter.reset()

		sh := deck.NewShoe(rng, s.config.Rules.Decks, s.config.Rules.CutCardDepth)
		rounds := table.PlayShoe(sh)

		stats.Add(statistics.ShoeResult{
			Net:        bankrollTotal(players) - before,
			Rounds:     rounds,
			Seed:       seed,
			Wins:       counter.wins,
			Losses:     counter.losses,
			Pushes:     counter.pushes,
			Blackjacks: counter.blackjacks,
			Busts:      counter.busts,
		})

		if s.config.ProgressEvery > 0 && (shoe+1)%s.config.ProgressEvery == 0 {
			elapsed := s.config.Clock.Now().Sub(start)
			logger.Info("progress",
				"shoes", shoe+1,
				"rounds", stats.Rounds,
				"mean", stats.Mean(),
				"elapsed", elapsed,
				"shoes_per_sec", float64(shoe+1)/elapsed.Seconds())
		}
	}

	return &workerResult{stats: stats, learner: learner, players: players, stakes: stakes}, nil
}

func bankrollTotal(players []*game.Player) float64 {
	total := 0.0
	for _, p := range players {
		total += p.Bankroll
	}
	return total
}

// outcomeCounter tallies hand outcomes for the shoe in progress.
type outcomeCounter struct {
	wins, losses, pushes, blackjacks, busts int
}

func (c *outcomeCounter) reset() {
	*c = outcomeCounter{}
}

func (c *outcomeCounter) OnEvent(event game.GameEvent) {
	outcome, ok := event.(game.HandOutcomeEvent)
	if !ok {
		return
	}
	switch outcome.Outcome {
	case game.OutcomeWin:
		c.wins++
	case game.OutcomeLoss:
		c.losses++
	case game.OutcomePush:
		c.pushes++
	case game.OutcomeBlackjack:
		c.blackjacks++
	case game.OutcomeBust:
		c.busts++
	}
}
