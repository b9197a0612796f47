package collision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// TrackFunc opens a trajectory sink for a tracked round.
type TrackFunc func(round int, sc *Scenario) (Track, error)

// Experiment runs Config.Rounds independent rounds.
type Experiment struct {
	cfg     Config
	log     Logger
	onRound func(RoundResult)
	tracker TrackFunc
}

type Option func(*Experiment)

func WithLogger(l Logger) Option {
	return func(e *Experiment) { e.log = l }
}

// WithRoundHook registers fn to receive every finished round. Calls are
// serialized but arrive in completion order, not round order.
func WithRoundHook(fn func(RoundResult)) Option {
	return func(e *Experiment) { e.onRound = fn }
}

func WithTracker(fn TrackFunc) Option {
	return func(e *Experiment) { e.tracker = fn }
}

func New(cfg Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Experiment{cfg: cfg, log: NoOpLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Config() Config { return e.cfg }

// RoundSource is the generator of round i.
func RoundSource(seed uint64, round int) *rand.Rand {
	return rand.New(rand.NewSource(seed + uint64(round)))
}

// Run plays every round and tallies the successful ones. Per-round
// failures are logged and counted; an unhandled outcome or a cancelled
// ctx stops the run. ctx is only checked between rounds.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > cfg.Rounds {
		workers = cfg.Rounds
	}

	tracked := make(map[int]bool, len(cfg.Track))
	for _, r := range cfg.Track {
		tracked[r] = true
	}

	result := &Result{
		Config:  cfg,
		Rounds:  make([]RoundResult, cfg.Rounds),
		Started: time.Now(),
	}

	e.log.Infof("starting %d rounds on %d workers: %s target (%s), %.1f keV projectile",
		cfg.Rounds, workers, cfg.Target.Element, cfg.Target.Model, cfg.Projectile.EnergyKeV)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for r := 0; r < cfg.Rounds; r++ {
			select {
			case jobs <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var hookMu sync.Mutex
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			sc, err := NewScenario(cfg)
			if err != nil {
				return err
			}
			for round := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := e.runRound(sc, round, tracked[round])
				result.Rounds[round] = res

				if e.onRound != nil {
					hookMu.Lock()
					e.onRound(res)
					hookMu.Unlock()
				}

				var rerr *RoundError
				switch {
				case err == nil:
					e.log.Debugf("round %d: b=%.4f %s in %d steps", round, res.ImpactParameter, res.Outcome, res.Steps)
				case errors.As(err, &rerr) && !rerr.Fatal():
					e.log.Warnf("%v", err)
				default:
					e.log.Errorf("%v", err)
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	result.Duration = time.Since(result.Started)
	if err != nil {
		return nil, fmt.Errorf("collision: %w", err)
	}

	result.Tally = NewTally(cfg.B2Max)
	for _, r := range result.Rounds {
		result.Tally.Add(r)
	}

	e.log.Infof("finished %d rounds in %s: %d ok, %d failed",
		cfg.Rounds, result.Duration.Round(time.Millisecond), result.Tally.Successful(), result.Tally.Failed())
	return result, nil
}

func (e *Experiment) runRound(sc *Scenario, round int, tracked bool) (RoundResult, error) {
	var track Track
	if tracked && e.tracker != nil {
		t, err := e.tracker(round, sc)
		if err != nil {
			return RoundResult{Round: round}, fmt.Errorf("round %d: open track: %w", round, err)
		}
		track = t
	}
	return sc.RunRound(round, RoundSource(e.cfg.Seed, round), tracked, track)
}
