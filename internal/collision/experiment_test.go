package collision_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/dynamo"
)

type countingTrack struct {
	steps  int
	closed bool
}

func (c *countingTrack) OnStep(dynamo.State, float64) { c.steps++ }
func (c *countingTrack) Close() error                 { c.closed = true; return nil }

func quickConfig() collision.Config {
	cfg := collision.DefaultConfig()
	cfg.B2Max = 9
	cfg.StartDistance = 20
	cfg.StopDistance = 21
	cfg.AbsTolerance = 1e-8
	cfg.RelTolerance = 1e-8
	cfg.EnergyTolerance = 1e-3
	cfg.Rounds = 6
	cfg.Seed = 12345
	return cfg
}

var _ = Describe("Experiment", func() {
	It("rejects an invalid config", func() {
		cfg := quickConfig()
		cfg.Rounds = 0
		_, err := collision.New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("returns every round in order with a consistent tally", func() {
		exp, err := collision.New(quickConfig())
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Rounds).To(HaveLen(6))
		for i, r := range res.Rounds {
			Expect(r.Round).To(Equal(i))
			Expect(r.ImpactParameter).To(BeNumerically(">=", 0))
			Expect(r.ImpactParameter).To(BeNumerically("<=", 3))
		}

		tally := res.Tally
		Expect(tally.Successful() + tally.Failed()).To(Equal(6))
		sum := 0
		for _, o := range collision.Outcomes() {
			sum += tally.Count(o)
		}
		Expect(sum).To(Equal(tally.Successful()))
	})

	It("does not depend on the number of workers", func() {
		serialCfg := quickConfig()
		serialCfg.Workers = 1
		parallelCfg := quickConfig()
		parallelCfg.Workers = 3

		serial, err := collision.New(serialCfg)
		Expect(err).NotTo(HaveOccurred())
		parallel, err := collision.New(parallelCfg)
		Expect(err).NotTo(HaveOccurred())

		a, err := serial.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := parallel.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(b.Rounds).To(Equal(a.Rounds))
	})

	It("reports every round to the hook", func() {
		seen := map[int]bool{}
		exp, err := collision.New(quickConfig(), collision.WithRoundHook(func(r collision.RoundResult) {
			seen[r.Round] = true
		}))
		Expect(err).NotTo(HaveOccurred())

		_, err = exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(6))
	})

	It("opens tracks only for tracked rounds and closes them", func() {
		cfg := quickConfig()
		cfg.Track = []int{1, 4}
		cfg.SkipUntracked = true

		tracks := map[int]*countingTrack{}
		exp, err := collision.New(cfg, collision.WithTracker(func(round int, _ *collision.Scenario) (collision.Track, error) {
			t := &countingTrack{}
			tracks[round] = t
			return t, nil
		}))
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(tracks).To(HaveLen(2))
		for round, t := range tracks {
			Expect(t.closed).To(BeTrue())
			Expect(t.steps).To(BeNumerically(">", res.Rounds[round].Steps))
		}
		Expect(res.Tally.Statuses[collision.StatusSkipped]).To(Equal(4))
		Expect(res.Rounds[0].Status).To(Equal(collision.StatusSkipped))
	})

	It("stops when the context is cancelled", func() {
		exp, err := collision.New(quickConfig())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = exp.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("counts failed rounds without aborting", func() {
		cfg := quickConfig()
		cfg.MaxSteps = 3

		exp, err := collision.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		res, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Tally.Failed()).To(Equal(6))
		Expect(res.Tally.Statuses[collision.StatusDistanceNotReached]).To(Equal(6))
	})
})

var _ = Describe("Tally", func() {
	It("estimates cross sections over successful rounds only", func() {
		t := collision.NewTally(4)
		t.Add(collision.RoundResult{Status: collision.StatusOK, Outcome: collision.Capture})
		t.Add(collision.RoundResult{Status: collision.StatusOK, Outcome: collision.Elastic, Extended: 2})
		t.Add(collision.RoundResult{Status: collision.StatusOK, Outcome: collision.Elastic})
		t.Add(collision.RoundResult{Status: collision.StatusOK, Outcome: collision.Ionization})
		t.Add(collision.RoundResult{Status: collision.StatusEnergyViolation})

		Expect(t.Successful()).To(Equal(4))
		Expect(t.Failed()).To(Equal(1))
		Expect(t.Extended).To(Equal(1))

		est := t.Estimate(collision.Capture)
		Expect(est.Rate).To(BeNumerically("~", 0.25, 1e-15))
		Expect(est.Sigma).To(BeNumerically("~", 0.25*4*3.141592653589793, 1e-12))

		channels := t.Estimates()
		Expect(channels).To(HaveLen(3))
		Expect(channels[0].Outcome).To(Equal(collision.Elastic))
	})
})
