package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/config"
	"github.com/san-kum/ctmcsim/internal/dynamo"
	"github.com/san-kum/ctmcsim/internal/elements"
	"github.com/san-kum/ctmcsim/internal/integrators"
	"github.com/san-kum/ctmcsim/internal/logging"
	"github.com/san-kum/ctmcsim/internal/metrics"
	"github.com/san-kum/ctmcsim/internal/physics"
	"github.com/san-kum/ctmcsim/internal/server"
	"github.com/san-kum/ctmcsim/internal/sim"
	"github.com/san-kum/ctmcsim/internal/storage"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [target]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := config.Targets()
			if len(args) > 0 {
				targets = args
			}
			for _, target := range targets {
				presets := config.ListPresets(target)
				if len(presets) == 0 {
					fmt.Printf("no presets for target: %s\n", target)
					continue
				}
				fmt.Printf("presets for %s:\n", target)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", target, p)
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config [target/name]",
		Short: "print a preset, or the defaults, as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if len(args) > 0 {
				target, name, _ := strings.Cut(args[0], "/")
				cfg = config.GetPreset(target, name)
				if cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets(target))
				}
			}
			if out != "" {
				return config.Save(out, cfg)
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")
	return cmd
}

type sampleFlags struct {
	element       string
	configuration string
	model         string
	count         int
	seed          uint64
	bins          int
}

func newSampleCmd() *cobra.Command {
	var f sampleFlags

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "draw target configurations and report their radial and energy statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sampleTarget(&f)
		},
	}
	cmd.Flags().StringVar(&f.element, "element", "H", "target element")
	cmd.Flags().StringVar(&f.configuration, "configuration", "", "electron configuration (default: the element's own)")
	cmd.Flags().StringVar(&f.model, "model", "kepler", "sampling model (kepler, cohen)")
	cmd.Flags().IntVar(&f.count, "count", 10000, "configurations to draw")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&f.bins, "bins", 30, "radial histogram bins")
	return cmd
}

func sampleTarget(f *sampleFlags) error {
	element, err := elements.Parse(f.element)
	if err != nil {
		return err
	}
	configuration := element
	if f.configuration != "" {
		if configuration, err = elements.Parse(f.configuration); err != nil {
			return err
		}
	}
	model, err := atom.ParseModel(f.model)
	if err != nil {
		return err
	}

	sys := physics.NewSystem()
	a, err := atom.New(sys, atom.Spec{Element: element, Configuration: configuration, Model: model})
	if err != nil {
		return err
	}

	orbits := a.Orbits()
	radii := make([][]float64, len(orbits))
	energies := make([][]float64, len(orbits))
	var total []float64

	rng := rand.New(rand.NewSource(f.seed))
	for i := 0; i < f.count; i++ {
		a.Install()
		if err := a.Randomize(rng); err != nil {
			return err
		}
		for j, orbit := range orbits {
			e, _ := a.Electron(orbit)
			r := r3.Norm(r3.Sub(sys.BodyPosition(e), sys.BodyPosition(a.Nucleus())))
			radii[j] = append(radii[j], r)
			energy, _ := a.OrbitalEnergy(orbit)
			energies[j] = append(energies[j], energy)
		}
		total = append(total, a.Energy())
	}

	fmt.Printf("%s (%s, %s), %d samples, reduced mass %.6f\n\n", element, configuration, model, f.count, a.ReducedMass())
	for j, orbit := range orbits {
		rs := metrics.Summarize(radii[j])
		es := metrics.Summarize(energies[j])
		fmt.Printf("%-4s r: mean %.4f sd %.4f [%.4f, %.4f]   E: mean %.6f sd %.2g\n",
			orbit, rs.Mean, rs.StdDev, rs.Min, rs.Max, es.Mean, es.StdDev)
	}
	ts := metrics.Summarize(total)
	fmt.Printf("atom E: mean %.6f sd %.2g\n\n", ts.Mean, ts.StdDev)

	_, counts := metrics.Histogram(radii[0], f.bins)
	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("radial distribution of %s, r in [%.2f, %.2f]", orbits[0],
			metrics.Summarize(radii[0]).Min, metrics.Summarize(radii[0]).Max)),
	))
	return nil
}

type benchFlags struct {
	preset string
	round  int
	dt     float64
}

func newBenchCmd() *cobra.Command {
	var f benchFlags

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "integrate one round with adaptive RK45 and fixed-step RK4 and compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchRound(&f)
		},
	}
	cmd.Flags().StringVar(&f.preset, "preset", "hydrogen/proton-50kev", "preset as target/name")
	cmd.Flags().IntVar(&f.round, "round", 0, "round whose initial conditions are used")
	cmd.Flags().Float64Var(&f.dt, "dt", 1e-3, "RK4 step")
	return cmd
}

func benchRound(f *benchFlags) error {
	cfg, err := presetConfig(f.preset)
	if err != nil {
		return err
	}
	expCfg, err := cfg.Experiment()
	if err != nil {
		return err
	}

	sc, err := collision.NewScenario(expCfg)
	if err != nil {
		return err
	}
	if _, err := sc.Prepare(collision.RoundSource(expCfg.Seed, f.round)); err != nil {
		return err
	}

	sys := sc.System()
	initial := sys.Phase().Clone()
	e0 := sys.SystemEnergy()
	cond := physics.NewDistanceCondition(sc.Projectile(), sc.Target().Nucleus(), expCfg.StopDistance)

	w := newTable()
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tTIME\t|dE/E|\tWALL")

	dcfg := dynamo.DefaultConfig()
	dcfg.InitialStep = expCfg.InitialStep
	dcfg.MaxSteps = expCfg.MaxSteps
	adaptive := sim.New(sys, integrators.NewRK45(expCfg.AbsTolerance, expCfg.RelTolerance), dcfg)

	start := time.Now()
	elapsed, err := adaptive.Simulate(0, expCfg.InitialStep, cond, expCfg.MaxSteps)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "rk45\t%d\t%.3f\t%.3e\t%s\n", adaptive.Steps(), elapsed,
		metrics.RelativeError(e0, sys.SystemEnergy()), time.Since(start).Round(time.Microsecond))

	sys.SetPhase(initial)
	rk4 := integrators.NewRK4()
	x := initial.Clone()
	t, steps := 0.0, 0
	start = time.Now()
	for !cond.Evaluate(x, t) {
		if steps >= expCfg.MaxSteps {
			return fmt.Errorf("rk4: %w after %d steps", dynamo.ErrConditionNotReached, steps)
		}
		x = rk4.Step(sys, x, t, f.dt)
		t += f.dt
		steps++
	}
	fmt.Fprintf(w, "rk4\t%d\t%.3f\t%.3e\t%s\n", steps, t,
		metrics.RelativeError(e0, sys.Energy(x)), time.Since(start).Round(time.Microsecond))

	return w.Flush()
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve stored runs over HTTP and websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			ctx, stop := notifyContext(cmd)
			defer stop()
			return server.New(st, logging.Named(log, "server")).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
