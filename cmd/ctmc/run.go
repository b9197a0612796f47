package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/config"
	"github.com/san-kum/ctmcsim/internal/logging"
	"github.com/san-kum/ctmcsim/internal/physics"
	"github.com/san-kum/ctmcsim/internal/storage"
	"github.com/san-kum/ctmcsim/internal/viz"
)

type runFlags struct {
	configFile    string
	preset        string
	rounds        int
	seed          uint64
	workers       int
	energy        float64
	b2max         float64
	track         []int
	skipUntracked bool
	printBody     int
	live          bool
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a collision experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			ctx, stop := notifyContext(cmd)
			defer stop()
			return runExperiment(ctx, cfg, &f)
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "preset as target/name, see 'ctmc presets'")
	cmd.Flags().IntVar(&f.rounds, "rounds", 0, "number of rounds")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "base seed, round i uses seed+i")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel workers")
	cmd.Flags().Float64Var(&f.energy, "energy", 0, "projectile energy in keV")
	cmd.Flags().Float64Var(&f.b2max, "b2max", 0, "maximum squared impact parameter (a0^2)")
	cmd.Flags().IntSliceVar(&f.track, "track", nil, "round indices to record trajectories for")
	cmd.Flags().BoolVar(&f.skipUntracked, "skip-untracked", false, "only integrate tracked rounds")
	cmd.Flags().IntVar(&f.printBody, "print-body", -1, "also record the full phase of this body in tracks")
	cmd.Flags().BoolVar(&f.live, "live", false, "show live progress")
	return cmd
}

// loadConfig resolves preset, then config file, then flags.
func loadConfig(cmd *cobra.Command, f *runFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		target, name, ok := strings.Cut(f.preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be target/name, got %q", f.preset)
		}
		cfg = config.GetPreset(target, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(target))
		}
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("rounds") {
		cfg.Rounds = f.rounds
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("energy") {
		cfg.Projectile.EnergyKeV = f.energy
	}
	if flags.Changed("b2max") {
		cfg.B2Max = f.b2max
	}
	if flags.Changed("track") {
		cfg.Track = f.track
	}
	if flags.Changed("skip-untracked") {
		cfg.SkipUntracked = f.skipUntracked
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runExperiment(ctx context.Context, cfg *config.Config, f *runFlags) error {
	expCfg, err := cfg.Experiment()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := st.Create(fmt.Sprintf("%s_%s", expCfg.Target.Element.Symbol(), expCfg.Target.Model))
	if err != nil {
		return err
	}
	runDir, err := st.Dir(runID)
	if err != nil {
		return err
	}
	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return err
	}

	opts := []collision.Option{collision.WithLogger(logging.Named(log, "collision").WithField("run", runID))}
	if len(expCfg.Track) > 0 {
		popts := storage.DefaultPrinterOptions()
		if f.printBody >= 0 {
			popts.Fields |= storage.FieldBody
			popts.Body = physics.BodyID(f.printBody)
		}
		tracker, err := st.Tracker(runID, popts)
		if err != nil {
			return err
		}
		opts = append(opts, collision.WithTracker(tracker))
	}

	var res *collision.Result
	if f.live {
		res, err = runLive(ctx, expCfg, runID, opts)
	} else {
		var exp *collision.Experiment
		exp, err = collision.New(expCfg, opts...)
		if err == nil {
			res, err = exp.Run(ctx)
		}
	}
	if err != nil {
		return err
	}

	meta, err := st.Save(runID, res)
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderSummary(meta))
	return nil
}

// runLive drives the experiment behind a Progress view. Log output is
// silenced while the view owns the terminal.
func runLive(ctx context.Context, cfg collision.Config, runID string, opts []collision.Option) (*collision.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := log.Out
	log.SetOutput(io.Discard)
	defer log.SetOutput(out)

	title := fmt.Sprintf("%s  %s (%s) + %.1f keV", runID, cfg.Target.Element, cfg.Target.Model, cfg.Projectile.EnergyKeV)
	p := tea.NewProgram(viz.NewProgress(title, cfg.Rounds, cfg.B2Max))

	opts = append(opts, collision.WithRoundHook(func(r collision.RoundResult) {
		p.Send(viz.RoundMsg(r))
	}))
	exp, err := collision.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	var (
		res    *collision.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = exp.Run(ctx)
		p.Send(viz.DoneMsg{Err: runErr})
	}()

	final, err := p.Run()
	if m, ok := final.(viz.Progress); ok && m.Cancelled() {
		cancel()
	}
	<-done
	if err != nil {
		return nil, err
	}
	return res, runErr
}
