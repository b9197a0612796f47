package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/config"
	"github.com/san-kum/ctmcsim/internal/export"
	"github.com/san-kum/ctmcsim/internal/logging"
	"github.com/san-kum/ctmcsim/internal/scan"
	"github.com/san-kum/ctmcsim/internal/storage"
)

type scanFlags struct {
	preset  string
	params  []string
	rounds  int
	outcome string
	save    bool
	svg     string
}

func newScanCmd() *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "run one experiment per point of a parameter grid",
		Example: `  ctmc scan --preset hydrogen/proton-50kev --param energy=25,50,100
  ctmc scan --param energy=10:200:8 --param b2max=16,25 --outcome capture`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext(cmd)
			defer stop()

			base, err := presetConfig(f.preset)
			if err != nil {
				return err
			}
			if f.rounds > 0 {
				base.Rounds = f.rounds
			}
			if err := base.Validate(); err != nil {
				return err
			}
			expCfg, err := base.Experiment()
			if err != nil {
				return err
			}

			names, ranges, err := parseParams(f.params)
			if err != nil {
				return err
			}
			grid, err := scan.NewGrid(names, ranges)
			if err != nil {
				return err
			}

			var st *storage.Store
			if f.save {
				st = storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
			}

			plog := logging.Named(log, "scan")
			plog.Infof("scanning %d points", grid.Size())
			points, err := grid.Run(ctx, expCfg, func(p scan.Point) {
				plog.WithField("params", p.Params).Info("point done")
				if st == nil {
					return
				}
				runID, err := st.Create("scan")
				if err == nil {
					_, err = st.Save(runID, p.Result)
				}
				if err != nil {
					plog.WithError(err).Warn("saving point failed")
				}
			}, collision.WithLogger(logging.Named(log, "collision")))
			if err != nil {
				return err
			}

			if err := printScan(names, points); err != nil {
				return err
			}
			if f.outcome != "" {
				var o collision.Outcome
				if err := o.UnmarshalText([]byte(f.outcome)); err != nil {
					return err
				}
				if best, ok := scan.Best(points, o); ok {
					s, ds := best.Sigma16(o)
					fmt.Printf("\nlargest %s: %s  sigma = %.4g +- %.2g e-16 cm^2\n", o, formatParams(names, best.Params), s, ds)
				}
			}
			if f.svg != "" {
				return export.WriteFile(f.svg, scanCurves(names[0], points))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.preset, "preset", "hydrogen/proton-50kev", "base preset as target/name")
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "name=v1,v2,... or name=start:stop:n (energy, b2max, charge, rounds)")
	cmd.Flags().IntVar(&f.rounds, "rounds", 0, "rounds per point")
	cmd.Flags().StringVar(&f.outcome, "outcome", "", "report the point with the largest cross section for this channel")
	cmd.Flags().BoolVar(&f.save, "save", false, "store every point as a run")
	cmd.Flags().StringVar(&f.svg, "svg", "", "write cross sections against the first parameter as SVG")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}

func presetConfig(preset string) (*config.Config, error) {
	target, name, _ := strings.Cut(preset, "/")
	cfg := config.GetPreset(target, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	return cfg, nil
}

// parseParams reads name=v1,v2 lists and name=start:stop:n linear ranges.
func parseParams(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, s := range specs {
		name, values, ok := strings.Cut(s, "=")
		if !ok {
			return nil, nil, fmt.Errorf("param %q: expected name=values", s)
		}
		r, err := parseRange(values)
		if err != nil {
			return nil, nil, fmt.Errorf("param %q: %w", s, err)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, r)
	}
	return names, ranges, nil
}

func parseRange(s string) ([]float64, error) {
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		start, err1 := strconv.ParseFloat(parts[0], 64)
		stop, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return nil, fmt.Errorf("bad range %q", s)
		}
		if n == 1 {
			return []float64{start}, nil
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = start + (stop-start)*float64(i)/float64(n-1)
		}
		return out, nil
	}

	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatParams(names []string, params map[string]float64) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%g", n, params[n])
	}
	return strings.Join(parts, " ")
}

func printScan(names []string, points []scan.Point) error {
	channels := scan.Channels(points)

	w := newTable()
	for _, n := range names {
		fmt.Fprintf(w, "%s\t", strings.ToUpper(n))
	}
	fmt.Fprint(w, "OK\tFAILED")
	for _, o := range channels {
		fmt.Fprintf(w, "\t%s", o)
	}
	fmt.Fprintln(w)

	for _, p := range points {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		fmt.Fprintf(w, "%d\t%d", p.Result.Tally.Successful(), p.Result.Tally.Failed())
		for _, o := range channels {
			s, ds := p.Sigma16(o)
			fmt.Fprintf(w, "\t%.3g+-%.2g", s, ds)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// scanCurves plots every channel against the first parameter; later
// parameters are fixed at their first value.
func scanCurves(param string, points []scan.Point) string {
	var xs []float64
	var kept []scan.Point
	for _, p := range points {
		x := p.Params[param]
		if containsFloat(xs, x) {
			continue
		}
		xs = append(xs, x)
		kept = append(kept, p)
	}

	var series []export.Series
	for _, o := range scan.Channels(kept) {
		s := export.Series{Name: o.String()}
		for _, p := range kept {
			v, _ := p.Sigma16(o)
			s.Values = append(s.Values, v)
		}
		series = append(series, s)
	}
	return export.CurveSVG(xs, series, 480, 320)
}

func containsFloat(xs []float64, x float64) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
