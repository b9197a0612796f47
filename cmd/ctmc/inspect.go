package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/export"
	"github.com/san-kum/ctmcsim/internal/storage"
	"github.com/san-kum/ctmcsim/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTARGET\tMODEL\tENERGY\tROUNDS\tOK\tFAILED\tSTARTED\tDURATION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f keV\t%d\t%d\t%d\t%s\t%.2fs\n",
			run.ID,
			run.Target,
			run.Model,
			run.EnergyKeV,
			run.Rounds,
			run.Successful,
			run.Failed,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
		)
	}

	return w.Flush()
}

func newShowCmd() *cobra.Command {
	var asJSON bool
	var out string

	cmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the cross sections of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			if asJSON || out != "" {
				data, err := st.Export(args[0])
				if err != nil {
					return err
				}
				if out != "" {
					return storage.ExportJSONFile(out, data)
				}
				return storage.ExportJSON(os.Stdout, data)
			}

			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Println(viz.RenderSummary(meta))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metadata and rounds as JSON")
	cmd.Flags().StringVar(&out, "out", "", "write the JSON export to a file")
	return cmd
}

type plotFlags struct {
	outcome   string
	bins      int
	width     int
	height    int
	track     int
	azimuth   float64
	elevation float64
	radius    float64
	svg       string
}

func newPlotCmd() *cobra.Command {
	var f plotFlags

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot impact parameters, rate convergence and energy errors, or a tracked trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("track") {
				return plotTrack(args[0], &f)
			}
			return plotRun(args[0], &f)
		},
	}
	cmd.Flags().StringVar(&f.outcome, "outcome", "", "restrict to one channel (default: every observed channel)")
	cmd.Flags().IntVar(&f.bins, "bins", 20, "histogram bins")
	cmd.Flags().IntVar(&f.width, "width", viz.DefaultPlotSize.Width, "plot width")
	cmd.Flags().IntVar(&f.height, "height", viz.DefaultPlotSize.Height, "plot height")
	cmd.Flags().IntVar(&f.track, "track", 0, "plot the trajectory of this tracked round")
	cmd.Flags().Float64Var(&f.azimuth, "azimuth", 0, "trajectory view azimuth (rad)")
	cmd.Flags().Float64Var(&f.elevation, "elevation", 0, "trajectory view elevation (rad)")
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "clip the trajectory view to this half-width (a0)")
	cmd.Flags().StringVar(&f.svg, "svg", "", "also write the trajectory as SVG to this file")
	return cmd
}

func plotRun(runID string, f *plotFlags) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rounds, err := st.LoadRounds(runID)
	if err != nil {
		return err
	}

	size := viz.PlotSize{Width: f.width, Height: f.height}

	channels := make([]collision.Outcome, 0, len(meta.CrossSections))
	if f.outcome != "" {
		var o collision.Outcome
		if err := o.UnmarshalText([]byte(f.outcome)); err != nil {
			return err
		}
		channels = append(channels, o)
	} else {
		for _, e := range meta.CrossSections {
			channels = append(channels, e.Outcome)
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rounds: %d\n\n", len(rounds))

	fmt.Println(viz.ImpactHistogram(rounds, collision.NoOutcome, f.bins, size))
	for _, o := range channels {
		fmt.Println(viz.ImpactHistogram(rounds, o, f.bins, size))
		fmt.Println(viz.RateConvergence(rounds, o, size))
	}
	fmt.Println(viz.EnergyErrors(rounds, size))
	return nil
}

func plotTrack(runID string, f *plotFlags) error {
	st := storage.New(dataDir)
	header, rows, err := st.LoadTrack(runID, f.track)
	if err != nil {
		return err
	}
	paths, err := viz.BodyPaths(header, rows)
	if err != nil {
		return err
	}

	view := viz.View{Azimuth: f.azimuth, Elevation: f.elevation, Radius: f.radius}
	fmt.Printf("run: %s  round: %d  samples: %d\n", runID, f.track, len(rows))
	fmt.Print(viz.RenderTrajectory(paths, view, f.width, f.height))

	if f.svg != "" {
		if err := export.WriteFile(f.svg, export.TrajectorySVG(paths, view, 8*f.width, 8*f.height)); err != nil {
			return err
		}
		log.WithField("file", f.svg).Info("trajectory written")
	}
	return nil
}
