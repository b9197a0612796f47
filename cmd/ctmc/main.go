package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/ctmcsim/internal/logging"
	"github.com/san-kum/ctmcsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	theme    string

	log *logrus.Logger
)

// main registers the ctmc commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ctmc",
		Short:         "classical trajectory Monte Carlo ion-atom collisions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			if l.IsLevelEnabled(logrus.DebugLevel) {
				logging.Debug(l)
			}
			log = l
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ctmc", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "default", "colour theme")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newShowCmd(),
		newPlotCmd(),
		newPresetsCmd(),
		newConfigCmd(),
		newSampleCmd(),
		newBenchCmd(),
		newScanCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
