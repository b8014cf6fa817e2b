package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/incgraph/internal/config"
	"github.com/rohankatakam/incgraph/internal/ierrors"
	"github.com/rohankatakam/incgraph/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ierrors.CodeOf(err))
	}
}

var rootCmd = &cobra.Command{
	Use:     "incgraph",
	Short:   "incgraph extracts and lays out incident graphs from endpoint telemetry",
	Long:    `incgraph loads an adjacency or findings feed, builds a seed-anchored incident subgraph, lays it out deterministically, and renders it to DOT, JSON, or SVG.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logrus.InfoLevel
		if verbose {
			level = logrus.DebugLevel
		}
		logger = logging.New(level)

		loaded, err := config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config file, using defaults")
			loaded = config.Default()
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./incgraph.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.SetVersionTemplate(`incgraph {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(renderCmd)
}
