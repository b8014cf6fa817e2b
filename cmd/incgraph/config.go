package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/incgraph/internal/config"
)

var configOutPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage incgraph configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "write a starter config file with the engine's defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default(), configOutPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", configOutPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configOutPath, "out", "incgraph.yaml", "path to write the generated config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
