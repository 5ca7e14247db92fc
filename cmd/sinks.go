package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/geodeplan/app/plugins"
)

var sinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List the metrics sink types usable in the configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range plugins.MetricsSinks() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sinksCmd)
}
