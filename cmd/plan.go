package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/geodeplan/core/catalog"
	"github.com/kilianp07/geodeplan/core/model"
	"github.com/kilianp07/geodeplan/core/search"
)

var planBlueprint int

var planCmd = &cobra.Command{
	Use:   "plan [catalogue]",
	Short: "Print the best build timeline of one blueprint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().IntVarP(&planBlueprint, "blueprint", "b", 1, "blueprint id")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Run.Input == "" {
		return fmt.Errorf("no catalogue input configured")
	}
	bps, err := catalog.Load(cfg.Run.Input)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	var bp model.Blueprint
	for _, b := range bps {
		if b.ID == planBlueprint {
			bp = b
			break
		}
	}
	if !bp.Valid() {
		return fmt.Errorf("blueprint %d not found in %s", planBlueprint, cfg.Run.Input)
	}
	res, err := search.Solve(cmd.Context(), bp, cfg.Run.Horizon, search.Options{TracePlan: true})
	if err != nil {
		return err
	}
	snaps, err := search.Replay(bp, cfg.Run.Horizon, res.Plan)
	if err != nil {
		return err
	}
	return writeTimeline(cmd.OutOrStdout(), bp, snaps, res)
}

func writeTimeline(w io.Writer, bp model.Blueprint, snaps []search.Snapshot, res search.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	kinds := make([]string, bp.Kinds())
	for k := range kinds {
		kinds[k] = model.ResourceKind(k).String()
	}
	fmt.Fprintf(tw, "minute\tbuilt\tproducers (%s)\tstock\n", strings.Join(kinds, "/"))
	for _, s := range snaps {
		built := "-"
		if s.HasBuild {
			built = s.Built.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Minute, built, formatVector(s.Producers, bp.Kinds()), formatVector(s.Resources, bp.Kinds()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "blueprint %d: %d %s after %d steps (%d nodes)\n",
		bp.ID, search.FinalStock(bp, snaps), bp.Terminal(), len(snaps), res.Stats.Nodes)
	return err
}

func formatVector(v model.Vector, kinds int) string {
	parts := make([]string, kinds)
	for k := 0; k < kinds; k++ {
		parts[k] = fmt.Sprint(v[k])
	}
	return strings.Join(parts, "/")
}
