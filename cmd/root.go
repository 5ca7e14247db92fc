package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/geodeplan/app"
	"github.com/kilianp07/geodeplan/config"
	"github.com/kilianp07/geodeplan/infra/logger"
)

var cfgPath string

type runOptions struct {
	input    string
	horizon  int
	mode     string
	limit    int
	parallel int
	timeout  float64
	export   string
	logLevel string
	plans    bool
}

var runFlags runOptions

var rootCmd = &cobra.Command{
	Use:   "geodeplan [catalogue]",
	Short: "Optimal producer build scheduling for blueprint catalogues",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVarP(&runFlags.input, "input", "i", "", "blueprint catalogue")
	rootCmd.PersistentFlags().IntVarP(&runFlags.horizon, "horizon", "t", 0, "number of steps")
	rootCmd.PersistentFlags().StringVar(&runFlags.logLevel, "log-level", "", "log level")
	f := rootCmd.Flags()
	f.StringVarP(&runFlags.mode, "mode", "m", "", "scoring mode: quality or product")
	f.IntVarP(&runFlags.limit, "limit", "n", 0, "blueprints scored in product mode")
	f.IntVarP(&runFlags.parallel, "parallel", "p", 0, "concurrent searches")
	f.Float64Var(&runFlags.timeout, "timeout", 0, "per-search timeout in seconds")
	f.StringVarP(&runFlags.export, "export", "o", "", "write the report to this file (.json or .csv)")
	f.BoolVar(&runFlags.plans, "plans", false, "record the best build plan of each blueprint")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig loads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath, func(c *config.Config) {
		flags := cmd.Flags()
		if len(args) > 0 {
			c.Run.Input = args[0]
		}
		if flags.Changed("input") {
			c.Run.Input = runFlags.input
		}
		if flags.Changed("horizon") {
			c.Run.SetHorizon(runFlags.horizon)
		}
		if flags.Changed("log-level") {
			c.Logging.Level = runFlags.logLevel
		}
		if flags.Changed("mode") {
			c.Run.Mode = runFlags.mode
		}
		if flags.Changed("limit") {
			c.Run.Limit = runFlags.limit
		}
		if flags.Changed("parallel") {
			c.Run.Parallelism = runFlags.parallel
		}
		if flags.Changed("timeout") {
			c.Run.TimeoutSeconds = runFlags.timeout
		}
		if flags.Changed("export") {
			c.Export.Path = runFlags.export
			c.Export.Format = ""
		}
		if flags.Changed("plans") {
			c.Run.TracePlan = runFlags.plans
		}
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}

	progress := svc.Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for p := range progress {
			status := ""
			if p.Partial {
				status = " (partial)"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] blueprint %d: %d%s in %s\n",
				p.Done, p.Total, p.BlueprintID, p.Value, status, p.Duration.Round(time.Microsecond))
		}
	}()

	report, runErr := svc.Run(ctx)
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
	<-printed
	if runErr != nil {
		return runErr
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Score)
	return nil
}
