package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/config"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/milestone"
	"github.com/rgehrsitz/horizon/internal/output"
	"github.com/rgehrsitz/horizon/internal/server"
	"github.com/rgehrsitz/horizon/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by every subcommand once settings are loaded
type app struct {
	settings config.Settings
	logger   zeroLogger
}

func (a *app) engine() *calculation.Engine {
	e := calculation.NewEngine()
	e.SetLogger(a.logger)
	return e
}

func (a *app) detector(noFilter bool) *milestone.Detector {
	s := a.settings.Milestones
	opts := milestone.DefaultOptions()
	opts.CacheSize = s.CacheSize
	opts.CacheTTL = s.CacheTTL
	if s.DisableFilter || noFilter {
		opts.MinimumImpactThreshold = nil
	} else {
		threshold := decimal.NewFromFloat(s.MinimumImpact)
		opts.MinimumImpactThreshold = &threshold
	}
	d := milestone.NewDetector(opts)
	d.SetLogger(a.logger)
	return d
}

// run loads a configuration file and projects it
func (a *app) run(ctx context.Context, path string) (*domain.SimulationConfiguration, *domain.SimulationResult, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := a.engine().Run(ctx, *cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("simulation failed: %w", err)
	}
	a.logger.Debugf("projected %d states across %d periods", len(result.States), len(result.Periods))
	return cfg, result, nil
}

// emit renders a report to stdout, or to a timestamped file with --output-file
func (a *app) emit(cmd *cobra.Command, report *output.Report) error {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = a.settings.Output.Format
	}
	f := output.GetFormatterByName(name)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %v, aliases: %v)",
			name, output.AvailableFormatterNames(), output.AvailableFormatAliases())
	}
	if toFile, _ := cmd.Flags().GetBool("output-file"); toFile {
		path, err := output.WriteFormatted(f, report, extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func extension(formatter string) string {
	switch formatter {
	case "csv", "milestones-csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	}
	return "txt"
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "horizon",
		Short:         "Household financial projection and milestone detection",
		Long:          "Projects household cash, investments, super and loans through time and reports the milestones along the way",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("settings")
			s, err := config.LoadSettings(path)
			if err != nil {
				return err
			}
			debugMode, _ := cmd.Flags().GetBool("debug")
			a.settings = s
			a.logger = newLogger(cmd.ErrOrStderr(), s.Log.Level, debugMode)
			return nil
		},
	}
	root.PersistentFlags().String("settings", "", "Path to a settings file (default: $HOME/.config/horizon/settings.yaml)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		simulateCmd(a),
		milestonesCmd(a),
		retirementCmd(a),
		validateCmd(),
		serveCmd(a),
		viewCmd(a),
		versionCmd(),
	)
	return root
}

func addFormatFlags(cmd *cobra.Command, def string) {
	cmd.Flags().StringP("format", "f", def, "Output format (console, console-lite, csv, milestones-csv, json, html)")
	cmd.Flags().BoolP("output-file", "o", false, "Write the report to a timestamped file instead of stdout")
}

func simulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [input-file]",
		Short: "Project a configuration and report its states and milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, result, err := a.run(ctx, args[0])
			if err != nil {
				return err
			}
			noFilter, _ := cmd.Flags().GetBool("all")
			detection := a.detector(noFilter).Detect(ctx, milestone.InputFromResult(*cfg, result))
			report := output.NewReport(*cfg, result, detection)
			report.Retirement = retirementEstimate(cfg, result)
			return a.emit(cmd, report)
		},
	}
	addFormatFlags(cmd, "")
	cmd.Flags().Bool("all", false, "Report milestones regardless of their impact")
	return cmd
}

func milestonesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones [input-file]",
		Short: "List the milestones found in a projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, result, err := a.run(ctx, args[0])
			if err != nil {
				return err
			}
			noFilter, _ := cmd.Flags().GetBool("all")
			detection := a.detector(noFilter).Detect(ctx, milestone.InputFromResult(*cfg, result))
			for _, e := range detection.Errors {
				a.logger.Errorf("%s: %s", e.Code, e.Message)
			}
			for _, w := range detection.Warnings {
				a.logger.Warnf("%s", w)
			}
			return a.emit(cmd, output.NewReport(*cfg, result, detection))
		},
	}
	addFormatFlags(cmd, "milestones-csv")
	cmd.Flags().Bool("all", false, "Report milestones regardless of their impact")
	return cmd
}

func retirementCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retirement [input-file]",
		Short: "Estimate when the desired retirement income becomes sustainable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, result, err := a.run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			est := retirementEstimate(cfg, result)
			w := cmd.OutOrStdout()
			desired := output.FormatCurrency(cfg.BaseParameters.DesiredRetirementIncome)
			if est == nil || !est.Achievable() {
				fmt.Fprintf(w, "A retirement income of %s is not sustainable within the projection\n", desired)
				return nil
			}
			fmt.Fprintf(w, "A retirement income of %s is sustainable from %s at age %d\n",
				desired, est.Date.Format("2 January 2006"), *est.Age)
			fmt.Fprintf(w, "Safe withdrawal at that point: %s a year\n", output.FormatCurrency(est.SafeWithdrawal))
			return nil
		},
	}
}

func retirementEstimate(cfg *domain.SimulationConfiguration, result *domain.SimulationResult) *calculation.RetirementEstimate {
	p := cfg.BaseParameters
	if p.DesiredRetirementIncome.Sign() <= 0 {
		return nil
	}
	est := calculation.FindRetirementDate(result.States, p.DesiredRetirementIncome, p.CurrentAge, p.RetirementAge)
	return &est
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
				for _, ve := range config.ValidationErrors(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ve)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", args[0])
			return nil
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections and milestones over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.settings.Server
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				settings.Addr = addr
			}
			srv := server.New(a.engine(), a.detector(false), settings, a.logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides settings)")
	return cmd
}

func viewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [input-file]",
		Short: "Browse a projection and its milestones interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("config file not found: %w", err)
			}
			// the TUI owns the terminal so engine logs are dropped
			model := tui.NewModel(args[0], calculation.NewEngine(), a.detector(false))
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "horizon %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.Main.Version)
			}
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
