// Package main provides the CLI entrypoint for das-report.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bradlipovsky/file-org/internal/config"
	"github.com/bradlipovsky/file-org/internal/counts"
	"github.com/bradlipovsky/file-org/internal/coverage"
	"github.com/bradlipovsky/file-org/internal/model"
	"github.com/bradlipovsky/file-org/internal/store"
)

const (
	defaultCountsFile     = "file_counts.txt"
	defaultExpectedPerDay = coverage.DefaultExpectedPerDay
	defaultPlotHeight     = 8
)

var (
	reportExpected int
	reportNoRecord bool

	plotExpected int
	plotWidth    int
	plotHeight   int

	historySince string
	historyLast  int
	historyColor bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "das-report [counts-file]",
		Short:         "Report gaps and completeness for DAS daily file counts",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReportCmd,
	}

	rootCmd.Flags().IntVar(&reportExpected, "expected", defaultExpectedPerDay, "files expected per day (one per minute)")
	rootCmd.Flags().BoolVar(&reportNoRecord, "no-record", false, "do not record this run in the history database")

	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "expected", &reportExpected, fileCfg.Report.ExpectedPerDay)

	record := !reportNoRecord
	if fileCfg.Report.Record != nil && !cmd.Flags().Changed("no-record") {
		record = *fileCfg.Report.Record
	}

	cfg := model.ReportConfig{
		InputPath:      resolveInputPath(args, fileCfg),
		ExpectedPerDay: reportExpected,
		Record:         record,
	}
	if cfg.ExpectedPerDay <= 0 {
		return fmt.Errorf("--expected must be > 0")
	}

	ds, err := counts.Load(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read counts file: %w", err)
	}
	report, err := coverage.Analyze(ds, cfg.ExpectedPerDay)
	if err != nil {
		return err
	}
	if err := coverage.WriteReport(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Record && !ds.Empty() {
		if err := recordRun(cmd, cfg.InputPath, report); err != nil {
			logErrf("failed to record run: %v\n", err)
		}
	}
	return nil
}

func recordRun(cmd *cobra.Command, inputPath string, report model.Report) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	_, err = st.InsertRun(cmd.Context(), model.RunSummary{
		RanAt:         time.Now(),
		InputPath:     inputPath,
		FirstDate:     report.FirstDate,
		LastDate:      report.LastDate,
		DaysWalked:    report.DaysWalked,
		TotalExpected: report.TotalExpected,
		TotalObserved: report.TotalObserved,
		Percent:       report.Percent,
		GapDays:       len(report.Gaps),
	})
	return err
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [counts-file]",
		Short: "Chart observed daily file counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlotCmd,
	}
	cmd.Flags().IntVar(&plotExpected, "expected", defaultExpectedPerDay, "files expected per day (one per minute)")
	cmd.Flags().IntVar(&plotWidth, "width", 0, "chart width (0 = terminal width)")
	cmd.Flags().IntVar(&plotHeight, "height", defaultPlotHeight, "chart height in rows")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "expected", &plotExpected, fileCfg.Report.ExpectedPerDay)
	if plotExpected <= 0 {
		return fmt.Errorf("--expected must be > 0")
	}
	if plotHeight <= 0 {
		return fmt.Errorf("--height must be > 0")
	}

	ds, err := counts.Load(resolveInputPath(args, fileCfg))
	if err != nil {
		return fmt.Errorf("failed to read counts file: %w", err)
	}
	report, err := coverage.Analyze(ds, plotExpected)
	if err != nil {
		return err
	}
	if err := coverage.RenderDailyPlot(cmd.OutOrStdout(), report, plotExpected, plotWidth, plotHeight); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyColor, "color", false, "colorize output")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	applyBoolConfig(cmd, "color", &historyColor, fileCfg.History.Color)

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation(counts.DateLayout, historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	useColor := historyColor
	if useColor && !cmd.Flags().Changed("color") && !term.IsTerminal(int(os.Stdout.Fd())) {
		useColor = false
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), model.HistoryConfig{Since: sinceTime, Last: historyLast, Color: useColor})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if historyLast > 0 && len(runs) > historyLast {
		runs = runs[len(runs)-historyLast:]
	}
	if err := coverage.RenderHistory(cmd.OutOrStdout(), runs, useColor); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func resolveInputPath(args []string, fileCfg config.FileConfig) string {
	if len(args) == 1 {
		return args[0]
	}
	if fileCfg.Report.Input != nil && *fileCfg.Report.Input != "" {
		return *fileCfg.Report.Input
	}
	return defaultCountsFile
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# das-report configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# input = %q         # Default counts file
# expected-per-day = %d        # Files expected per day (one per minute)
# record = true                # Record runs in the history database

[history]
# last = 20                    # Limit listing to last N runs
# color = false                # Colorize history output
`,
		defaultCountsFile,
		defaultExpectedPerDay,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
