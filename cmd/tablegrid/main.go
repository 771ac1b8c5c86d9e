// Package main provides the CLI entry point for tablegrid.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/output"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

var (
	configPath string
	verbose    bool
	pretty     bool
	showGrid   bool
	outputPath string
	noRepair   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablegrid",
		Short: "Inspect and repair tables with merged cells",
		Long: `tablegrid reads tables from xlsx, HTML or JSON documents, reports
overlapping and missing cells, and repairs them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Options file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Report the problems of every table",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	inspectCmd.Flags().BoolVar(&showGrid, "grid", false, "Draw each table's grid after the report")

	fixCmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Repair every table and write the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runFix,
	}
	fixCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (required)")
	fixCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	_ = fixCmd.MarkFlagRequired("output")

	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a document between xlsx, HTML and JSON",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}
	convertCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	convertCmd.Flags().BoolVar(&noRepair, "no-repair", false, "Keep tables as they are")

	rootCmd.AddCommand(inspectCmd, fixCmd, convertCmd)
	return rootCmd
}

// loadOptions reads the options file, if any, and applies the cache
// choice.
func loadOptions() (tablegrid.Options, error) {
	opts := tablegrid.DefaultOptions()
	if configPath != "" {
		var err error
		if opts, err = tablegrid.LoadOptionsFile(configPath); err != nil {
			return opts, err
		}
	}
	tablemap.SetDefaultCache(opts.NewCache())
	return opts, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	// Inspection reports the tables as found.
	keep := false
	opts.RepairOnLoad = &keep

	doc, err := tablegrid.Load(args[0], opts)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	report, err := tablegrid.Inspect(doc)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	jsonData, err := output.ToJSON(report, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, string(jsonData))

	if showGrid {
		for _, t := range report.Tables {
			fmt.Fprintf(out, "\ntable %d (%dx%d)\n", t.Index, t.Width, t.Height)
			if err := output.RenderGrid(out, t.Table(), t.Map(), 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func runFix(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	keep := false
	opts.RepairOnLoad = &keep
	doc, err := tablegrid.Load(args[0], opts)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	fixed, passes, err := tablegrid.Repair(doc, opts.RepairPasses())
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	if err := tablegrid.Save(outputPath, fixed, pretty); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "repaired %s in %d pass(es), wrote %s\n", args[0], passes, outputPath)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	if noRepair {
		keep := false
		opts.RepairOnLoad = &keep
	}
	doc, err := tablegrid.Load(args[0], opts)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	if err := tablegrid.Save(args[1], doc, pretty); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
