package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"jailreport/adapters/excel"
	"jailreport/app"
	"jailreport/internal"
	"jailreport/internal/cleaning"
	"jailreport/internal/config"
	"jailreport/internal/profiling"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jailreport",
		Short:         "Clean monthly jail population reports into analysis-ready CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newProcessCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

// overrides carries flag values that take precedence over the environment
type overrides struct {
	outputDir   string
	rulesFile   string
	sheetName   string
	parallelism int
	previewRows int
	manifest    bool
}

func loadConfig(cmd *cobra.Command, o overrides) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Paths.OutputDir = o.outputDir
	}
	if flags.Changed("sheet") {
		cfg.Input.SheetName = o.sheetName
	}
	if flags.Changed("parallel") {
		cfg.Run.Parallelism = o.parallelism
	}
	if flags.Changed("preview") {
		cfg.Input.PreviewRows = o.previewRows
	}
	if flags.Changed("manifest") {
		cfg.Run.WriteManifest = o.manifest
	}
	if flags.Changed("rules") {
		rules, err := config.LoadRules(o.rulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Paths.RulesFile = o.rulesFile
		cfg.Rules = *rules
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newService(cfg *config.Config, logger *internal.Logger) *app.ReportService {
	reader := excel.NewDataReader(excel.ReaderConfig{
		SheetName:   cfg.Input.SheetName,
		PreviewRows: cfg.Input.PreviewRows,
	}, logger)
	pipeline := cleaning.NewPipeline(cfg.Rules.CastRules,
		cleaning.WithJurisdictionRules(cfg.Rules.JurisdictionRules),
		cleaning.WithLogger(logger),
	)
	return app.NewReportService(reader, excel.NewCSVWriter(cfg.Paths.OutputDir), pipeline, logger, cfg.Run.Parallelism)
}

func addInputFlags(cmd *cobra.Command, o *overrides) {
	cmd.Flags().StringVar(&o.rulesFile, "rules", "", "YAML file with cast_rules and jurisdiction_rules")
	cmd.Flags().StringVar(&o.sheetName, "sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().IntVar(&o.previewRows, "preview", 5, "Rows to preview after loading each file")
}

func newProcessCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Clean report files and write processed_<name>.csv for each",
		Long: `Clean one or more monthly report files.

Each file is normalized, gets a report_date column, has its jurisdiction
names trimmed, and is typecast by the configured keyword rules. A file that
fails is reported and skipped; the command exits non-zero if any file failed.

Configuration is read from the environment (or .env):
- OUTPUT_DIR (default: processed_data)
- CAST_RULES_FILE
- SHEET_NAME
- PREVIEW_ROWS (default: 5)
- PARALLELISM (default: 1)
- WRITE_MANIFEST (default: false)
- LOG_LEVEL (default: INFO)

Example: jailreport process reports/june_2024.xlsx reports/july_2024.xlsx --out processed_data --parallel 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return runProcess(cmd.Context(), cfg, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&o.outputDir, "out", "processed_data", "Directory for cleaned CSV files")
	cmd.Flags().IntVar(&o.parallelism, "parallel", 1, "Files processed at once")
	cmd.Flags().BoolVar(&o.manifest, "manifest", false, "Write a run manifest JSON next to the outputs")
	addInputFlags(cmd, &o)

	return cmd
}

func runProcess(ctx context.Context, cfg *config.Config, paths []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	svc := newService(cfg, logger)

	manifest, err := svc.ProcessAll(ctx, paths)
	if err != nil {
		return err
	}

	if cfg.Run.WriteManifest {
		path, err := manifest.WriteFile(cfg.Paths.OutputDir)
		if err != nil {
			return err
		}
		logger.Info("Wrote manifest %s", path)
	}

	failed := manifest.Failed()
	fmt.Fprintf(out, "Processed %d of %d files\n", len(manifest.Files)-len(failed), len(manifest.Files))
	if len(failed) > 0 {
		for _, f := range failed {
			fmt.Fprintf(out, "  FAILED %s [%s]: %s\n", f.Input, f.ErrorCode, f.Error)
		}
		return fmt.Errorf("%d of %d files failed", len(failed), len(manifest.Files))
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	var o overrides
	var keyword string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Clean a file in memory and summarize the columns matching a keyword",
		Long: `Run the cleaning pipeline on a single file without writing output, then
print the kind of every column whose name contains the keyword along with
count, missing, min, max, mean, median, standard deviation and sum for
numeric columns.

Example: jailreport inspect reports/june_2024.xlsx --keyword inmates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return runInspect(cfg, args[0], keyword, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&keyword, "keyword", "", "Column-name keyword to select (default: all columns)")
	addInputFlags(cmd, &o)

	return cmd
}

func runInspect(cfg *config.Config, path, keyword string, out io.Writer) error {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	svc := newService(cfg, logger)

	result, err := svc.CleanFile(path)
	if err != nil {
		return err
	}

	selected, err := cleaning.SelectByKeyword(result.Table, keyword)
	if err != nil {
		return err
	}
	if selected.Width() == 0 {
		fmt.Fprintf(out, "No columns match %q\n", keyword)
		return nil
	}

	if err := excel.WriteKinds(out, selected); err != nil {
		return err
	}
	fmt.Fprintln(out)

	summaries, err := profiling.Summarize(selected)
	if err != nil {
		return err
	}
	return writeSummaries(out, summaries)
}

func writeSummaries(out io.Writer, summaries []profiling.ColumnSummary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tcount\tmissing\tmin\tmax\tmean\tmedian\tstd\tsum")
	for _, s := range summaries {
		if !s.Numeric {
			fmt.Fprintf(tw, "%s\t%d\t%d\t-\t-\t-\t-\t-\t-\n", s.Name, s.Count, s.Missing)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%g\t%g\t%.2f\t%g\t%.2f\t%g\n", s.Name, s.Count, s.Missing, s.Min, s.Max, s.Mean, s.Median, s.StdDev, s.Sum)
	}
	return tw.Flush()
}
