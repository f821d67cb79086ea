package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/export"
	"mercator-hq/jobscan/pkg/analysis/query"
	"mercator-hq/jobscan/pkg/analysis/retention"
	"mercator-hq/jobscan/pkg/api/handlers"
	"mercator-hq/jobscan/pkg/cli"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"
)

const listSnippetLength = 60

// filterFlags mirror the GET /analyses query parameters.
type filterFlags struct {
	riskLevel string
	startDate string
	endDate   string
	search    string
	sort      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.riskLevel, "risk-level", "", "filter by risk level (LOW, MEDIUM, HIGH)")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "earliest created_at, ISO 8601 (inclusive)")
	cmd.Flags().StringVar(&f.endDate, "end-date", "", "latest created_at, ISO 8601 (inclusive)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "case-insensitive substring of the job description")
	cmd.Flags().StringVar(&f.sort, "sort", query.SortCreatedDesc, "created_at (oldest first) or -created_at (newest first)")
}

func (f *filterFlags) values() (url.Values, error) {
	if err := query.ValidateRiskLevel(strings.ToUpper(strings.TrimSpace(f.riskLevel))); err != nil {
		return nil, cli.NewUsageError("risk-level", err.Error())
	}
	switch f.sort {
	case "", query.SortCreatedAsc, query.SortCreatedDesc:
	default:
		return nil, cli.NewUsageError("sort", fmt.Sprintf("must be %s or %s", query.SortCreatedAsc, query.SortCreatedDesc))
	}

	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("risk_level", f.riskLevel)
	set("start_date", f.startDate)
	set("end_date", f.endDate)
	set("q", f.search)
	set("sort", f.sort)
	return v, nil
}

var listFlags struct {
	filterFlags
	page    int
	perPage int
	output  string
}

var exportFlags struct {
	filterFlags
	format   string
	output   string
	limit    int
	progress bool
}

var pruneFlags struct {
	days       int
	maxRecords int64
}

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Browse the analysis audit trail",
	Long: `List, export and prune stored analyses.

Subcommands:
  list    - Page through analyses with the same filters as GET /analyses
  export  - Write every matching analysis as JSON or CSV
  prune   - Apply the retention policy now`,
}

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses",
	Long: `List stored analyses, newest first.

Examples:
  # Latest 20 analyses
  jobscan analyses list

  # High risk postings from January, as CSV
  jobscan analyses list --risk-level HIGH --start-date 2025-01-01 --end-date 2025-01-31 --output csv

  # Search descriptions
  jobscan analyses list -q whatsapp --page 2 --per-page 50`,
	Args: cobra.NoArgs,
	RunE: listAnalyses,
}

var analysesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored analyses",
	Long: `Export every analysis matching the filters, streaming from storage.

Examples:
  # Export everything as JSON to stdout
  jobscan analyses export

  # Export high risk analyses to a CSV file
  jobscan analyses export --risk-level HIGH --format csv --output high.csv`,
	Args: cobra.NoArgs,
	RunE: exportAnalyses,
}

var analysesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete analyses outside the retention policy",
	Long: `Delete analyses older than the retention period and, when a record cap is
set, the oldest analyses beyond it. Defaults come from the retention section
of the configuration.

Examples:
  # Apply the configured policy
  jobscan analyses prune

  # Keep 30 days and at most 10000 analyses
  jobscan analyses prune --days 30 --max-records 10000`,
	Args: cobra.NoArgs,
	RunE: pruneAnalyses,
}

func init() {
	rootCmd.AddCommand(analysesCmd)
	analysesCmd.AddCommand(analysesListCmd, analysesExportCmd, analysesPruneCmd)

	listFlags.register(analysesListCmd)
	analysesListCmd.Flags().IntVar(&listFlags.page, "page", 1, "page number, starting at 1")
	analysesListCmd.Flags().IntVar(&listFlags.perPage, "per-page", 0, "page size (default from config)")
	analysesListCmd.Flags().StringVarP(&listFlags.output, "output", "o", "text", "output format: text, json, csv")

	exportFlags.register(analysesExportCmd)
	analysesExportCmd.Flags().StringVar(&exportFlags.format, "format", export.FormatJSON, "export format: json, csv")
	analysesExportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: stdout)")
	analysesExportCmd.Flags().IntVar(&exportFlags.limit, "limit", 0, "maximum number of analyses (0 exports all)")
	analysesExportCmd.Flags().BoolVar(&exportFlags.progress, "progress", true, "show progress on stderr when writing to a file")

	analysesPruneCmd.Flags().IntVar(&pruneFlags.days, "days", -1, "retention days (default from config, 0 disables age pruning)")
	analysesPruneCmd.Flags().Int64Var(&pruneFlags.maxRecords, "max-records", -1, "record cap (default from config, 0 disables)")

	levels := make([]string, 0, 3)
	for _, l := range rules.Levels() {
		levels = append(levels, l.String())
	}
	for _, cmd := range []*cobra.Command{analysesListCmd, analysesExportCmd} {
		_ = cmd.RegisterFlagCompletionFunc("risk-level", fixedCompletion(levels...))
		_ = cmd.RegisterFlagCompletionFunc("sort", fixedCompletion(query.SortCreatedDesc, query.SortCreatedAsc))
	}
	_ = analysesListCmd.RegisterFlagCompletionFunc("output", fixedCompletion("text", "json", "csv"))
	_ = analysesExportCmd.RegisterFlagCompletionFunc("format", fixedCompletion(export.FormatJSON, export.FormatCSV))
}

func listAnalyses(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(listFlags.output, cli.FormatText, cli.FormatJSON, cli.FormatCSV)
	if err != nil {
		return err
	}

	values, err := listFlags.values()
	if err != nil {
		return err
	}
	values.Set("page", strconv.Itoa(listFlags.page))
	if listFlags.perPage > 0 {
		values.Set("per_page", strconv.Itoa(listFlags.perPage))
	}

	ctx := commandContext(cmd)
	cfg, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	params, err := limitsFor(cfg).Parse(values)
	if err != nil {
		return err
	}

	page, err := analysis.FetchPage(ctx, store, params.ToQuery())
	if err != nil {
		return cli.NewCommandError("analyses list", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case cli.FormatJSON:
		return cli.NewFormatter(format).FormatTo(out, handlers.NewAnalysesResponse(page, params))
	case cli.FormatCSV:
		table := cli.Table{Headers: export.Header}
		for _, record := range page.Items {
			table.Rows = append(table.Rows, export.Row(record))
		}
		return cli.NewFormatter(format).FormatTo(out, table)
	default:
		return writeListText(out, page, params)
	}
}

func writeListText(w io.Writer, page *analysis.Page, params *query.ListParams) error {
	if len(page.Items) == 0 {
		_, err := fmt.Fprintf(w, "No analyses found (%d total).\n", page.Total)
		return err
	}

	table := cli.Table{Headers: []string{"ID", "CREATED", "LEVEL", "SCORE", "DESCRIPTION"}}
	for _, record := range page.Items {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.CreatedAt.UTC().Format(time.RFC3339),
			record.RiskLevel,
			strconv.Itoa(record.RiskScore),
			analysis.Snippet(strings.Join(strings.Fields(record.JobDescription), " "), listSnippetLength),
		})
	}
	if err := cli.NewFormatter(cli.FormatText).FormatTo(w, table); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d analyses)\n", params.Page, max(page.TotalPages, 1), page.Total)
	return err
}

func exportAnalyses(cmd *cobra.Command, args []string) error {
	exporter, err := export.New(exportFlags.format)
	if err != nil {
		return cli.NewUsageError("format", err.Error())
	}
	if exportFlags.limit < 0 {
		return cli.NewUsageError("limit", "must not be negative")
	}

	values, err := exportFlags.values()
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(commandContext(cmd))
	defer stop()

	cfg, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	params, err := limitsFor(cfg).Parse(values)
	if err != nil {
		return err
	}
	q := params.ToQuery()
	q.Offset = 0
	q.Limit = exportFlags.limit

	var w io.Writer = cmd.OutOrStdout()
	var progress cli.ProgressReporter = cli.NopProgress{}
	if exportFlags.output != "" {
		f, err := os.Create(exportFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
		if exportFlags.progress {
			progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		}
	}

	var startOnce sync.Once
	n, err := export.Query(ctx, store, q, exporter, w, export.WithProgress(func(done, total int64) {
		startOnce.Do(func() { progress.Start(total) })
		progress.Update(done)
	}))
	if err != nil {
		progress.Error(err)
		return cli.NewCommandError("analyses export", err)
	}
	progress.Finish()

	if exportFlags.output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d analyses to %s\n", n, exportFlags.output)
	}
	return nil
}

func pruneAnalyses(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SignalContext(commandContext(cmd))
	defer stop()

	cfg, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	policy := cfg.Retention
	if pruneFlags.days >= 0 {
		policy.Days = pruneFlags.days
	}
	if pruneFlags.maxRecords >= 0 {
		policy.MaxRecords = pruneFlags.maxRecords
	}

	out := cmd.OutOrStdout()
	if policy.Days == 0 && policy.MaxRecords == 0 {
		fmt.Fprintln(out, "Retention is disabled (days and max-records are 0); nothing to prune.")
		return nil
	}

	deleted, err := retention.NewPruner(store, &policy).Prune(ctx)
	if err != nil {
		return cli.NewCommandError("analyses prune", err)
	}

	fmt.Fprintf(out, "✓ Pruned %d analyses\n", deleted)
	return nil
}

func limitsFor(cfg *config.Config) query.Limits {
	return query.Limits{
		DefaultPerPage: cfg.Query.DefaultPerPage,
		MaxPerPage:     cfg.Query.MaxPerPage,
	}
}
