package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/analysis/recorder"
	"mercator-hq/jobscan/pkg/cli"
	"mercator-hq/jobscan/pkg/rules"
)

var analyzeFlags struct {
	file   string
	output string
	save   bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Score a job posting for scam risk",
	Long: `Score a job posting against the rule catalog and print the verdict.

The posting is read from the argument, from --file, or from stdin when
neither is given.

Examples:
  # Analyze text from the command line
  jobscan analyze "Registration fee required. Contact on WhatsApp only."

  # Analyze a file and print JSON
  jobscan analyze --file posting.txt --output json

  # Analyze stdin and store the result in the audit trail
  cat posting.txt | jobscan analyze --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.file, "file", "f", "", "read the posting from a file")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.output, "output", "o", "text", "output format: text, json")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.save, "save", false, "record the analysis in the configured storage")
	_ = analyzeCmd.RegisterFlagCompletionFunc("output", fixedCompletion("text", "json"))
}

// verdict is the analyze output. ID is set when the analysis was saved.
type verdict struct {
	rules.Result
	ID *int64 `json:"id,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(analyzeFlags.output, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	text, err := readPosting(cmd.InOrStdin(), args, analyzeFlags.file)
	if err != nil {
		return err
	}

	engine := rules.Default()
	outcomes := engine.Evaluate(text)
	out := verdict{Result: rules.Fold(outcomes)}

	for _, fault := range rules.Faults(outcomes) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: rule %s skipped: %v\n", fault.Rule.Key, fault.Err)
	}

	if analyzeFlags.save {
		id, err := saveAnalysis(cmd, text, out.Result)
		if err != nil {
			return cli.NewCommandError("analyze", err)
		}
		out.ID = &id
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), out)
	}
	return writeVerdictText(cmd.OutOrStdout(), out)
}

func saveAnalysis(cmd *cobra.Command, text string, result rules.Result) (int64, error) {
	ctx := commandContext(cmd)

	cfg, store, err := openStorage(ctx)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	// The CLI saves even when the API's recorder is switched off.
	recCfg := cfg.Recorder
	recCfg.Enabled = true

	record, err := recorder.New(store, &recCfg).Record(ctx, "", text, result)
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

// readPosting returns the posting text from exactly one source.
func readPosting(stdin io.Reader, args []string, file string) (string, error) {
	var text string
	switch {
	case len(args) > 0 && file != "":
		return "", cli.NewUsageError("file", "cannot be combined with a text argument")
	case len(args) > 0:
		text = args[0]
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read posting: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read posting from stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("job description is empty")
	}
	return text, nil
}

func writeVerdictText(w io.Writer, v verdict) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk score: %d\n", v.RiskScore)
	fmt.Fprintf(&b, "Risk level: %s\n", v.RiskLevel)
	if v.ID != nil {
		fmt.Fprintf(&b, "Saved as: #%d\n", *v.ID)
	}
	b.WriteString("Reasons:\n")
	for _, reason := range v.Reasons {
		fmt.Fprintf(&b, "  - %s\n", reason)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
