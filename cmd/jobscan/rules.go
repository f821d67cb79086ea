package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/cli"
	"mercator-hq/jobscan/pkg/rules"
)

var rulesFlags struct {
	explain string
	output  string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the scam indicator rules",
	Long: `List the rule catalog with each rule's weight and reason.

With --explain, evaluate every rule against the given text and show which
ones matched and the resulting verdict.

Examples:
  # List rules
  jobscan rules

  # Explain a verdict
  jobscan rules --explain "Earn $500 per day, no interview"`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesFlags.explain, "explain", "", "show per-rule outcomes for this text")
	rulesCmd.Flags().StringVarP(&rulesFlags.output, "output", "o", "text", "output format: text, json")
	_ = rulesCmd.RegisterFlagCompletionFunc("output", fixedCompletion("text", "json"))
}

// ruleInfo describes one catalog entry.
type ruleInfo struct {
	Key     string `json:"key"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
	Pattern string `json:"pattern"`
}

// ruleExplanation is one rule's outcome for an explained text.
type ruleExplanation struct {
	Key     string `json:"key"`
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
	Error   string `json:"error,omitempty"`
}

type explanation struct {
	Rules  []ruleExplanation `json:"rules"`
	Result rules.Result      `json:"result"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(rulesFlags.output, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	engine := rules.Default()
	formatter := cli.NewFormatter(format)
	out := cmd.OutOrStdout()

	if rulesFlags.explain == "" {
		catalog := engine.Catalog()
		if format == cli.FormatJSON {
			infos := make([]ruleInfo, len(catalog))
			for i, r := range catalog {
				infos[i] = ruleInfo{Key: r.Key, Score: r.Score, Reason: r.Reason, Pattern: r.Pattern.String()}
			}
			return formatter.FormatTo(out, infos)
		}

		table := cli.Table{Headers: []string{"KEY", "SCORE", "REASON"}}
		for _, r := range catalog {
			table.Rows = append(table.Rows, []string{r.Key, strconv.Itoa(r.Score), r.Reason})
		}
		return formatter.FormatTo(out, table)
	}

	outcomes := engine.Evaluate(rulesFlags.explain)
	exp := explanation{Result: rules.Fold(outcomes)}
	for _, o := range outcomes {
		e := ruleExplanation{Key: o.Rule.Key, Outcome: o.Outcome.String(), Score: o.Rule.Score}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		exp.Rules = append(exp.Rules, e)
	}

	if format == cli.FormatJSON {
		return formatter.FormatTo(out, exp)
	}

	table := cli.Table{Headers: []string{"KEY", "OUTCOME", "SCORE"}}
	for _, e := range exp.Rules {
		score := "-"
		if e.Outcome == rules.Matched.String() {
			score = "+" + strconv.Itoa(e.Score)
		}
		table.Rows = append(table.Rows, []string{e.Key, e.Outcome, score})
	}
	if err := formatter.FormatTo(out, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nRisk score: %d (%s)\n", exp.Result.RiskScore, exp.Result.RiskLevel)
	return err
}
