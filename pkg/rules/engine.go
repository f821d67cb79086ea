package rules

import (
	"errors"
	"fmt"
)

// NoIndicatorsReason is the only reason reported when no rule matched.
const NoIndicatorsReason = "No scam indicators detected"

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// ErrNoPattern is reported for a rule that has no compiled pattern.
var ErrNoPattern = errors.New("rule has no pattern")

// Outcome is the result of evaluating a single rule.
type Outcome int

const (
	// NotMatched means the pattern did not match the text.
	NotMatched Outcome = iota
	// Matched means the pattern matched at least once.
	Matched
	// Faulted means evaluation failed; the rule is skipped.
	Faulted
)

func (o Outcome) String() string {
	switch o {
	case NotMatched:
		return "not_matched"
	case Matched:
		return "matched"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RuleOutcome pairs a rule with its evaluation outcome.
type RuleOutcome struct {
	Rule    Rule
	Outcome Outcome
	// Err describes the fault when Outcome is Faulted.
	Err error
}

// Result is the verdict for one input text.
type Result struct {
	RiskScore int      `json:"risk_score"`
	RiskLevel Level    `json:"risk_level"`
	Reasons   []string `json:"reasons"`
}

// Engine evaluates a catalog against input text.
type Engine struct {
	catalog Catalog
}

// NewEngine creates an engine over the given catalog. The catalog is copied.
func NewEngine(catalog Catalog) *Engine {
	c := make(Catalog, len(catalog))
	copy(c, catalog)
	return &Engine{catalog: c}
}

var defaultEngine = NewEngine(defaultCatalog)

// Default returns the engine over the built-in catalog.
func Default() *Engine {
	return defaultEngine
}

// Catalog returns a copy of the engine's catalog.
func (e *Engine) Catalog() Catalog {
	c := make(Catalog, len(e.catalog))
	copy(c, e.catalog)
	return c
}

// Evaluate runs every rule against text and returns one outcome per rule,
// in catalog order.
func (e *Engine) Evaluate(text string) []RuleOutcome {
	outcomes := make([]RuleOutcome, len(e.catalog))
	for i, r := range e.catalog {
		outcomes[i] = evaluate(r, text)
	}
	return outcomes
}

// Analyze scores text. A nil text is treated as empty.
func (e *Engine) Analyze(text *string) Result {
	if text == nil {
		return Fold(e.Evaluate(""))
	}
	return Fold(e.Evaluate(*text))
}

// AnalyzeText scores text.
func (e *Engine) AnalyzeText(text string) Result {
	return Fold(e.Evaluate(text))
}

// Analyze scores text with the default engine.
func Analyze(text *string) Result {
	return defaultEngine.Analyze(text)
}

// AnalyzeText scores text with the default engine.
func AnalyzeText(text string) Result {
	return defaultEngine.AnalyzeText(text)
}

// Fold combines rule outcomes into a Result. Faulted and unmatched rules
// contribute nothing.
func Fold(outcomes []RuleOutcome) Result {
	score := 0
	reasons := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Outcome != Matched {
			continue
		}
		score += o.Rule.Score
		reasons = append(reasons, o.Rule.Reason)
	}

	score = clamp(score, MinScore, MaxScore)
	if len(reasons) == 0 {
		reasons = []string{NoIndicatorsReason}
	}

	return Result{
		RiskScore: score,
		RiskLevel: Classify(score),
		Reasons:   reasons,
	}
}

// Faults returns the faulted outcomes.
func Faults(outcomes []RuleOutcome) []RuleOutcome {
	var faults []RuleOutcome
	for _, o := range outcomes {
		if o.Outcome == Faulted {
			faults = append(faults, o)
		}
	}
	return faults
}

func evaluate(r Rule, text string) (out RuleOutcome) {
	out.Rule = r
	if r.Pattern == nil {
		out.Outcome = Faulted
		out.Err = fmt.Errorf("rule %s: %w", r.Key, ErrNoPattern)
		return out
	}

	defer func() {
		if p := recover(); p != nil {
			out.Outcome = Faulted
			out.Err = fmt.Errorf("rule %s: evaluation panicked: %v", r.Key, p)
		}
	}()

	if r.Pattern.MatchString(text) {
		out.Outcome = Matched
	} else {
		out.Outcome = NotMatched
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
