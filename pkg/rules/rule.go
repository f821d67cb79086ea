package rules

import "regexp"

// Rule is a named, weighted text pattern with an explanatory reason.
type Rule struct {
	// Key uniquely identifies the rule within a catalog.
	Key string

	// Pattern is matched against the full input text.
	Pattern *regexp.Regexp

	// Score is the weight added to the total when the rule matches.
	Score int

	// Reason is reported to the caller when the rule matches.
	Reason string
}

// Catalog is an ordered list of rules. Order determines the order of reasons
// in a Result; it does not affect the score.
type Catalog []Rule

// Keys returns the rule keys in catalog order.
func (c Catalog) Keys() []string {
	keys := make([]string, len(c))
	for i, r := range c {
		keys[i] = r.Key
	}
	return keys
}

// Lookup returns the rule with the given key.
func (c Catalog) Lookup(key string) (Rule, bool) {
	for _, r := range c {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// MaxScore returns the sum of all rule weights before clamping.
func (c Catalog) MaxScore() int {
	total := 0
	for _, r := range c {
		total += r.Score
	}
	return total
}

// Rule keys of the default catalog.
const (
	KeyRegistrationFee = "registration_fee"
	KeyTrainingFee     = "training_fee"
	KeyWhatsAppOnly    = "whatsapp_only"
	KeyFreeEmail       = "free_email"
	KeyNoInterview     = "no_interview"
	KeyUnrealSalary    = "unreal_salary"
)

// Word boundaries and classes are spelled out over Unicode categories; RE2's
// \b, \d and \s only know ASCII. Only match or no-match is observed, so the
// boundary groups may consume a neighbouring character.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
	wordChar  = `[\p{L}\p{N}_]`
	space     = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
	digit     = `\p{Nd}`
)

var defaultCatalog = Catalog{
	{
		Key:     KeyRegistrationFee,
		Pattern: regexp.MustCompile(`(?i)` + wordStart + `(?:registration fee|registration fees|register fee)` + wordEnd),
		Score:   30,
		Reason:  "Mentions registration fee",
	},
	{
		Key:     KeyTrainingFee,
		Pattern: regexp.MustCompile(`(?i)` + wordStart + `(?:training fee|training fees|pay for training|training cost)` + wordEnd),
		Score:   30,
		Reason:  "Mentions training fee",
	},
	{
		Key:     KeyWhatsAppOnly,
		Pattern: regexp.MustCompile(`(?i)` + wordStart + `(?:whatsapp only|whatsapp-only|contact on whatsapp|only whatsapp)` + wordEnd),
		Score:   20,
		Reason:  "WhatsApp-only hiring or contact",
	},
	{
		// The local part may start on either side of a boundary: a word
		// character after a non-word one, or a symbol after a word character.
		Key: KeyFreeEmail,
		Pattern: regexp.MustCompile(`(?i)(?:` + wordStart + `[A-Z0-9]|` + wordChar + `[._%+-])` +
			`[A-Z0-9._%+-]*@(?:gmail|yahoo)\.(?:com|in|co\.uk|net)` + wordEnd),
		Score:  15,
		Reason: "Uses a free email provider",
	},
	{
		Key:     KeyNoInterview,
		Pattern: regexp.MustCompile(`(?i)` + wordStart + `(?:no interview|required no interview|no-interview|immediate hire|instant hire|start immediately)` + wordEnd),
		Score:   20,
		Reason:  "No interview or immediate hire promised",
	},
	{
		// A boundary before "$" needs a word character in front of it.
		Key: KeyUnrealSalary,
		Pattern: regexp.MustCompile(`(?i)(?:` + wordStart +
			`(?:earn` + space + `*\$?` + digit + `{3,}|earn upto|earn up to|unrealistic pay|make \$` + digit + `+)|` +
			wordChar + `\$` + digit + `{3,}` + space + `*(?:per|/)` + space + `*(?:week|day|month))` + wordEnd),
		Score:  25,
		Reason: "Makes unrealistic earnings/salary claims",
	},
}

// DefaultCatalog returns a copy of the built-in rule catalog.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCatalog))
	copy(c, defaultCatalog)
	return c
}
