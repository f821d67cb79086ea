// Package rules implements the deterministic scam-risk engine for job postings.
//
// # Catalog
//
// The engine holds a fixed, ordered catalog of detection rules. Each rule is a
// plain value record: a key, a case-insensitive pattern, a positive weight and
// the human-readable reason reported when the pattern matches. The catalog is
// compiled once at package initialization and is never mutated afterwards.
//
// # Scoring
//
// Every rule is evaluated independently against the full input text and yields
// an Outcome (matched, not matched, faulted). Outcomes are folded into a Result:
//
//	score   = clamp(sum of matched weights, 0, 100)
//	reasons = reasons of matched rules, in catalog order
//	level   = Classify(score)
//
// A rule contributes at most once per input. A faulted rule is skipped, so
// Analyze always returns a valid Result. When no rule matched, Reasons holds the
// single sentinel entry NoIndicatorsReason.
//
// # Levels
//
//	score <= 30        LOW
//	31 <= score <= 60  MEDIUM
//	score > 60         HIGH
//
// # Concurrency
//
// Engine has no mutable state. All methods are safe for concurrent use.
//
// # Usage
//
//	result := rules.AnalyzeText("Immediate hire, pay a registration fee")
//	fmt.Println(result.RiskScore, result.RiskLevel, result.Reasons)
package rules
