package rules

import (
	"fmt"
	"strings"
)

// Level is a coarse risk tier derived from a risk score.
type Level string

// Risk levels.
const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Tier upper bounds (inclusive).
const (
	LowMaxScore    = 30
	MediumMaxScore = 60
)

// Classify maps a risk score to its level.
func Classify(score int) Level {
	switch {
	case score <= LowMaxScore:
		return LevelLow
	case score <= MediumMaxScore:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// ParseLevel parses a level name, ignoring case and surrounding whitespace.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	default:
		return "", fmt.Errorf("unknown risk level %q (must be LOW, MEDIUM or HIGH)", s)
	}
}

// Levels returns all levels from lowest to highest.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

func (l Level) String() string {
	return string(l)
}
