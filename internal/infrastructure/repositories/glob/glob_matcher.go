package glob

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"
)

// Matcher matches names and paths against doublestar patterns.
// Patterns prefixed with "!" exclude what the other patterns include.
type Matcher struct{}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// MatchAny reports whether name matches at least one positive pattern and no negated one.
// A list made only of negations includes every name it does not exclude.
func (m *Matcher) MatchAny(patterns []string, name string) bool {
	normalized := filepath.ToSlash(name)
	included := len(patterns) > 0 && onlyNegations(patterns)

	for _, pattern := range patterns {
		negated := strings.HasPrefix(pattern, "!")
		pat := strings.TrimPrefix(pattern, "!")

		matched, err := doublestar.Match(pat, normalized)
		if err != nil {
			logger.Warnf("Invalid glob pattern %q: %v", pattern, err)
			continue
		}
		if !matched {
			continue
		}
		if negated {
			return false
		}
		included = true
	}
	return included
}

func onlyNegations(patterns []string) bool {
	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, "!") {
			return false
		}
	}
	return true
}

// Validate reports the first malformed pattern.
func Validate(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(strings.TrimPrefix(pattern, "!")) {
			return &InvalidPatternError{Pattern: pattern}
		}
	}
	return nil
}

// InvalidPatternError is returned by Validate.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return "invalid glob pattern: " + e.Pattern
}
