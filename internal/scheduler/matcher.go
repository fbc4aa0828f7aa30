package scheduler

// Matcher decides whether a package name matches a set of glob patterns.
type Matcher interface {
	MatchAny(patterns []string, name string) bool
}
