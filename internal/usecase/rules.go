package usecase

import (
	"regexp"
	"strconv"
)

// rule pairs a text pattern with the value it produces.
// A rule is skipped when unless matches the text, and a value func returning
// false lets the evaluation fall through to the next rule.
type rule[T any] struct {
	name    string
	pattern *regexp.Regexp
	unless  *regexp.Regexp
	value   func(m []string) (T, bool)
}

// apply evaluates a single rule against already normalized text
func (r rule[T]) apply(text string) (T, bool) {
	var zero T
	if r.unless != nil && r.unless.MatchString(text) {
		return zero, false
	}
	m := r.pattern.FindStringSubmatch(text)
	if m == nil {
		return zero, false
	}
	return r.value(m)
}

// firstMatch returns the value of the first rule that accepts the text,
// together with the rule's name.
func firstMatch[T any](rules []rule[T], text string) (T, string, bool) {
	for _, r := range rules {
		if v, ok := r.apply(text); ok {
			return v, r.name, true
		}
	}
	var zero T
	return zero, "", false
}

// constant returns a value func that always yields v
func constant[T any](v T) func([]string) (T, bool) {
	return func([]string) (T, bool) { return v, true }
}

// tagRule builds a classifier rule that emits tag when pattern matches
func tagRule(tag, pattern string) rule[string] {
	return rule[string]{name: tag, pattern: regexp.MustCompile(pattern), value: constant(tag)}
}

// atoi parses a captured integer, treating parse failures as zero
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// atof parses a captured decimal number, treating parse failures as zero
func atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
