package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a list of regular expressions that matches when any of them
// does. It implements pflag.Value; each Set adds one expression.
type Pattern struct {
	patterns []*regexp.Regexp
}

func (p Pattern) String() string {
	var ss []string
	for _, r := range p.patterns {
		ss = append(ss, `"`+r.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set compiles value and adds it to the pattern.
func (p *Pattern) Set(value string) error {
	r, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	p.patterns = append(p.patterns, r)
	return nil
}

// Type implements pflag.Value.
func (p *Pattern) Type() string {
	return "regex"
}

// IsDefined reports whether any expression was added.
func (p Pattern) IsDefined() bool {
	return len(p.patterns) != 0
}

// AnyMatch reports whether s matches any expression.
func (p Pattern) AnyMatch(s string) bool {
	for _, r := range p.patterns {
		if r.MatchString(s) {
			return true
		}
	}
	return false
}

// RegexFilters selects tests by matching TestID.String against patterns.
type RegexFilters struct {
	MustMatch    Pattern
	MustNotMatch Pattern
}

// Match reports whether id is selected: it must match MustMatch, when that is
// defined, and must not match MustNotMatch.
func (f RegexFilters) Match(id TestID) bool {
	s := id.String()
	return (!f.MustMatch.IsDefined() || f.MustMatch.AnyMatch(s)) &&
		!f.MustNotMatch.AnyMatch(s)
}

// Describe renders the filters for a log line, or "" when none are set.
func (f RegexFilters) Describe() string {
	var parts []string
	if f.MustMatch.IsDefined() {
		parts = append(parts, "tests matching "+f.MustMatch.String())
	}
	if f.MustNotMatch.IsDefined() {
		parts = append(parts, "skipping tests matching "+f.MustNotMatch.String())
	}
	return strings.Join(parts, "; ")
}
