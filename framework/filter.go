package framework

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by matching their full ID path ("existing resource", or
// "parent/child" for subtests) against the -run and -skip patterns.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter runs a test if it or one of its parents matches a -run pattern, and no -skip
// pattern matches it or one of its parents. So selecting a test also selects its subtests.
func (r RegexFilters) AsFilter(id TestID) bool {
	selected := !r.MustMatch.IsDefined()
	for _, name := range id.ancestry() {
		if r.MustNotMatch.AnyMatch(name) {
			return false
		}
		if !selected && r.MustMatch.AnyMatch(name) {
			selected = true
		}
	}
	return selected
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// ancestry returns the IDs from the outermost test down to this one, as strings.
func (t TestID) ancestry() []string {
	ret := make([]string, 0, len(t.Path))
	for i := range t.Path {
		ret = append(ret, strings.Join(t.Path[:i+1], "/"))
	}
	return ret
}

// RegexList is a flag.Value that collects one pattern per occurrence of the flag.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex %q: %w", value, err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Patterns returns the source text of each pattern, in the order given.
func (r RegexList) Patterns() []string {
	ret := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		ret = append(ret, p.String())
	}
	return ret
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
