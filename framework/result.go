package framework

import (
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Ran returns the number of tests that were not skipped.
func (r Results) Ran() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns the number of tests that were skipped.
func (r Results) Skipped() int {
	return len(r.Tests) - r.Ran()
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// IsRoot is true for the ID of the top-level context created by Run.
func (t TestID) IsRoot() bool {
	return len(t.Path) == 0
}

// Plus returns the ID of a subtest. The returned ID never shares its backing array with t.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}
