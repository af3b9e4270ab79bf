package framework

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// KindedError is implemented by errors that want to be reported under a specific failure
// category. Errors that do not implement it are reported as assertion failures.
type KindedError interface {
	error
	FailureKind() string
}

const assertionFailureKind = "assertion failure"

// FailureKind returns the reporting category of an error recorded by a test.
func FailureKind(err error) string {
	var k KindedError
	if errors.As(err, &k) {
		return k.FailureKind()
	}
	return assertionFailureKind
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}

// PrintResults writes the end-of-run summary: counts, then every failed test with its errors.
func PrintResults(out io.Writer, results Results) {
	fmt.Fprintf(out, "Ran %d tests (%d skipped), %d failed\n",
		results.Ran(), results.Skipped(), len(results.Failures))
	if results.OK() {
		fmt.Fprintln(out, "All tests passed")
		return
	}
	fmt.Fprintln(out, "FAILED TESTS:")
	for _, f := range results.Failures {
		fmt.Fprintf(out, "* %s\n", f.TestID)
		for _, err := range f.Errors {
			lines := strings.Split(reformatError(err).Error(), "\n")
			fmt.Fprintf(out, "    %s: %s\n", FailureKind(err), lines[0])
			for _, line := range lines[1:] {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
}
