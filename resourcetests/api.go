package resourcetests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/knakk/fenster-contract-tests/contractdef"
	"github.com/knakk/fenster-contract-tests/framework"
	"github.com/knakk/fenster-contract-tests/navigator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	DefaultNavigationTimeout = time.Second * 10
	DefaultGeneratedSuffixes = 8
	DefaultGeneratedPaths    = 4

	// how much body text to show in a failure message
	maxBodyExcerpt = 500
)

// SuiteConfig holds the parameters of a test run that are not part of the contract itself.
type SuiteConfig struct {
	// NavigationTimeout bounds each navigation step, including rendering.
	NavigationTimeout time.Duration
	// GeneratedSuffixes is how many random unknown suffixes to check, unless the contract says.
	GeneratedSuffixes int
	// GeneratedPaths is how many random missing paths to check, unless the contract says.
	GeneratedPaths int
	// Seed makes the generated suffixes and paths reproducible.
	Seed int64
}

type environment struct {
	target    *framework.Target
	navigator navigator.Navigator
	contract  contractdef.Contract
	config    SuiteConfig
}

// T represents a test or subtest in the resource contract test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by the lower-level framework package.
//
// It also provides the navigation step and the assertions that the contract is made of. To make
// other assertions, use the assert and require packages, passing the *T as if it were a
// *testing.T. Assertions are soft: a failed assertion is recorded and the test continues. A
// navigation that gets no response at all ends the test immediately.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Defer(fn func()) {
	t.context.Defer(fn)
}

// SkipWithReason ends the test without failing it.
func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}

// Contract returns the contract being tested, already limited to the selected revision.
func (t *T) Contract() contractdef.Contract {
	return t.env.contract
}

func (t *T) Config() SuiteConfig {
	return t.env.config
}

// Navigate performs a GET request for a path (or an absolute URL under the target's base URL)
// and blocks until the response and any rendering are complete.
//
// If the navigation fails at the transport level, the failure is recorded as a
// navigator.NavigationError and the test exits immediately.
func (t *T) Navigate(pathOrURL string) navigator.Response {
	url, err := t.env.target.Resolve(pathOrURL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), t.env.config.NavigationTimeout)
	defer cancel()

	log := framework.LoggerWithPrefix(t.context.DebugLogger(), "navigate: ")
	log.Printf(">> GET %s", url)
	started := time.Now()
	resp, err := t.env.navigator.Navigate(ctx, url)
	if err != nil {
		var navErr *navigator.NavigationError
		if !errors.As(err, &navErr) {
			err = &navigator.NavigationError{URL: url, Err: err}
		}
		log.Printf("<< error: %s", err)
		t.context.Fail(err)
		t.FailNow()
	}
	log.Printf("<< %d (%s) from %s in %s, Content-Type: %q, title: %q",
		resp.Status, http.StatusText(resp.Status), resp.URL, time.Since(started), resp.Header.Get("Content-Type"), resp.Title)
	return resp
}

// AssertStatus checks the HTTP status of the final response.
func (t *T) AssertStatus(resp navigator.Response, expected int) bool {
	return assert.Equal(t, expected, resp.Status, "unexpected status code for %s", resp.URL)
}

// AssertTitle checks that the rendered document title is exactly as expected.
func (t *T) AssertTitle(resp navigator.Response, expected string) bool {
	return assert.Equal(t, expected, resp.Title, "unexpected document title for %s", resp.URL)
}

// AssertHeaderMatches checks that a response header is present and matches a regular
// expression.
func (t *T) AssertHeaderMatches(resp navigator.Response, name, pattern string) bool {
	rx, err := regexp.Compile(pattern)
	if err != nil {
		t.Errorf("invalid pattern %q for %s header: %s", pattern, name, err)
		return false
	}
	values := resp.Header.Values(name)
	if len(values) == 0 {
		t.Errorf("response from %s had no %s header; expected one matching %q", resp.URL, name, pattern)
		return false
	}
	return assert.Regexp(t, rx, values[0], "%s header of %s did not match", name, resp.URL)
}

// AssertBodyContains checks that the rendered body text contains a substring.
func (t *T) AssertBodyContains(resp navigator.Response, substring string) bool {
	if strings.Contains(resp.Text, substring) {
		return true
	}
	// not assert.Contains, which would print the whole body
	t.Errorf("body of %s did not contain %q; body was: %s", resp.URL, substring, excerpt(resp.Text))
	return false
}

// AssertJSONPaths checks that the body is well-formed JSON in which every path exists.
func (t *T) AssertJSONPaths(resp navigator.Response, paths ...string) bool {
	if !gjson.ValidBytes(resp.Body) {
		t.Errorf("body of %s is not valid JSON: %s", resp.URL, excerpt(string(resp.Body)))
		return false
	}
	ok := true
	for _, p := range paths {
		if !gjson.GetBytes(resp.Body, p).Exists() {
			t.Errorf("JSON body of %s has no value at path %q", resp.URL, p)
			ok = false
		}
	}
	return ok
}

// AssertRepresentation applies every check the contract defines for a representation.
func (t *T) AssertRepresentation(resp navigator.Response, rep contractdef.Representation) {
	t.AssertStatus(resp, rep.Status)
	if rep.Title.IsDefined() {
		t.AssertTitle(resp, rep.Title.StringValue())
	}
	if rep.ContentType.IsDefined() {
		t.AssertHeaderMatches(resp, "Content-Type", rep.ContentType.StringValue())
	}
	if rep.BodyContains.IsDefined() {
		t.AssertBodyContains(resp, rep.BodyContains.StringValue())
	}
	if len(rep.JSONPaths) > 0 {
		t.AssertJSONPaths(resp, rep.JSONPaths...)
	}
}

func describeSuffix(suffix string) string {
	if suffix == "" {
		return "(no suffix)"
	}
	return suffix
}

func excerpt(s string) string {
	if len(s) <= maxBodyExcerpt {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q... (%d bytes)", s[:maxBodyExcerpt], len(s))
}
