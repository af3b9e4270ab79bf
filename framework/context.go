package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of a single test or subtest. It implements the TestingT interfaces of
// the testify assert and require packages.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run runs the root test action and returns the accumulated results of it and all of its
// subtests.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				if len(c.errors) == 0 {
					return
				}
				// a test that already failed stays failed
				c.skipped = false
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if c.id.IsRoot() {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()
	defer c.runCleanups()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest. The subtest has its own failure state; a failure in the subtest marks
// only the subtest as failed, not its parent.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true})
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true})
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a test failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.Fail(fmt.Errorf(format, args...))
}

// Fail records an error value as a test failure without stopping the test. Unlike Errorf, the
// error is kept as-is, so the results can be inspected with errors.As.
func (c *Context) Fail(err error) {
	c.failed = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the current test ends, whether or not it failed.
// Deferred functions run in last-in-first-out order.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// testify's failure messages start with a blank line and pad every line with tabs; that looks
// odd in our indented console output.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimLeft(err.Error(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "\t")
	}
	return errors.New(strings.Join(lines, "\n"))
}
