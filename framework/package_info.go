// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of contract tests.
//
// The general model is:
//
// 1. The test harness talks to a target server, whose base URL is held by a Target. Every
// request the tests make must resolve to a URL rooted at that base URL.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Failures are soft by default: they are recorded and the test
// keeps going, unless the test calls FailNow.
//
// The domain-specific code that knows what is being tested is responsible for deciding which
// requests to make and for providing a domain-specific test API on top of the test context.
package framework
