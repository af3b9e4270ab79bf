// Package resourcetests contains the resource server contract tests themselves and their
// supporting API.
//
// Test harness infrastructure that is not specific to this domain, such as the test context,
// filtering, and result reporting, is in the lower-level framework package. Fetching pages is
// delegated to a navigator.Navigator.
package resourcetests
