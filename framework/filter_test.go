package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDOf(path ...string) TestID {
	return TestID{Path: path}
}

func TestNoFiltersRunsEverything(t *testing.T) {
	var filters RegexFilters
	assert.False(t, filters.IsDefined())
	assert.True(t, filters.AsFilter(testIDOf("existing resource")))
}

func TestRunPatternSelectsSubtestsOfMatchingTest(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^existing resource$"))
	assert.True(t, filters.AsFilter(testIDOf("existing resource")))
	assert.True(t, filters.AsFilter(testIDOf("existing resource", ".json")))
	assert.False(t, filters.AsFilter(testIDOf("missing resource")))
	assert.True(t, filters.IsDefined())
}

func TestSkipPatternExcludesSubtestsOfMatchingTest(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^idempotence$"))
	assert.False(t, filters.AsFilter(testIDOf("idempotence")))
	assert.False(t, filters.AsFilter(testIDOf("idempotence", ".rdf")))
	assert.True(t, filters.AsFilter(testIDOf("existing resource")))
}

func TestSkipWinsOverRun(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("resource"))
	require.NoError(t, filters.MustNotMatch.Set("^missing"))
	assert.True(t, filters.AsFilter(testIDOf("existing resource")))
	assert.False(t, filters.AsFilter(testIDOf("missing resource")))
}

func TestRegexListKeepsPatternsInOrder(t *testing.T) {
	var r RegexList
	require.NoError(t, r.Set("^a$"))
	require.NoError(t, r.Set("b"))
	assert.Equal(t, []string{"^a$", "b"}, r.Patterns())
	assert.Equal(t, `"^a$" or "b"`, r.String())
	assert.True(t, r.AnyMatch("abc"))
	assert.False(t, r.AnyMatch("xyz"))
}
