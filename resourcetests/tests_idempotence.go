package resourcetests

import (
	"github.com/stretchr/testify/assert"
)

// DoIdempotenceTests repeats every literal navigation step of the contract. The server is
// read-only from our point of view, so the two responses must agree on status, content type,
// and title, whether the step succeeds or is an error.
func DoIdempotenceTests(t *T) {
	contract := t.Contract()
	var paths []string
	for _, rep := range contract.Representations {
		paths = append(paths, contract.ResourceURLPath(rep.Suffix))
	}
	for _, suffix := range contract.Unsupported.Suffixes {
		paths = append(paths, contract.ResourceURLPath(suffix))
	}
	paths = append(paths, contract.Missing.Paths...)

	for _, path := range paths {
		first := t.Navigate(path)
		second := t.Navigate(path)
		assert.Equal(t, first.Status, second.Status, "status changed between two requests for %s", path)
		assert.Equal(t, first.Header.Get("Content-Type"), second.Header.Get("Content-Type"),
			"Content-Type changed between two requests for %s", path)
		assert.Equal(t, first.Title, second.Title, "title changed between two requests for %s", path)
	}
}
