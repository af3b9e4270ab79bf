package resourcetests

import (
	"math/rand"
	"strings"

	"github.com/knakk/fenster-contract-tests/contractdef"
)

// no dots, so that a generated path never looks like it carries a format suffix
const pathAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_-"

// DoMissingResourceTests requests paths that identify no resource. Each must get the contract's
// not-found status, whatever its segments are.
func DoMissingResourceTests(t *T) {
	contract := t.Contract()
	if !contract.HasMissingResourceCheck() {
		t.SkipWithReason("contract revision does not define missing resources")
	}
	count := contract.Missing.Generated.OrElse(t.Config().GeneratedPaths)
	paths := append([]string(nil), contract.Missing.Paths...)
	paths = append(paths, generatePaths(rand.New(rand.NewSource(t.Config().Seed)), count, contract)...)

	for _, path := range paths {
		resp := t.Navigate(path)
		t.AssertStatus(resp, contract.Missing.Status)
	}
}

// generatePaths returns count random paths. The first is a nonexistent identifier under the
// resource path; the rest have arbitrary depth.
func generatePaths(rng *rand.Rand, count int, contract contractdef.Contract) []string {
	var ret []string
	for i := 0; i < count; i++ {
		if i == 0 {
			ret = append(ret, contract.ResourcePath+"no_such_"+randomString(rng, pathAlphabet, 12))
			continue
		}
		segments := make([]string, 1+rng.Intn(5))
		for j := range segments {
			segments[j] = randomString(rng, pathAlphabet, 1+rng.Intn(12))
		}
		segments[0] = "unlikely-" + segments[0]
		ret = append(ret, "/"+strings.Join(segments, "/"))
	}
	return ret
}
