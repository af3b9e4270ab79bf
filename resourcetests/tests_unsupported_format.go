package resourcetests

import (
	"math/rand"
	"strings"

	"github.com/knakk/fenster-contract-tests/contractdef"
)

// Servers recognize a format suffix by a dot followed by these characters, so generated
// suffixes must stay within them to reach the format check at all.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz123456789"

// DoUnsupportedFormatTests requests the resource with suffixes that name no known format. Every
// one of them must be rejected with the contract's error status and message.
func DoUnsupportedFormatTests(t *T) {
	contract := t.Contract()
	if !contract.HasUnsupportedFormatCheck() {
		t.SkipWithReason("contract revision does not define unsupported formats")
	}
	count := contract.Unsupported.Generated.OrElse(t.Config().GeneratedSuffixes)
	suffixes := append([]string(nil), contract.Unsupported.Suffixes...)
	suffixes = append(suffixes, generateSuffixes(rand.New(rand.NewSource(t.Config().Seed)), count, contract)...)

	for _, suffix := range suffixes {
		resp := t.Navigate(contract.ResourceURLPath(suffix))
		t.AssertStatus(resp, contract.Unsupported.Status)
		if contract.Unsupported.BodyContains != "" {
			t.AssertBodyContains(resp, contract.Unsupported.BodyContains)
		}
	}
}

// generateSuffixes returns up to count distinct random suffixes that the contract does not
// know, each 3 to 8 characters after the dot.
func generateSuffixes(rng *rand.Rand, count int, contract contractdef.Contract) []string {
	seen := make(map[string]bool)
	for _, s := range contract.Unsupported.Suffixes {
		seen[s] = true
	}
	var ret []string
	for attempts := 0; len(ret) < count && attempts < count*10; attempts++ {
		suffix := "." + randomString(rng, suffixAlphabet, 3+rng.Intn(6))
		if seen[suffix] || contract.IsKnownSuffix(suffix) {
			continue
		}
		seen[suffix] = true
		ret = append(ret, suffix)
	}
	return ret
}

func randomString(rng *rand.Rand, alphabet string, length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}
