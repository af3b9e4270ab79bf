// Package contractdef describes the request/response contract that the server under test must
// honor, as a table of representations plus the expected error behavior.
package contractdef

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Contract is the complete expected behavior for one resource.
type Contract struct {
	Name string
	// Resource is the resource identifier, such as "tnr_1140686".
	Resource string
	// ResourcePath is the path prefix under which resources live, such as "/resource/".
	ResourcePath    string
	Representations []Representation
	Unsupported     UnsupportedFormats
	Missing         MissingResources
}

// Representation is one content negotiation outcome for the resource, selected by URL suffix.
type Representation struct {
	// Suffix is "" for the bare resource URL, otherwise it starts with ".".
	Suffix string
	Status int
	// Title, if defined, must equal the rendered document title exactly.
	Title ldvalue.OptionalString
	// ContentType, if defined, is a regular expression the Content-Type header must match.
	ContentType  ldvalue.OptionalString
	BodyContains ldvalue.OptionalString
	// JSONPaths are gjson paths that must exist in the body.
	JSONPaths []string
	// Since is the contract revision that introduced this representation.
	Since int
}

// UnsupportedFormats is the expected response to a suffix that names no known format.
type UnsupportedFormats struct {
	Status       int
	BodyContains string
	// Suffixes are checked literally, in addition to any generated ones.
	Suffixes []string
	// Generated is how many random nonsense suffixes to check. If undefined, the test run
	// decides.
	Generated ldvalue.OptionalInt
	Since     int
}

// MissingResources is the expected response for paths that identify no resource.
type MissingResources struct {
	Status    int
	Paths     []string
	Generated ldvalue.OptionalInt
	Since     int
}

// ResourceURLPath returns the path of the resource in the given representation.
func (c Contract) ResourceURLPath(suffix string) string {
	return c.ResourcePath + c.Resource + suffix
}

// KnownSuffixes returns the suffixes of all representations, in table order.
func (c Contract) KnownSuffixes() []string {
	ret := make([]string, 0, len(c.Representations))
	for _, r := range c.Representations {
		ret = append(ret, r.Suffix)
	}
	return ret
}

// IsKnownSuffix reports whether a suffix selects one of the contract's representations.
func (c Contract) IsKnownSuffix(suffix string) bool {
	for _, r := range c.Representations {
		if r.Suffix == suffix {
			return true
		}
	}
	return false
}

// LatestRevision is the highest revision mentioned anywhere in the contract.
func (c Contract) LatestRevision() int {
	latest := c.Unsupported.Since
	if c.Missing.Since > latest {
		latest = c.Missing.Since
	}
	for _, r := range c.Representations {
		if r.Since > latest {
			latest = r.Since
		}
	}
	return latest
}

// AtRevision returns the contract as it stood at the given revision: only representations
// introduced at or before it are kept, and the unsupported/missing checks are dropped if they
// came later. A revision of zero or less means the latest revision.
func (c Contract) AtRevision(revision int) Contract {
	if revision <= 0 {
		return c
	}
	ret := c
	ret.Representations = nil
	for _, r := range c.Representations {
		if r.Since <= revision {
			ret.Representations = append(ret.Representations, r)
		}
	}
	if c.Unsupported.Since > revision {
		ret.Unsupported = UnsupportedFormats{}
	}
	if c.Missing.Since > revision {
		ret.Missing = MissingResources{}
	}
	return ret
}

// HasUnsupportedFormatCheck is false when the contract, at its revision, says nothing about
// unknown suffixes.
func (c Contract) HasUnsupportedFormatCheck() bool {
	return c.Unsupported.Status != 0
}

func (c Contract) HasMissingResourceCheck() bool {
	return c.Missing.Status != 0
}
