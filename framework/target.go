package framework

import (
	"fmt"
	"net/url"
	"strings"
)

// Target identifies the server under test. All requests made by a test run must resolve to
// URLs rooted at the target's base URL.
type Target struct {
	baseURL *url.URL
}

// NewTarget validates the base URL of the server under test. It must be an absolute http or
// https URL; any query or fragment is discarded.
func NewTarget(baseURL string) (*Target, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return &Target{baseURL: u}, nil
}

// BaseURL returns the base URL without a trailing slash.
func (t *Target) BaseURL() string {
	return t.baseURL.String()
}

// Resolve turns a path such as "/resource/x.json" into an absolute URL under the base URL.
// An absolute URL is accepted only if it is already rooted at the base URL.
func (t *Target) Resolve(pathOrURL string) (string, error) {
	u, err := url.Parse(pathOrURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pathOrURL, err)
	}
	if u.IsAbs() {
		if !t.contains(u) {
			return "", fmt.Errorf("URL %q is not rooted at base URL %s", pathOrURL, t.BaseURL())
		}
		return u.String(), nil
	}
	if u.Host != "" {
		return "", fmt.Errorf("URL %q has a host but no scheme", pathOrURL)
	}
	resolved := *t.baseURL
	resolved.Path = t.baseURL.Path + "/" + strings.TrimPrefix(u.Path, "/")
	resolved.RawQuery = u.RawQuery
	return resolved.String(), nil
}

func (t *Target) contains(u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, t.baseURL.Scheme) || !strings.EqualFold(u.Host, t.baseURL.Host) {
		return false
	}
	if t.baseURL.Path == "" {
		return true
	}
	return u.Path == t.baseURL.Path || strings.HasPrefix(u.Path, t.baseURL.Path+"/")
}
