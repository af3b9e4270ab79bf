// Package navigator performs the navigation steps of a contract test: it fetches a URL, waits
// for the document to be available, and exposes what a test can assert on.
package navigator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Navigator fetches a URL with a GET request and blocks until the response, and any rendering
// needed to read the title and body text, is complete.
//
// Implementations must return a *NavigationError when the server could not be reached at all;
// an HTTP error status is a normal Response, not an error.
type Navigator interface {
	Navigate(ctx context.Context, url string) (Response, error)
	Close() error
}

// Response is what a test sees after a navigation.
type Response struct {
	// URL is the final URL after any redirects.
	URL string
	// Status is the HTTP status code of the final document response.
	Status int
	Header http.Header
	// Title is the document title, or "" if the response is not an HTML document.
	Title string
	// Text is the rendered body text. For non-HTML responses it is the body as received.
	Text string
	// Body is the raw body. BrowserNavigator does not have access to it and sets it to Text.
	Body []byte
}

// ContentType returns the Content-Type header without parameters, in lower case.
func (r Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// NavigationError means that no response could be obtained for a URL: the connection was
// refused, the host could not be resolved, or the navigation timed out.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("could not navigate to %s: %s", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// FailureKind lets the test report tell an unreachable server apart from a misbehaving one.
func (e *NavigationError) FailureKind() string {
	return "navigation failure"
}
