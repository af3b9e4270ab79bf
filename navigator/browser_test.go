package navigator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findChromeExecPath returns CHROMEDP_TEST_RUNNER if set, otherwise the first browser found on
// the PATH, or "" if there is none.
func findChromeExecPath() string {
	if p := os.Getenv("CHROMEDP_TEST_RUNNER"); p != "" {
		return p
	}
	for _, name := range []string{
		"headless_shell", "headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable",
	} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func newTestBrowser(t *testing.T) *BrowserNavigator {
	execPath := findChromeExecPath()
	if execPath == "" {
		t.Skip("no Chrome binary found; set CHROMEDP_TEST_RUNNER to run browser tests")
	}
	opts := []chromedp.ExecAllocatorOption{chromedp.ExecPath(execPath), chromedp.DisableGPU}
	if os.Getenv("CHROMEDP_NO_SANDBOX") != "false" {
		opts = append(opts, chromedp.NoSandbox)
	}
	nav, err := NewBrowserNavigator(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nav.Close() })
	return nav
}

func browse(t *testing.T, nav *BrowserNavigator, url string) (Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	return nav.Navigate(ctx, url)
}

func TestConvertHeadersSplitsRepeatedValues(t *testing.T) {
	h := convertHeaders(network.Headers{
		"content-type": "application/x-trig",
		"Set-Cookie":   "a=1\nb=2",
	})
	assert.Equal(t, "application/x-trig", h.Get("Content-Type"))
	assert.Equal(t, []string{"a=1", "b=2"}, h.Values("Set-Cookie"))
}

func TestBrowserNavigatorFollowsRedirectToRenderedPage(t *testing.T) {
	nav := newTestBrowser(t)
	mux := http.NewServeMux()
	mux.Handle("/resource/x", http.RedirectHandler("/resource/x.html", http.StatusFound))
	mux.Handle("/resource/x.html", httphelpers.HandlerWithResponse(200, htmlHeaders(),
		[]byte(`<html><head><title>Azur</title></head><body><p>hello  world</p></body></html>`)))
	httphelpers.WithServer(mux, func(server *httptest.Server) {
		resp, err := browse(t, nav, server.URL+"/resource/x")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, "Azur", resp.Title)
		assert.Contains(t, resp.Text, "hello")
		assert.Equal(t, "text/html", resp.ContentType())
		assert.Equal(t, server.URL+"/resource/x.html", resp.URL)
	})
}

func TestBrowserNavigatorReportsErrorStatus(t *testing.T) {
	nav := newTestBrowser(t)
	handler := httphelpers.HandlerWithResponse(400, htmlHeaders(),
		[]byte(`<html><head><title>Error 400</title></head><body>Unsupported output format: zappa.</body></html>`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := browse(t, nav, server.URL+"/resource/x.zappa")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Status)
		assert.Contains(t, resp.Text, "Unsupported output format")
	})
}

func TestBrowserNavigatorAcceptsDownloadedDocument(t *testing.T) {
	nav := newTestBrowser(t)
	headers := make(http.Header)
	headers.Set("Content-Type", "application/x-trig")
	handler := httphelpers.HandlerWithResponse(200, headers, []byte("<http://a> { <http://a> <http://b> \"c\" . }\n"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := browse(t, nav, server.URL+"/resource/x.rdf")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/x-trig"))
	})
}

func TestBrowserNavigatorKeepsRawBodyOfPlainDocument(t *testing.T) {
	nav := newTestBrowser(t)
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	body := []byte(`{"head":{"vars":["o"]},"results":{"bindings":[]}}`)
	httphelpers.WithServer(httphelpers.HandlerWithResponse(200, headers, body), func(server *httptest.Server) {
		resp, err := browse(t, nav, server.URL+"/resource/x.json")
		require.NoError(t, err)
		assert.Equal(t, body, resp.Body)
		assert.Equal(t, string(body), resp.Text)
	})
}

func TestBrowserNavigatorWithoutDocumentResponseIsNavigationError(t *testing.T) {
	nav := newTestBrowser(t)
	_, err := browse(t, nav, "about:blank")
	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Contains(t, navErr.Error(), "no document response")
}

func TestBrowserNavigatorTimeoutIsNavigationError(t *testing.T) {
	nav := newTestBrowser(t)
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		started := time.Now()
		_, err := nav.Navigate(ctx, server.URL)
		var navErr *NavigationError
		assert.True(t, errors.As(err, &navErr))
		assert.Less(t, time.Since(started), 4*time.Second)
	})
}
