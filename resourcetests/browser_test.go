package resourcetests

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/knakk/fenster-contract-tests/contractdef"
	"github.com/knakk/fenster-contract-tests/navigator"

	"github.com/chromedp/chromedp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrowser(t *testing.T) *navigator.BrowserNavigator {
	execPath := os.Getenv("CHROMEDP_TEST_RUNNER")
	for _, name := range []string{"headless_shell", "chromium", "chromium-browser", "google-chrome"} {
		if execPath != "" {
			break
		}
		execPath, _ = exec.LookPath(name)
	}
	if execPath == "" {
		t.Skip("no Chrome binary found; set CHROMEDP_TEST_RUNNER to run browser tests")
	}
	opts := []chromedp.ExecAllocatorOption{chromedp.ExecPath(execPath), chromedp.DisableGPU}
	if os.Getenv("CHROMEDP_NO_SANDBOX") != "false" {
		opts = append(opts, chromedp.NoSandbox)
	}
	nav, err := navigator.NewBrowserNavigator(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nav.Close() })
	return nav
}

func TestFullContractPassesAgainstTwinInBrowser(t *testing.T) {
	nav := newTestBrowser(t)
	results := runSuiteWith(t, nav, newTwin(), contractdef.Default(), nil)
	assert.True(t, results.OK(), "failures: %v", results.Failures)
	assert.Equal(t, 4, results.Ran())
}
