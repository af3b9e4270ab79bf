package resourcetests

import (
	"github.com/knakk/fenster-contract-tests/contractdef"
	"github.com/knakk/fenster-contract-tests/framework"
	"github.com/knakk/fenster-contract-tests/navigator"
)

// RunTestSuite runs every test case of the contract against the target server. Test cases run
// one after another; each one's navigation steps run strictly in order.
func RunTestSuite(
	target *framework.Target,
	nav navigator.Navigator,
	contract contractdef.Contract,
	config SuiteConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	if config.NavigationTimeout <= 0 {
		config.NavigationTimeout = DefaultNavigationTimeout
	}
	env := &environment{
		target:    target,
		navigator: nav,
		contract:  contract,
		config:    config,
	}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("existing resource", DoExistingResourceTests)
		t.Run("unsupported format", DoUnsupportedFormatTests)
		t.Run("missing resource", DoMissingResourceTests)
		t.Run("idempotence", DoIdempotenceTests)
	})
}
