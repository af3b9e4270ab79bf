package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knakk/fenster-contract-tests/contractdef"
	"github.com/knakk/fenster-contract-tests/framework"
	"github.com/knakk/fenster-contract-tests/navigator"
	"github.com/knakk/fenster-contract-tests/resourcetests"

	"github.com/fatih/color"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	if params.noColor {
		color.NoColor = true
	}
	os.Exit(run(params))
}

func run(params commandParams) int {
	target, err := framework.NewTarget(params.baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid target: %s\n", err)
		return 1
	}

	contract, err := loadContract(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contract error: %s\n", err)
		return 1
	}

	nav, err := newNavigator(params.navigator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Navigator error: %s\n", err)
		return 1
	}
	defer func() {
		_ = nav.Close()
	}()

	fmt.Printf("Checking %q against %s (revision %d, %s navigator, seed %d)\n",
		contract.Name, target.BaseURL(), contract.LatestRevision(), params.navigator, params.seed)
	fmt.Printf("Representations: %s\n", describeSuffixes(contract.KnownSuffixes()))
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	var filter framework.Filter
	if params.filters.IsDefined() {
		filter = params.filters.AsFilter
	}
	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := resourcetests.RunTestSuite(target, nav, contract, params.suiteConfig(), filter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To re-run only the failed tests:")
		fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], results.Failures))
		return 1
	}
	return 0
}

func loadContract(params commandParams) (contractdef.Contract, error) {
	contract := contractdef.Default()
	if params.contractFile != "" {
		var err error
		if contract, err = contractdef.Load(params.contractFile); err != nil {
			return contractdef.Contract{}, err
		}
	}
	if params.revision != 0 {
		if params.revision > contract.LatestRevision() {
			return contractdef.Contract{}, fmt.Errorf("contract has no revision %d (latest is %d)",
				params.revision, contract.LatestRevision())
		}
		contract = contract.AtRevision(params.revision)
	}
	return contract, nil
}

func describeSuffixes(suffixes []string) string {
	var names []string
	for _, s := range suffixes {
		if s == "" {
			s = "(no suffix)"
		}
		names = append(names, s)
	}
	return strings.Join(names, ", ")
}

func newNavigator(kind string) (navigator.Navigator, error) {
	if kind == navigatorBrowser {
		return navigator.NewBrowserNavigator(context.Background())
	}
	return navigator.NewHTTPNavigator(nil), nil
}
