package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/knakk/fenster-contract-tests/framework"
	"github.com/knakk/fenster-contract-tests/resourcetests"

	"github.com/alessio/shellescape"
	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "http://localhost:8080"
	baseURLEnvVar  = "FENSTER_BASE_URL"
	defaultEnvFile = ".env"

	navigatorHTTP    = "http"
	navigatorBrowser = "browser"
)

type commandParams struct {
	baseURL           string
	contractFile      string
	revision          int
	navigator         string
	timeout           time.Duration
	seed              int64
	generatedSuffixes int
	generatedPaths    int
	filters           framework.RegexFilters
	debug             bool
	debugAll          bool
	noColor           bool
	envFile           string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.baseURL, "url", "", "base URL of the resource server (default $"+baseURLEnvVar+" or "+defaultBaseURL+")")
	fs.StringVar(&c.contractFile, "contract", "", "YAML contract file (default: built-in contract)")
	fs.IntVar(&c.revision, "revision", 0, "check only the rows of this contract revision (default: latest)")
	fs.StringVar(&c.navigator, "navigator", navigatorHTTP, "how to navigate: "+navigatorHTTP+" or "+navigatorBrowser)
	fs.DurationVar(&c.timeout, "timeout", resourcetests.DefaultNavigationTimeout, "timeout for each navigation")
	fs.Int64Var(&c.seed, "seed", 0, "seed for generated suffixes and paths (default: time-based)")
	fs.IntVar(&c.generatedSuffixes, "generated-suffixes", resourcetests.DefaultGeneratedSuffixes, "number of random unknown suffixes to check")
	fs.IntVar(&c.generatedPaths, "generated-paths", resourcetests.DefaultGeneratedPaths, "number of random missing paths to check")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.StringVar(&c.envFile, "env-file", defaultEnvFile, "file to load environment variables from, if it exists")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if err := c.loadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv(baseURLEnvVar)
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.navigator != navigatorHTTP && c.navigator != navigatorBrowser {
		fmt.Fprintf(os.Stderr, "-navigator must be %q or %q\n", navigatorHTTP, navigatorBrowser)
		fs.Usage()
		return false
	}
	if c.timeout <= 0 || c.generatedSuffixes < 0 || c.generatedPaths < 0 || c.revision < 0 {
		fmt.Fprintln(os.Stderr, "-timeout must be positive; -revision and generated counts must not be negative")
		fs.Usage()
		return false
	}
	seedSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if !seedSet {
		c.seed = time.Now().UnixNano()
	}
	return true
}

// loadEnv fills in unset environment variables from the env file. A missing default file is
// not an error; a missing file that was named explicitly is.
func (c *commandParams) loadEnv() error {
	if c.envFile == "" {
		return nil
	}
	err := godotenv.Load(c.envFile)
	if err != nil && errors.Is(err, os.ErrNotExist) && c.envFile == defaultEnvFile {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not load %s: %w", c.envFile, err)
	}
	return nil
}

func (c *commandParams) suiteConfig() resourcetests.SuiteConfig {
	return resourcetests.SuiteConfig{
		NavigationTimeout: c.timeout,
		GeneratedSuffixes: c.generatedSuffixes,
		GeneratedPaths:    c.generatedPaths,
		Seed:              c.seed,
	}
}

// rerunCommand builds a command line that repeats this run, with the same seed, for only the
// tests that failed.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program, "-url", c.baseURL, "-seed", strconv.FormatInt(c.seed, 10))
	if c.contractFile != "" {
		b.add("-contract", c.contractFile)
	}
	if c.revision != 0 {
		b.add("-revision", strconv.Itoa(c.revision))
	}
	if c.navigator != navigatorHTTP {
		b.add("-navigator", c.navigator)
	}
	for _, f := range failures {
		b.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	for _, pattern := range c.filters.MustNotMatch.Patterns() {
		b.add("-skip", pattern)
	}
	b.add("-debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
