package contractdef

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const defaultResourcePath = "/resource/"

//go:embed default.yaml
var defaultContractYAML []byte

type contractYAML struct {
	Name            string               `yaml:"name"`
	Resource        string               `yaml:"resource"`
	ResourcePath    string               `yaml:"resource_path"`
	Representations []representationYAML `yaml:"representations"`
	Unsupported     *unsupportedYAML     `yaml:"unsupported"`
	Missing         *missingYAML         `yaml:"missing"`
}

type representationYAML struct {
	Suffix       string   `yaml:"suffix"`
	Status       int      `yaml:"status"`
	Title        *string  `yaml:"title"`
	ContentType  *string  `yaml:"content_type"`
	BodyContains *string  `yaml:"body_contains"`
	JSONPaths    []string `yaml:"json_paths"`
	Since        int      `yaml:"since"`
}

type unsupportedYAML struct {
	Status       int      `yaml:"status"`
	BodyContains string   `yaml:"body_contains"`
	Suffixes     []string `yaml:"suffixes"`
	Generated    *int     `yaml:"generated"`
	Since        int      `yaml:"since"`
}

type missingYAML struct {
	Status    int      `yaml:"status"`
	Paths     []string `yaml:"paths"`
	Generated *int     `yaml:"generated"`
	Since     int      `yaml:"since"`
}

// Default returns the built-in contract for the tnr_1140686 resource.
func Default() Contract {
	c, err := Parse(defaultContractYAML)
	if err != nil {
		panic("built-in contract is invalid: " + err.Error())
	}
	return c
}

// Load reads a contract from a YAML file.
func Load(path string) (Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Contract{}, fmt.Errorf("reading contract %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Contract{}, fmt.Errorf("contract %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a contract in YAML form.
func Parse(data []byte) (Contract, error) {
	var raw contractYAML
	// a misspelled key would otherwise drop its check without any error
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Contract{}, errors.New("contract is empty")
		}
		return Contract{}, fmt.Errorf("parsing contract: %w", err)
	}

	c := Contract{
		Name:         raw.Name,
		Resource:     raw.Resource,
		ResourcePath: raw.ResourcePath,
	}
	if c.Resource == "" {
		return Contract{}, errors.New("resource is required")
	}
	if strings.ContainsAny(c.Resource, "/?#") {
		return Contract{}, fmt.Errorf("resource %q must be a single path segment", c.Resource)
	}
	if c.ResourcePath == "" {
		c.ResourcePath = defaultResourcePath
	}
	if !strings.HasPrefix(c.ResourcePath, "/") || !strings.HasSuffix(c.ResourcePath, "/") {
		return Contract{}, fmt.Errorf("resource_path %q must start and end with /", c.ResourcePath)
	}
	if len(raw.Representations) == 0 {
		return Contract{}, errors.New("at least one representation is required")
	}

	seen := make(map[string]bool)
	for i, r := range raw.Representations {
		rep, err := r.toRepresentation()
		if err != nil {
			return Contract{}, fmt.Errorf("representation %d: %w", i+1, err)
		}
		if seen[rep.Suffix] {
			return Contract{}, fmt.Errorf("representation %d: duplicate suffix %q", i+1, rep.Suffix)
		}
		seen[rep.Suffix] = true
		c.Representations = append(c.Representations, rep)
	}

	if raw.Unsupported != nil {
		u := raw.Unsupported
		if err := validateStatus(u.Status); err != nil {
			return Contract{}, fmt.Errorf("unsupported: %w", err)
		}
		for _, s := range u.Suffixes {
			if err := validateSuffix(s); err != nil || s == "" {
				return Contract{}, fmt.Errorf("unsupported: invalid suffix %q", s)
			}
			if seen[s] {
				return Contract{}, fmt.Errorf("unsupported: suffix %q is also a known representation", s)
			}
		}
		c.Unsupported = UnsupportedFormats{
			Status:       u.Status,
			BodyContains: u.BodyContains,
			Suffixes:     u.Suffixes,
			Generated:    ldvalue.NewOptionalIntFromPointer(u.Generated),
			Since:        defaultSince(u.Since),
		}
	}

	if raw.Missing != nil {
		m := raw.Missing
		if err := validateStatus(m.Status); err != nil {
			return Contract{}, fmt.Errorf("missing: %w", err)
		}
		for _, p := range m.Paths {
			if !strings.HasPrefix(p, "/") {
				return Contract{}, fmt.Errorf("missing: path %q must start with /", p)
			}
		}
		c.Missing = MissingResources{
			Status:    m.Status,
			Paths:     m.Paths,
			Generated: ldvalue.NewOptionalIntFromPointer(m.Generated),
			Since:     defaultSince(m.Since),
		}
	}

	return c, nil
}

func (r representationYAML) toRepresentation() (Representation, error) {
	if err := validateSuffix(r.Suffix); err != nil {
		return Representation{}, err
	}
	if err := validateStatus(r.Status); err != nil {
		return Representation{}, err
	}
	if r.ContentType != nil {
		if _, err := regexp.Compile(*r.ContentType); err != nil {
			return Representation{}, fmt.Errorf("invalid content_type pattern: %w", err)
		}
	}
	return Representation{
		Suffix:       r.Suffix,
		Status:       r.Status,
		Title:        ldvalue.NewOptionalStringFromPointer(r.Title),
		ContentType:  ldvalue.NewOptionalStringFromPointer(r.ContentType),
		BodyContains: ldvalue.NewOptionalStringFromPointer(r.BodyContains),
		JSONPaths:    r.JSONPaths,
		Since:        defaultSince(r.Since),
	}, nil
}

func validateSuffix(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, ".") || len(s) < 2 || strings.ContainsAny(s, "/?#") {
		return fmt.Errorf("suffix %q must be empty or a dot followed by a name", s)
	}
	return nil
}

func validateStatus(status int) error {
	if status < 100 || status > 599 {
		return fmt.Errorf("status %d is not a valid HTTP status", status)
	}
	return nil
}

func defaultSince(since int) int {
	if since < 1 {
		return 1
	}
	return since
}
