package twin

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultResourcePath and DefaultResourceID identify the resource the twin always serves.
const (
	DefaultResourcePath = "/resource/"
	DefaultResourceID   = "tnr_1140686"
	DefaultTitle        = "Azur"
)

const (
	dcTitle   = "http://purl.org/dc/terms/title"
	dcCreator = "http://purl.org/dc/terms/creator"
	rdfType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// Term is an RDF term: a URI, or a literal with an optional language tag.
type Term struct {
	URI     string `yaml:"uri,omitempty"`
	Literal string `yaml:"literal,omitempty"`
	Lang    string `yaml:"lang,omitempty"`
}

func (t Term) IsURI() bool { return t.URI != "" }

// Quad is one statement in a named graph.
type Quad struct {
	Graph     string `yaml:"graph"`
	Subject   string `yaml:"subject"`
	Predicate string `yaml:"predicate"`
	Object    Term   `yaml:"object"`
}

// Resource is everything the twin knows about one URI: the statements it takes part in, either
// as subject or as object.
type Resource struct {
	URI   string
	Title string
	Quads []Quad
}

// MemoryStore holds all resources, keyed by URI.
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{resources: make(map[string]Resource)}
}

// Put adds or replaces a resource.
func (s *MemoryStore) Put(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.URI] = r
}

// Get returns the resource with the given URI, if it has any statements.
func (s *MemoryStore) Get(uri string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[uri]
	if !ok || len(r.Quads) == 0 {
		return Resource{}, false
	}
	return r, true
}

// Len returns the number of stored resources.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// URIs returns all stored resource URIs in sorted order.
func (s *MemoryStore) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]string, 0, len(s.resources))
	for uri := range s.resources {
		ret = append(ret, uri)
	}
	sort.Strings(ret)
	return ret
}

// DefaultResource returns the tnr_1140686 resource, titled "Azur", under the given base URI.
func DefaultResource(baseURI string) Resource {
	uri := baseURI + DefaultResourcePath + DefaultResourceID
	graph := baseURI + "/graph/books"
	return Resource{
		URI:   uri,
		Title: DefaultTitle,
		Quads: []Quad{
			{Graph: graph, Subject: uri, Predicate: rdfType, Object: Term{URI: "http://purl.org/ontology/bibo/Book"}},
			{Graph: graph, Subject: uri, Predicate: dcTitle, Object: Term{Literal: DefaultTitle}},
			{Graph: graph, Subject: uri, Predicate: dcCreator, Object: Term{URI: baseURI + DefaultResourcePath + "tnr_1"}},
			{Graph: graph, Subject: baseURI + DefaultResourcePath + "tnr_2", Predicate: "http://purl.org/dc/terms/isPartOf", Object: Term{URI: uri}},
		},
	}
}

type seedFile struct {
	Resources []seedResource `yaml:"resources"`
}

type seedResource struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
	Quads []Quad `yaml:"quads"`
}

// LoadSeed reads extra resources from a YAML file. Paths are relative to baseURI; a quad with no
// subject or graph gets the resource URI and a default graph.
func (s *MemoryStore) LoadSeed(path, baseURI string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file %s: %w", path, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	for i, sr := range seed.Resources {
		if !strings.HasPrefix(sr.Path, "/") {
			return fmt.Errorf("seed file %s: resource %d: path %q must start with /", path, i+1, sr.Path)
		}
		r := Resource{URI: baseURI + sr.Path, Title: sr.Title}
		for _, q := range sr.Quads {
			if q.Subject == "" {
				q.Subject = r.URI
			}
			if q.Graph == "" {
				q.Graph = baseURI + "/graph/default"
			}
			if q.Predicate == "" || (q.Object.URI == "" && q.Object.Literal == "") {
				return fmt.Errorf("seed file %s: resource %s: quad needs a predicate and an object", path, sr.Path)
			}
			r.Quads = append(r.Quads, q)
		}
		if r.Title == "" {
			r.Title = findTitle(r.Quads)
		}
		s.Put(r)
	}
	return nil
}

func findTitle(quads []Quad) string {
	for _, q := range quads {
		if q.Predicate == dcTitle && !q.Object.IsURI() {
			return q.Object.Literal
		}
	}
	return ""
}
