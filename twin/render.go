package twin

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
)

const (
	appName    = "Fenster twin"
	appVersion = "0.2"
)

var pageTemplates = template.Must(template.New("resource").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="uri">{{.URI}}</p>
<table>
{{- range .Quads}}
<tr><td>{{.Subject}}</td><td>{{.Predicate}}</td><td>{{.Object}}</td></tr>
{{- end}}
</table>
<footer>{{.Name}} version {{.Version}}</footer>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Error {{.Code}}</title>
</head>
<body>
<h1>{{.Code}}</h1>
<pre>{{.Message}}</pre>
</body>
</html>
`))

var literalsTemplate = template.Must(template.New("literals").Parse(
	`<table class="preview">{{range .}}<tr><td>{{.Predicate}}</td><td>{{.Object}}</td></tr>{{end}}</table>`))

const noLiteralsMessage = "No literals on resource"

// renderLiterals writes the literal-valued statements about subject as a preview table.
func renderLiterals(w io.Writer, subject string, quads []Quad) error {
	var views []quadView
	for _, q := range quads {
		if q.Subject == subject && !q.Object.IsURI() {
			views = append(views, quadView{Predicate: q.Predicate, Object: termString(q.Object)})
		}
	}
	if len(views) == 0 {
		_, err := io.WriteString(w, noLiteralsMessage)
		return err
	}
	return literalsTemplate.Execute(w, views)
}

type quadView struct {
	Subject, Predicate, Object string
}

func renderResourcePage(w io.Writer, r Resource) error {
	title := r.Title
	if title == "" {
		title = r.URI
	}
	views := make([]quadView, 0, len(r.Quads))
	for _, q := range r.Quads {
		views = append(views, quadView{Subject: q.Subject, Predicate: q.Predicate, Object: termString(q.Object)})
	}
	return pageTemplates.Execute(w, struct {
		Title, URI    string
		Name, Version string
		Quads         []quadView
	}{title, r.URI, appName, appVersion, views})
}

func renderErrorPage(w io.Writer, code int, message string) error {
	return errorTemplate.Execute(w, struct {
		Code    int
		Message string
	}{code, message})
}

// sparqlResults is the application/sparql-results+json layout.
type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]sparqlBinding `json:"bindings"`
	} `json:"results"`
}

type sparqlBinding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// writeSPARQLJSON writes the statements about uri as SPARQL select results, with ?s bound when
// the resource is the object and ?o bound when it is the subject.
func writeSPARQLJSON(w io.Writer, uri string, quads []Quad) error {
	var res sparqlResults
	res.Head.Vars = []string{"g", "s", "p", "o"}
	res.Results.Bindings = make([]map[string]sparqlBinding, 0, len(quads))
	for _, q := range quads {
		b := map[string]sparqlBinding{
			"g": {Type: "uri", Value: q.Graph},
			"p": {Type: "uri", Value: q.Predicate},
		}
		if q.Subject == uri {
			b["o"] = termBinding(q.Object)
		} else {
			b["s"] = sparqlBinding{Type: "uri", Value: q.Subject}
		}
		res.Results.Bindings = append(res.Results.Bindings, b)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func termBinding(t Term) sparqlBinding {
	if t.IsURI() {
		return sparqlBinding{Type: "uri", Value: t.URI}
	}
	return sparqlBinding{Type: "literal", Value: t.Literal, Lang: t.Lang}
}

// writeTriG serializes quads in TriG, one block per graph, graphs in sorted order.
func writeTriG(w io.Writer, quads []Quad) error {
	byGraph := make(map[string][]Quad)
	var graphs []string
	for _, q := range quads {
		if _, ok := byGraph[q.Graph]; !ok {
			graphs = append(graphs, q.Graph)
		}
		byGraph[q.Graph] = append(byGraph[q.Graph], q)
	}
	sort.Strings(graphs)
	for _, g := range graphs {
		if _, err := fmt.Fprintf(w, "<%s> {\n", g); err != nil {
			return err
		}
		for _, q := range byGraph[g] {
			if _, err := fmt.Fprintf(w, "  <%s> <%s> %s .\n", q.Subject, q.Predicate, termString(q.Object)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "}\n"); err != nil {
			return err
		}
	}
	return nil
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func termString(t Term) string {
	if t.IsURI() {
		return "<" + t.URI + ">"
	}
	s := `"` + literalEscaper.Replace(t.Literal) + `"`
	if t.Lang != "" {
		s += "@" + t.Lang
	}
	return s
}
