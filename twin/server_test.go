package twin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURI = "http://data.example.org"

func newTestServer() *Server {
	store := NewMemoryStore()
	store.Put(DefaultResource(testBaseURI))
	return NewServer(Config{
		BaseURI: testBaseURI,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, store)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestBareResourceRedirectsToHTML(t *testing.T) {
	w := get(t, newTestServer(), "/resource/tnr_1140686")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/resource/tnr_1140686.html", w.Header().Get("Location"))
}

func TestRootRedirectsToDefaultResource(t *testing.T) {
	w := get(t, newTestServer(), "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/resource/tnr_1140686", w.Header().Get("Location"))
}

func TestHTMLRepresentation(t *testing.T) {
	w := get(t, newTestServer(), "/resource/tnr_1140686.html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "<title>Azur</title>")
	assert.Contains(t, w.Body.String(), "Fenster twin version 0.2")
}

func TestJSONRepresentation(t *testing.T) {
	w := get(t, newTestServer(), "/resource/tnr_1140686.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res sparqlResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"g", "s", "p", "o"}, res.Head.Vars)
	require.Len(t, res.Results.Bindings, 4)
	assert.Equal(t, sparqlBinding{Type: "literal", Value: "Azur"}, res.Results.Bindings[1]["o"])
	assert.Equal(t, testBaseURI+"/resource/tnr_2", res.Results.Bindings[3]["s"].Value)
}

func TestRDFRepresentation(t *testing.T) {
	w := get(t, newTestServer(), "/resource/tnr_1140686.rdf")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-trig", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<"+testBaseURI+"/graph/books> {\n"))
	assert.Contains(t, w.Body.String(), `<http://purl.org/dc/terms/title> "Azur" .`)
}

func TestUnsupportedFormat(t *testing.T) {
	w := get(t, newTestServer(), "/resource/tnr_1140686.zappa")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported output format: zappa.")
	assert.Contains(t, w.Body.String(), "Valid formats are: html, json, rdf")
}

func TestMissingResource(t *testing.T) {
	s := newTestServer()
	w := get(t, s, "/an/very/unlikely/path/doh")
	require.Equal(t, http.StatusFound, w.Code)

	w = get(t, s, w.Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This URI has no information")
}

func TestStatusCountsResponsesByClass(t *testing.T) {
	s := newTestServer()
	get(t, s, "/resource/tnr_1140686.html")
	get(t, s, "/resource/tnr_1140686.zappa")
	get(t, s, "/resource/tnr_1140686")

	w := get(t, s, "/.status")
	assert.Equal(t, http.StatusOK, w.Code)
	var report StatusReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Resources)
	assert.Equal(t, int64(1), report.Responses["2xx"])
	assert.Equal(t, int64(1), report.Responses["3xx"])
	assert.Equal(t, int64(1), report.Responses["4xx"])
	assert.Equal(t, int64(0), report.Responses["5xx"])
	assert.Equal(t, uint64(3), report.ResponseTime.Count)
	assert.GreaterOrEqual(t, report.ResponseTime.MeanSeconds, 0.0)
	// the status request itself is counted once it has been answered
	assert.Equal(t, int64(2), s.Counts()["2xx"])
}

func TestMetricsAreExportedForPrometheus(t *testing.T) {
	s := newTestServer()
	get(t, s, "/resource/tnr_1140686.zappa")

	w := get(t, s, "/.metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `fenster_twin_responses_total{class="4xx"} 1`)
	assert.Contains(t, body, "fenster_twin_response_seconds_count 1")
}

func TestMetricsAreSeparatePerServer(t *testing.T) {
	a, b := newTestServer(), newTestServer()
	get(t, a, "/resource/tnr_1140686.html")
	assert.Equal(t, int64(1), a.Counts()["2xx"])
	assert.Equal(t, int64(0), b.Counts()["2xx"])
}

func TestLiteralsPreview(t *testing.T) {
	s := newTestServer()
	w := get(t, s, "/literals?uri="+testBaseURI+"/resource/tnr_1140686")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<table class="preview">`)
	assert.Contains(t, w.Body.String(), "Azur")
	assert.NotContains(t, w.Body.String(), "tnr_2")

	w = get(t, s, "/literals?uri="+testBaseURI+"/resource/nothing")
	assert.Equal(t, "No literals on resource", w.Body.String())
}
