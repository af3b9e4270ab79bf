package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitleAndText(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head>
  <title>
    Azur
  </title>
  <style>body { color: red }</style>
  <script>var x = "not text";</script>
</head>
<body>
  <h1>Error 400</h1>
  <p>Unsupported output format: zappa.

Valid formats are: html, json, rdf</p>
  <title>second title is ignored</title>
</body>
</html>`
	title, text, err := extractTitleAndText([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Azur", title)
	assert.Equal(t, "Error 400 Unsupported output format: zappa. Valid formats are: html, json, rdf", text)
}

func TestExtractTitleAndTextWithoutTitle(t *testing.T) {
	title, text, err := extractTitleAndText([]byte(`<p>just a fragment</p>`))
	require.NoError(t, err)
	assert.Equal(t, "", title)
	assert.Equal(t, "just a fragment", text)
}
