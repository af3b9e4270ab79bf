package navigator

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractTitleAndText parses an HTML document and returns the text of its first <title>
// element and its visible body text, each with runs of whitespace collapsed to one space.
func extractTitleAndText(doc []byte) (string, string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", "", err
	}
	var title string
	titleFound := false
	var text strings.Builder

	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if !titleFound {
					titleFound = true
					title = collapseSpace(nodeText(n))
				}
				return
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Body:
				inBody = true
			}
		}
		if n.Type == html.TextNode && inBody {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(root, false)
	return title, collapseSpace(text.String()), nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
