package reddit

import (
	"strings"

	"golang.org/x/net/html"
)

// stripHTML converts an escaped *_html field to plain text. The listing API
// entity-escapes the markup, so it is unescaped before parsing.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(html.UnescapeString(s)))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "li" || n.Data == "br") {
			buf.WriteByte(' ')
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
