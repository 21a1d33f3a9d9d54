package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText strips tags from rendered HTML and collapses whitespace.
// Script and style contents are dropped.
func PlainText(rendered []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " "), nil
}

// Excerpt returns at most maxRunes runes of the plain text of rendered HTML,
// cut at a word boundary and suffixed with an ellipsis when truncated.
func Excerpt(rendered []byte, maxRunes int) (string, error) {
	plain, err := PlainText(rendered)
	if err != nil {
		return "", err
	}
	if maxRunes <= 0 || utf8.RuneCountInString(plain) <= maxRunes {
		return plain, nil
	}

	runes := []rune(plain)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…", nil
}
