package entity

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxTextLength caps extracted text. Entity extraction quality plateaus
// well below this, and the API bills per character.
const maxTextLength = 10000

// skippedElements are elements whose text is page furniture rather than
// content.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"nav":      {},
	"footer":   {},
	"aside":    {},
	"iframe":   {},
	"noscript": {},
}

// noiseClassFragments mark divs that hold consent dialogs, banners, and
// navigation chrome. A div whose class attribute contains any of these is
// skipped along with its subtree.
var noiseClassFragments = []string{"cookie", "banner", "menu", "header", "gdpr"}

// ExtractText returns the readable text of an HTML page: element text
// minus scripts, styles, navigation, and consent chrome, whitespace
// collapsed, capped at maxTextLength characters.
//
// Unparseable content yields an empty string; a page we cannot read is a
// page with nothing to analyze.
func ExtractText(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := skippedElements[n.Data]; ok {
				return
			}
			if n.Data == "div" && isNoiseDiv(n) {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Fields splits on any run of whitespace, which both collapses
	// internal runs and trims the ends.
	text := strings.Join(strings.Fields(b.String()), " ")
	if len(text) > maxTextLength {
		// Back up to a rune boundary so the cap never splits a
		// multi-byte character.
		cut := maxTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// isNoiseDiv reports whether a div's class attribute marks it as page
// chrome rather than content.
func isNoiseDiv(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		class := strings.ToLower(attr.Val)
		for _, fragment := range noiseClassFragments {
			if strings.Contains(class, fragment) {
				return true
			}
		}
	}
	return false
}
