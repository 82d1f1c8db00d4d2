package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks parses HTML content and returns the set of same-domain
// links found in anchor elements.
//
// Only hrefs that survive the following filters are returned:
//   - not a javascript:, mailto:, tel:, or data: reference, and not a
//     bare fragment ("#...")
//   - resolves against baseURL to an http or https URL
//   - host exactly equals domain (subdomains are different sites)
//
// Returned links are normalized and fragment-free, so callers can feed
// them straight into the frontier.
//
// Design decision: We return a set rather than a slice because link
// extraction exists to answer "which pages are reachable from here", and
// a page linking to itself twenty times should not inflate the answer.
// Callers that need a stable order sort the keys themselves.
func ExtractLinks(content []byte, baseURL, domain string) map[string]struct{} {
	links := make(map[string]struct{})

	base, err := url.Parse(baseURL)
	if err != nil {
		return links
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		// html.Parse recovers from almost anything; a hard failure
		// means the content is not worth mining for links.
		return links
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if resolved, ok := resolveLink(base, href, domain); ok {
					links[resolved] = struct{}{}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// resolveLink resolves an href against the base URL and reports whether
// the result is a crawlable same-domain link.
func resolveLink(base *url.URL, href, domain string) (string, bool) {
	href = strings.TrimSpace(href)

	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(resolved.Host, domain) {
		return "", false
	}

	// Normalize also drops the fragment, so "/about#team" and "/about"
	// dedupe to the same frontier entry.
	return Normalize(resolved.String()), true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
