package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// CleanSnippet turns an HTML fragment from an API payload into plain text
func CleanSnippet(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpaces(fragment)
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	return collapseSpaces(extractVisibleText(doc))
}

// StripPublisherSuffix removes a trailing " - Publisher" from aggregator titles
func StripPublisherSuffix(title, publisher string) string {
	title = strings.TrimSpace(title)
	if publisher != "" {
		for _, sep := range []string{" - ", " | ", " – "} {
			if suffix := sep + publisher; strings.HasSuffix(title, suffix) {
				return strings.TrimSpace(strings.TrimSuffix(title, suffix))
			}
		}
	}
	return title
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
