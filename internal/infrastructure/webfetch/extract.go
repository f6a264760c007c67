package webfetch

import (
	"strings"

	"golang.org/x/net/html"

	"matchpulse/analysis-api/internal/domain/search"
)

// ExtractDocument pulls title, meta description and visible text out of a
// parsed page. Script and style subtrees are skipped.
func ExtractDocument(doc *html.Node) *search.Document {
	out := &search.Document{}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "title":
				if out.Title == "" {
					out.Title = collapseWhitespace(nodeText(n))
				}
				return
			case "meta":
				if strings.EqualFold(attrValue(n, "name"), "description") {
					if content := collapseWhitespace(attrValue(n, "content")); content != "" && out.MetaDescription == "" {
						out.MetaDescription = content
					}
				}
			}
		}
		if n.Type == html.TextNode {
			if val := strings.TrimSpace(n.Data); val != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(val)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	out.Text = collapseWhitespace(text.String())
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
