package webfetch

import (
	"golang.org/x/net/html"

	"matchpulse/analysis-api/internal/domain/search"
)

// parseDuckDuckGo reads the html.duckduckgo.com result page. Each result
// renders a result__a anchor followed by a result__snippet node; snippets
// attach to the most recent anchor still missing one.
func parseDuckDuckGo(doc *html.Node) []search.Hit {
	var hits []search.Hit
	snippetted := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				hits = append(hits, search.Hit{
					Title: collapseWhitespace(nodeText(n)),
					URL:   attrValue(n, "href"),
				})
			case hasClass(n, "result__snippet"):
				if snippetted < len(hits) {
					hits[snippetted].Snippet = collapseWhitespace(nodeText(n))
					snippetted++
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hits
}

// parseBing reads a bing.com result page, one li.b_algo per hit. The title
// anchor lives under h2; the snippet is the remaining li text.
func parseBing(doc *html.Node) []search.Hit {
	var hits []search.Hit

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" && hasClass(n, "b_algo") {
			if hit, ok := bingHit(n); ok {
				hits = append(hits, hit)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hits
}

func bingHit(li *html.Node) (search.Hit, bool) {
	var hit search.Hit
	var heading *html.Node

	var findAnchor func(*html.Node) bool
	findAnchor = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "h2" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "a" {
					hit.Title = collapseWhitespace(nodeText(c))
					hit.URL = attrValue(c, "href")
					heading = n
					return true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if findAnchor(c) {
				return true
			}
		}
		return false
	}
	if !findAnchor(li) || hit.URL == "" {
		return search.Hit{}, false
	}

	var snippet []rune
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n == heading {
			return
		}
		if n.Type == html.TextNode {
			snippet = append(snippet, []rune(n.Data)...)
			snippet = append(snippet, ' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(li)
	hit.Snippet = collapseWhitespace(string(snippet))
	return hit, true
}
