package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextMode selects which text nodes of a matched element a Query reads
type TextMode int

const (
	// OwnText reads the element's direct text children only
	OwnText TextMode = iota
	// DeepText reads every text node below the element, in document order
	DeepText
)

// Query locates one attribute inside a parsed page: a CSS selector plus
// either an attribute name or a text mode.
type Query struct {
	Selector string
	Attr     string
	Text     TextMode
}

// Locate returns the first non-blank value matched by q, trimmed.
// A missing element is a normal outcome and reports ok=false.
func Locate(doc *goquery.Document, q Query) (string, bool) {
	if doc == nil || q.Selector == "" {
		return "", false
	}

	var found string
	doc.Find(q.Selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		for _, v := range values(sel, q) {
			if v = strings.TrimSpace(v); v != "" {
				found = v
				return false
			}
		}
		return true
	})

	return found, found != ""
}

// LocateAll returns every raw value matched by q in document order.
// Values are not trimmed or filtered; callers apply their own normalization.
func LocateAll(doc *goquery.Document, q Query) []string {
	out := []string{}
	if doc == nil || q.Selector == "" {
		return out
	}

	doc.Find(q.Selector).Each(func(i int, sel *goquery.Selection) {
		out = append(out, values(sel, q)...)
	})
	return out
}

// LocateOr is Locate with "" for absence
func LocateOr(doc *goquery.Document, q Query) string {
	v, _ := Locate(doc, q)
	return v
}

func values(sel *goquery.Selection, q Query) []string {
	if q.Attr != "" {
		if v, ok := sel.Attr(q.Attr); ok {
			return []string{v}
		}
		return nil
	}

	if len(sel.Nodes) == 0 {
		return nil
	}
	if q.Text == DeepText {
		return deepText(sel.Nodes[0])
	}
	return ownText(sel.Nodes[0])
}

func ownText(n *html.Node) []string {
	var out []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			out = append(out, c.Data)
		}
	}
	return out
}

func deepText(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return out
}
