// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productMarkers are present in a server-rendered product page
var productMarkers = []string{
	"h1[data-testid='product-title']",
	"script[type='application/ld+json']",
}

// DetectJavaScriptFramework detects common client-side frameworks in HTML
func DetectJavaScriptFramework(html string) string {
	html = strings.ToLower(html)

	switch {
	case strings.Contains(html, "__next_data__") || strings.Contains(html, "/_next/static"):
		return "Next.js"
	case strings.Contains(html, "data-reactroot") || strings.Contains(html, "react-dom"):
		return "React"
	case strings.Contains(html, "data-v-app") || strings.Contains(html, "vue.runtime"):
		return "Vue"
	case strings.Contains(html, "ng-version") || strings.Contains(html, "ng-app"):
		return "Angular"
	case strings.Contains(html, "svelte-"):
		return "Svelte"
	}

	return "Unknown"
}

// HasProductMarkers reports whether the product content was server-rendered
func HasProductMarkers(doc *goquery.Document) bool {
	for _, sel := range productMarkers {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// NeedsRendering reports whether a statically fetched page is a client-side
// shell that must be rendered in a browser before extraction
func NeedsRendering(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	if HasProductMarkers(doc) {
		return false
	}

	scriptCount := doc.Find("script").Length()
	if scriptCount == 0 {
		return false
	}

	if DetectJavaScriptFramework(html) != "Unknown" {
		return true
	}

	// an almost empty body driven by scripts
	return doc.Find("body *").Not("script, noscript, style, link").Length() < 5
}
