package extractor

import (
	"regexp"
	"strings"

	urlutil "github.com/law-makers/pdp/internal/utils/url"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// NormalizePrice keeps only digits and decimal points: "£1,234.50" -> "1234.50"
func NormalizePrice(raw string) string {
	return nonPriceChars.ReplaceAllString(raw, "")
}

// TruncateRating keeps the part before " / ": "4.5 / 5" -> "4.5"
func TruncateRating(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(raw, " / ", 2)[0])
}

// CleanTexts trims every fragment and drops the ones left empty.
// Order and duplicates are preserved; the result is never nil.
func CleanTexts(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ResolveImageURLs makes every non-empty src absolute against baseURL
func ResolveImageURLs(baseURL string, srcs []string) []string {
	kept := make([]string, 0, len(srcs))
	for _, src := range srcs {
		if src = strings.TrimSpace(src); src != "" {
			kept = append(kept, src)
		}
	}
	return urlutil.ResolveAll(baseURL, kept)
}
