package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

// ParseVariants reads the page's JSON-LD block and projects its offers into
// size/availability pairs. A missing block yields no variants silently; a
// block that does not decode is logged and also yields no variants, leaving
// the rest of the extraction untouched.
func ParseVariants(doc *goquery.Document, q Query, pageURL string) []models.Variant {
	raw, ok := Locate(doc, q)
	if !ok {
		return []models.Variant{}
	}

	variants, err := DecodeVariants(raw)
	if err != nil {
		log.Warn().
			Err(err).
			Str("url", pageURL).
			Msg("Error parsing embedded JSON-LD data")
		return []models.Variant{}
	}
	return variants
}

// DecodeVariants decodes a JSON-LD payload and returns its offers.
// Only a decode failure is an error; a payload without offers is not.
func DecodeVariants(raw string) ([]models.Variant, error) {
	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode json-ld: %w", err)
	}

	variants := []models.Variant{}
	node := findOffersNode(payload)
	if node == nil {
		return variants, nil
	}

	for _, offer := range flattenOffers(node["offers"]) {
		variants = append(variants, models.Variant{
			Size:         strings.TrimSpace(stringField(offer, "name")),
			Availability: lastSegment(stringField(offer, "availability")),
		})
	}
	return variants, nil
}

// findOffersNode returns the first object exposing "offers": the payload
// itself, an element of a top-level array, or a member of "@graph".
func findOffersNode(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		if _, ok := t["offers"]; ok {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findOffersNode(graph)
		}
	case []interface{}:
		for _, item := range t {
			if node := findOffersNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

// flattenOffers accepts an Offer list, a single Offer, or an AggregateOffer
// wrapping its own "offers".
func flattenOffers(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	case map[string]interface{}:
		if inner, ok := t["offers"]; ok {
			return flattenOffers(inner)
		}
		out = append(out, t)
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// lastSegment returns the token after the final "/": "https://schema.org/InStock" -> "InStock"
func lastSegment(s string) string {
	parts := strings.Split(s, "/")
	return parts[len(parts)-1]
}
