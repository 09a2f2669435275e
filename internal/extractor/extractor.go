// Package extractor turns a product detail page into a normalized Product record.
//
// Every attribute is looked up independently and absence is never an error,
// so extraction always yields a complete record, possibly with empty fields.
package extractor

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

// Retailer defaults for next.co.uk
const (
	DefaultBaseURL         = "https://www.next.co.uk/"
	DefaultCompetitorName  = "Next"
	DefaultCurrency        = "GBP"
	DefaultCountryOfOrigin = "UK"
	ExtractionDateLayout   = "2006-01-02"
)

// Options configures an Extractor. Zero values fall back to the Next defaults.
type Options struct {
	BaseURL         string
	CompetitorName  string
	Currency        string
	CountryOfOrigin string
	Selectors       *Selectors
	Now             func() time.Time
}

// Extractor holds only immutable configuration and is safe for concurrent use
type Extractor struct {
	baseURL         string
	competitorName  string
	currency        string
	countryOfOrigin string
	selectors       Selectors
	now             func() time.Time
}

// New creates an Extractor
func New(opts Options) *Extractor {
	e := &Extractor{
		baseURL:         opts.BaseURL,
		competitorName:  opts.CompetitorName,
		currency:        opts.Currency,
		countryOfOrigin: opts.CountryOfOrigin,
		selectors:       NextSelectors(),
		now:             opts.Now,
	}
	if e.baseURL == "" {
		e.baseURL = DefaultBaseURL
	}
	if e.competitorName == "" {
		e.competitorName = DefaultCompetitorName
	}
	if e.currency == "" {
		e.currency = DefaultCurrency
	}
	if e.countryOfOrigin == "" {
		e.countryOfOrigin = DefaultCountryOfOrigin
	}
	if opts.Selectors != nil {
		e.selectors = *opts.Selectors
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// BaseURL returns the URL relative image references are resolved against
func (e *Extractor) BaseURL() string {
	return e.baseURL
}

// Extract parses raw markup and builds the record for pageURL
func (e *Extractor) Extract(pageURL, raw string) *models.Product {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// The HTML parser is lenient; this only happens on reader failures.
		log.Warn().Err(err).Str("url", pageURL).Msg("Failed to parse document, extracting from empty page")
		doc = nil
	}
	return e.ExtractDocument(doc, pageURL)
}

// ExtractDocument builds the record from an already parsed document.
// A nil document produces a record with every located field empty.
func (e *Extractor) ExtractDocument(doc *goquery.Document, pageURL string) *models.Product {
	s := e.selectors

	breadcrumb := CleanTexts(LocateAll(doc, s.Breadcrumb))
	fields := Fields{
		ProductName:  LocateOr(doc, s.ProductName),
		RegularPrice: NormalizePrice(LocateOr(doc, s.Price)),
		Image:        LocateOr(doc, s.Image),
		ImageURLs:    ResolveImageURLs(e.baseURL, LocateAll(doc, s.ImageURLs)),
		Breadcrumb:   breadcrumb,
		Description:  LocateOr(doc, s.Description),
		Instructions: LocateOr(doc, s.Instructions),
		Color:        LocateOr(doc, s.Color),
		Material:     LocateOr(doc, s.Material),
		ModelNumber:  LocateOr(doc, s.ModelNumber),
		Rating:       TruncateRating(LocateOr(doc, s.Rating)),
		Reviews:      CleanTexts(LocateAll(doc, s.Reviews)),
	}

	variants := ParseVariants(doc, s.EmbeddedData, pageURL)

	product := Assemble(fields, variants, BuildHierarchy(breadcrumb), Provenance{
		PDPURL:          pageURL,
		CompetitorName:  e.competitorName,
		ExtractionDate:  e.now().Format(ExtractionDateLayout),
		Currency:        e.currency,
		CountryOfOrigin: e.countryOfOrigin,
	})

	log.Debug().
		Str("url", pageURL).
		Str("unique_id", product.UniqueID).
		Int("images", len(product.ImageURLs)).
		Int("breadcrumb", len(product.Breadcrumb)).
		Int("variants", len(product.Variants)).
		Int("reviews", len(product.Reviews)).
		Msg("Extraction completed")

	return product
}
