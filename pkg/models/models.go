package models

import "time"

// Document is the raw page returned by a fetch engine
type Document struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"final_url,omitempty"`
	StatusCode   int               `json:"status_code"`
	HTML         string            `json:"html,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
	Engine       string            `json:"engine,omitempty"`
}

// FetchMode defines the engine mode to use
type FetchMode string

const (
	ModeAuto   FetchMode = "auto"
	ModeStatic FetchMode = "static"
	ModeSPA    FetchMode = "spa"
)

// FetchOptions contains options for fetching a product page
type FetchOptions struct {
	URL     string
	Mode    FetchMode
	Headers map[string]string
	Timeout time.Duration
}

// Variant is one purchasable size and its availability token (e.g. "InStock")
type Variant struct {
	Size         string `json:"size" bson:"size"`
	Availability string `json:"availability" bson:"availability"`
}

// Product is the normalized record produced by one extraction.
//
// Every field is always populated: strings default to "" and slices to an
// empty, non-nil slice, so consumers only ever test for emptiness.
type Product struct {
	UniqueID             string    `json:"unique_id" bson:"unique_id"`
	ProductName          string    `json:"product_name" bson:"product_name"`
	PDPURL               string    `json:"pdp_url" bson:"pdp_url"`
	ImageURLs            []string  `json:"image_urls" bson:"image_urls"`
	Image                string    `json:"image" bson:"image"`
	CompetitorName       string    `json:"competitor_name" bson:"competitor_name"`
	ExtractionDate       string    `json:"extraction_date" bson:"extraction_date"`
	RegularPrice         string    `json:"regular_price" bson:"regular_price"`
	SellingPrice         string    `json:"selling_price" bson:"selling_price"`
	PromotionPrice       string    `json:"promotion_price" bson:"promotion_price"`
	PromotionValidFrom   string    `json:"promotion_valid_from" bson:"promotion_valid_from"`
	PromotionValidUpto   string    `json:"promotion_valid_upto" bson:"promotion_valid_upto"`
	PromotionType        string    `json:"promotion_type" bson:"promotion_type"`
	PromotionDescription string    `json:"promotion_description" bson:"promotion_description"`
	Currency             string    `json:"currency" bson:"currency"`
	Breadcrumb           []string  `json:"breadcrumb" bson:"breadcrumb"`
	ProductDescription   string    `json:"product_description" bson:"product_description"`
	Instructions         string    `json:"instructions" bson:"instructions"`
	Color                string    `json:"color" bson:"color"`
	CountryOfOrigin      string    `json:"country_of_origin" bson:"country_of_origin"`
	Variants             []Variant `json:"variants" bson:"variants"`
	ModelNumber          string    `json:"model_number" bson:"model_number"`
	Material             string    `json:"material" bson:"material"`
	Sizes                []Variant `json:"sizes" bson:"sizes"`
	Rating               string    `json:"rating" bson:"rating"`
	Reviews              []string  `json:"reviews" bson:"reviews"`
	HierarchyLevel1      string    `json:"producthierarchy_level1" bson:"producthierarchy_level1"`
	HierarchyLevel2      string    `json:"producthierarchy_level2" bson:"producthierarchy_level2"`
	HierarchyLevel3      string    `json:"producthierarchy_level3" bson:"producthierarchy_level3"`
	HierarchyLevel4      string    `json:"producthierarchy_level4" bson:"producthierarchy_level4"`
	HierarchyLevel5      string    `json:"producthierarchy_level5" bson:"producthierarchy_level5"`
}

// Entry is one named field of a Product. Value is a string, []string or []Variant.
type Entry struct {
	Key   string
	Value interface{}
}

// Entries returns the record's fields in their canonical output order
func (p *Product) Entries() []Entry {
	return []Entry{
		{"unique_id", p.UniqueID},
		{"product_name", p.ProductName},
		{"pdp_url", p.PDPURL},
		{"image_urls", p.ImageURLs},
		{"image", p.Image},
		{"competitor_name", p.CompetitorName},
		{"extraction_date", p.ExtractionDate},
		{"regular_price", p.RegularPrice},
		{"selling_price", p.SellingPrice},
		{"promotion_price", p.PromotionPrice},
		{"promotion_valid_from", p.PromotionValidFrom},
		{"promotion_valid_upto", p.PromotionValidUpto},
		{"promotion_type", p.PromotionType},
		{"promotion_description", p.PromotionDescription},
		{"currency", p.Currency},
		{"breadcrumb", p.Breadcrumb},
		{"product_description", p.ProductDescription},
		{"instructions", p.Instructions},
		{"color", p.Color},
		{"country_of_origin", p.CountryOfOrigin},
		{"variants", p.Variants},
		{"model_number", p.ModelNumber},
		{"material", p.Material},
		{"sizes", p.Sizes},
		{"rating", p.Rating},
		{"reviews", p.Reviews},
		{"producthierarchy_level1", p.HierarchyLevel1},
		{"producthierarchy_level2", p.HierarchyLevel2},
		{"producthierarchy_level3", p.HierarchyLevel3},
		{"producthierarchy_level4", p.HierarchyLevel4},
		{"producthierarchy_level5", p.HierarchyLevel5},
	}
}
