package extractor

import "github.com/law-makers/pdp/pkg/models"

// Fields holds the located, normalized page values
type Fields struct {
	ProductName  string
	RegularPrice string
	Image        string
	ImageURLs    []string
	Breadcrumb   []string
	Description  string
	Instructions string
	Color        string
	Material     string
	ModelNumber  string
	Rating       string
	Reviews      []string
}

// Provenance holds the static and derived fields stamped on every record
type Provenance struct {
	PDPURL          string
	CompetitorName  string
	ExtractionDate  string
	Currency        string
	CountryOfOrigin string
}

// Assemble merges located fields, variants, hierarchy and provenance into a
// new record. It never rejects input.
func Assemble(f Fields, variants []models.Variant, h Hierarchy, p Provenance) *models.Product {
	return &models.Product{
		UniqueID:             f.ModelNumber,
		ProductName:          f.ProductName,
		PDPURL:               p.PDPURL,
		ImageURLs:            nonNil(f.ImageURLs),
		Image:                f.Image,
		CompetitorName:       p.CompetitorName,
		ExtractionDate:       p.ExtractionDate,
		RegularPrice:         f.RegularPrice,
		SellingPrice:         f.RegularPrice,
		PromotionPrice:       "",
		PromotionValidFrom:   "",
		PromotionValidUpto:   "",
		PromotionType:        "",
		PromotionDescription: "",
		Currency:             p.Currency,
		Breadcrumb:           nonNil(f.Breadcrumb),
		ProductDescription:   f.Description,
		Instructions:         f.Instructions,
		Color:                f.Color,
		CountryOfOrigin:      p.CountryOfOrigin,
		Variants:             copyVariants(variants),
		ModelNumber:          f.ModelNumber,
		Material:             f.Material,
		Sizes:                copyVariants(variants),
		Rating:               f.Rating,
		Reviews:              nonNil(f.Reviews),
		HierarchyLevel1:      h.Level(1),
		HierarchyLevel2:      h.Level(2),
		HierarchyLevel3:      h.Level(3),
		HierarchyLevel4:      h.Level(4),
		HierarchyLevel5:      h.Level(5),
	}
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// sizes and variants carry the same pairs but never share a backing array
func copyVariants(v []models.Variant) []models.Variant {
	out := make([]models.Variant, len(v))
	copy(out, v)
	return out
}
