package extractor

// Selectors maps every record attribute to the query that finds it
type Selectors struct {
	ProductName  Query
	Price        Query
	Image        Query
	ImageURLs    Query
	Breadcrumb   Query
	Description  Query
	Instructions Query
	Color        Query
	Material     Query
	ModelNumber  Query
	Rating       Query
	Reviews      Query
	EmbeddedData Query
}

// NextSelectors returns the queries for next.co.uk product pages
func NextSelectors() Selectors {
	return Selectors{
		ProductName:  Query{Selector: "h1[data-testid='product-title']"},
		Price:        Query{Selector: "span[data-testid='product-price']"},
		Image:        Query{Selector: "meta[property='og:image']", Attr: "content"},
		ImageURLs:    Query{Selector: "div[data-testid='pdp-thumbs'] img", Attr: "src"},
		Breadcrumb:   Query{Selector: "nav[aria-label='breadcrumb'] a"},
		Description:  Query{Selector: "div[class='description'] p", Text: DeepText},
		Instructions: Query{Selector: "p[data-testid='item-description-washing-instructions']", Text: DeepText},
		Color:        Query{Selector: "span[data-testid='selected-colour-label']", Text: DeepText},
		Material:     Query{Selector: "p[data-testid='item-description-composition']", Text: DeepText},
		ModelNumber:  Query{Selector: "span[data-testid='product-code']", Text: DeepText},
		Rating:       Query{Selector: "h3[class*='MuiTypography-subtitle1']"},
		Reviews:      Query{Selector: "p[class*='MuiTypography-body1']"},
		EmbeddedData: Query{Selector: "script[type='application/ld+json']"},
	}
}
