package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []models.Variant
	}{
		{
			name:    "offer list",
			payload: `{"offers":[{"name":" 8 ","availability":"https://schema.org/InStock"},{"name":"10","availability":"http://schema.org/OutOfStock"}]}`,
			want:    []models.Variant{{Size: "8", Availability: "InStock"}, {Size: "10", Availability: "OutOfStock"}},
		},
		{
			name:    "no offers",
			payload: `{"@type":"Product","name":"Shirt"}`,
			want:    []models.Variant{},
		},
		{
			name:    "missing name and availability",
			payload: `{"offers":[{"price":"20.00"}]}`,
			want:    []models.Variant{{Size: "", Availability: ""}},
		},
		{
			name:    "availability without path",
			payload: `{"offers":[{"name":"S","availability":"InStock"}]}`,
			want:    []models.Variant{{Size: "S", Availability: "InStock"}},
		},
		{
			name:    "single offer object",
			payload: `{"offers":{"@type":"Offer","name":"One Size","availability":"https://schema.org/LimitedAvailability"}}`,
			want:    []models.Variant{{Size: "One Size", Availability: "LimitedAvailability"}},
		},
		{
			name:    "aggregate offer",
			payload: `{"offers":{"@type":"AggregateOffer","offers":[{"name":"XL","availability":"https://schema.org/PreOrder"}]}}`,
			want:    []models.Variant{{Size: "XL", Availability: "PreOrder"}},
		},
		{
			name:    "graph",
			payload: `{"@graph":[{"@type":"BreadcrumbList"},{"@type":"Product","offers":[{"name":"6","availability":"https://schema.org/InStock"}]}]}`,
			want:    []models.Variant{{Size: "6", Availability: "InStock"}},
		},
		{
			name:    "top-level array",
			payload: `[{"@type":"Organization"},{"offers":[{"name":"12"}]}]`,
			want:    []models.Variant{{Size: "12", Availability: ""}},
		},
		{
			name:    "non-object offers are skipped",
			payload: `{"offers":["S", 4, {"name":"M","availability":"https://schema.org/InStock"}]}`,
			want:    []models.Variant{{Size: "M", Availability: "InStock"}},
		},
		{
			name:    "non-string fields",
			payload: `{"offers":[{"name":12,"availability":true}]}`,
			want:    []models.Variant{{Size: "", Availability: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeVariants(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeVariants_InvalidPayload(t *testing.T) {
	_, err := DecodeVariants(`{"offers": [`)
	assert.Error(t, err)
}

func TestParseVariants_Absent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)

	got := ParseVariants(doc, NextSelectors().EmbeddedData, "https://www.next.co.uk/x")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseVariants_Malformed(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><script type="application/ld+json">not json</script></head></html>`))
	require.NoError(t, err)

	got := ParseVariants(doc, NextSelectors().EmbeddedData, "https://www.next.co.uk/x")
	assert.Equal(t, []models.Variant{}, got)
}

func TestParseVariants_UsesFirstBlock(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><head>
	<script type="application/ld+json">{"offers":[{"name":"first"}]}</script>
	<script type="application/ld+json">{"offers":[{"name":"second"}]}</script>
	</head></html>`))
	require.NoError(t, err)

	got := ParseVariants(doc, NextSelectors().EmbeddedData, "")
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Size)
}
