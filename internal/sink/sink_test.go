package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct() *models.Product {
	variants := []models.Variant{{Size: "S", Availability: "InStock"}, {Size: "M", Availability: "OutOfStock"}}
	return &models.Product{
		UniqueID:        "AK3912",
		ProductName:     "Linen Shirt",
		PDPURL:          "https://www.next.co.uk/style/su1/ak3912",
		ImageURLs:       []string{"https://xcdn.next.co.uk/a.jpg", "https://xcdn.next.co.uk/b.jpg"},
		CompetitorName:  "Next",
		ExtractionDate:  "2024-03-09",
		RegularPrice:    "30.00",
		SellingPrice:    "30.00",
		Currency:        "GBP",
		Breadcrumb:      []string{"Home", "Men"},
		CountryOfOrigin: "UK",
		Variants:        variants,
		Sizes:           append([]models.Variant{}, variants...),
		ModelNumber:     "AK3912",
		Reviews:         []string{},
		HierarchyLevel1: "Home",
		HierarchyLevel2: "Men",
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "x", FormatValue("x", "|"))
	assert.Equal(t, "a|b", FormatValue([]string{"a", "b"}, "|"))
	assert.Equal(t, "", FormatValue([]string{}, "|"))
	assert.Equal(t, "S:InStock, M:OutOfStock", FormatValue(sampleProduct().Variants, ", "))
	assert.Equal(t, "", FormatValue(nil, "|"))
}

func TestOpen_UnsupportedTarget(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "out.xml"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

func TestOpen_Console(t *testing.T) {
	for _, target := range []string{"", "-"} {
		s, err := Open(context.Background(), target, Options{Stdout: io.Discard})
		require.NoError(t, err)
		assert.IsType(t, &Console{}, s)
	}
}

func TestConsole_Emit(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.Emit(context.Background(), sampleProduct()))
	require.NoError(t, c.Close(context.Background()))

	out := buf.String()
	assert.Contains(t, out, consoleTitle)
	assert.Contains(t, out, consoleFooter)
	assert.Contains(t, out, "product_name")
	assert.Contains(t, out, "Linen Shirt")
	assert.Contains(t, out, "S:InStock, M:OutOfStock")
	assert.Less(t, strings.Index(out, "unique_id"), strings.Index(out, "producthierarchy_level5"))
}

func TestJSONFile_Array(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Emit(context.Background(), sampleProduct()))
		}()
	}
	wg.Wait()
	require.NoError(t, s.Close(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "AK3912", records[0]["unique_id"])
	assert.Equal(t, []interface{}{}, records[0]["reviews"])
}

func TestJSONFile_EmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	s, err := CreateJSON(path)
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestJSONFile_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Emit(context.Background(), sampleProduct()))
	require.NoError(t, s.Emit(context.Background(), sampleProduct()))
	require.NoError(t, s.Close(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var p models.Product
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &p))
	assert.Equal(t, sampleProduct().Variants, p.Variants)
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Emit(context.Background(), sampleProduct()))
	require.NoError(t, s.Close(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header, row := rows[0], rows[1]
	require.Len(t, row, len(header))
	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("missing column %s", name)
		return ""
	}

	assert.Equal(t, "unique_id", header[0])
	assert.Equal(t, "Linen Shirt", col("product_name"))
	assert.Equal(t, "https://xcdn.next.co.uk/a.jpg|https://xcdn.next.co.uk/b.jpg", col("image_urls"))
	assert.Equal(t, "S:InStock|M:OutOfStock", col("sizes"))
	assert.Equal(t, "", col("reviews"))
}

func TestMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	s, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Emit(context.Background(), sampleProduct()))
	require.NoError(t, s.Close(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "## Linen Shirt")
	assert.Contains(t, out, "<https://www.next.co.uk/style/su1/ak3912>")
	assert.Contains(t, out, "| Field")
	assert.Contains(t, out, "currency")
	assert.Contains(t, out, "GBP")
	assert.NotContains(t, out, "<td>")
}

type fakePutter struct {
	mu     sync.Mutex
	inputs []*s3.PutObjectInput
	bodies [][]byte
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Emit(t *testing.T) {
	putter := &fakePutter{}
	s := newS3(putter, "bucket", "exports/next")

	require.NoError(t, s.Emit(context.Background(), sampleProduct()))

	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "bucket", *putter.inputs[0].Bucket)
	assert.Equal(t, "exports/next/AK3912/2024-03-09.json", *putter.inputs[0].Key)
	assert.Equal(t, "application/json", *putter.inputs[0].ContentType)

	var p models.Product
	require.NoError(t, json.Unmarshal(putter.bodies[0], &p))
	assert.Equal(t, "Linen Shirt", p.ProductName)
}

func TestObjectKey_FallsBackToURL(t *testing.T) {
	p := sampleProduct()
	p.UniqueID = ""
	assert.Equal(t, "www.next.co.uk_style_su1_ak3912/2024-03-09.json", ObjectKey("", p))

	p.PDPURL = ""
	p.ExtractionDate = ""
	assert.Equal(t, "p/unknown/undated.json", ObjectKey("p", p))
}

func TestParseS3Target(t *testing.T) {
	bucket, prefix, err := ParseS3Target("s3://my-bucket/a/b/")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "a/b", prefix)

	_, _, err = ParseS3Target("s3:///nobucket")
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

func TestPostgresSQL(t *testing.T) {
	assert.Contains(t, createTableSQL(`"products"`), `CREATE TABLE IF NOT EXISTS "products"`)
	assert.Contains(t, createTableSQL(`"products"`), "record JSONB NOT NULL")
	assert.Contains(t, insertSQL(`"products"`), ":record")

	_, err := OpenPostgres(context.Background(), "postgres://localhost/db", "bad;name")
	assert.Error(t, err)
}
