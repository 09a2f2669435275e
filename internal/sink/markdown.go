package sink

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pdp/pkg/models"
)

var recordTemplate = template.Must(template.New("record").Parse(`<h2>{{.Title}}</h2>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<table>
<thead><tr><th>Field</th><th>Value</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</tbody>
</table>`))

type markdownRow struct {
	Key   string
	Value string
}

// MarkdownFile writes each record as a heading and a field table
type MarkdownFile struct {
	mu        sync.Mutex
	f         *os.File
	converter *md.Converter
}

// CreateMarkdown creates path for Markdown output
func CreateMarkdown(path string) (*MarkdownFile, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}
	return &MarkdownFile{f: f, converter: newConverter()}, nil
}

func newConverter() *md.Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// keep bare links readable: [url](url) becomes <url>
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, ok := selec.Attr("href")
			if !ok || href == "" {
				return nil
			}
			var str string
			if content == href {
				str = "<" + href + ">"
			} else {
				str = fmt.Sprintf("[%s](%s)", content, href)
			}
			return &str
		},
	})
	return converter
}

// RenderMarkdown converts one record to Markdown
func RenderMarkdown(converter *md.Converter, p *models.Product) (string, error) {
	title := p.ProductName
	if title == "" {
		title = p.PDPURL
	}

	entries := p.Entries()
	rows := make([]markdownRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, markdownRow{Key: e.Key, Value: FormatValue(e.Value, ", ")})
	}

	var buf bytes.Buffer
	err := recordTemplate.Execute(&buf, struct {
		Title string
		URL   string
		Rows  []markdownRow
	}{title, p.PDPURL, rows})
	if err != nil {
		return "", fmt.Errorf("render record: %w", err)
	}

	return converter.ConvertString(buf.String())
}

// Emit appends p
func (m *MarkdownFile) Emit(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := RenderMarkdown(m.converter, p)
	if err != nil {
		return fmt.Errorf("convert record to markdown: %w", err)
	}
	if _, err := m.f.WriteString(out + "\n\n"); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// Close closes the file
func (m *MarkdownFile) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f.Close()
}
