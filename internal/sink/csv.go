package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/law-makers/pdp/pkg/models"
)

// csvSeparator joins sequence values inside one cell
const csvSeparator = "|"

// CSVFile writes one row per record under a header of field names
type CSVFile struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// CreateCSV creates path and writes the header row
func CreateCSV(path string) (*CSVFile, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	entries := (&models.Product{}).Entries()
	header := make([]string, 0, len(entries))
	for _, e := range entries {
		header = append(header, e.Key)
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()

	return &CSVFile{f: f, w: w}, nil
}

// Emit appends p as a row
func (c *CSVFile) Emit(ctx context.Context, p *models.Product) error {
	entries := p.Entries()
	row := make([]string, 0, len(entries))
	for _, e := range entries {
		row = append(row, FormatValue(e.Value, csvSeparator))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the file
func (c *CSVFile) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
