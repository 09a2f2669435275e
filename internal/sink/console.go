package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/law-makers/pdp/pkg/models"
)

const (
	consoleTitle  = "Extracted Product Data"
	consoleFooter = "Product data extraction complete."
)

// Console prints each record as a field/value table
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console sink writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Emit renders p
func (c *Console) Emit(ctx context.Context, p *models.Product) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(consoleTitle)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 100},
	})

	for _, e := range p.Entries() {
		t.AppendRow(table.Row{e.Key, FormatValue(e.Value, ", ")})
	}
	t.SetCaption(consoleFooter)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.w, t.Render()); err != nil {
		return fmt.Errorf("write console table: %w", err)
	}
	return nil
}

// Close is a no-op
func (c *Console) Close(ctx context.Context) error {
	return nil
}
