// Package sink delivers extracted product records to their destination.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/pdp/pkg/models"
)

// ErrUnsupportedTarget is returned by Open for an unknown output target
var ErrUnsupportedTarget = errors.New("unsupported output target")

// Sink receives product records. Implementations are safe for concurrent Emit.
type Sink interface {
	Emit(ctx context.Context, p *models.Product) error
	Close(ctx context.Context) error
}

// Options carries the settings the store-backed sinks need
type Options struct {
	Stdout          io.Writer // console output, defaults to os.Stdout
	MongoDatabase   string
	MongoCollection string
	S3Region        string
	PostgresTable   string
}

// Open picks a Sink from target: "" or "-" prints to the console, a file
// extension selects a file format, and a URL scheme selects a store.
func Open(ctx context.Context, target string, opts Options) (Sink, error) {
	target = strings.TrimSpace(target)
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	switch {
	case target == "" || target == "-":
		return NewConsole(opts.Stdout), nil
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		return OpenMongo(ctx, target, opts.MongoDatabase, opts.MongoCollection)
	case strings.HasPrefix(target, "s3://"):
		return OpenS3(ctx, target, opts.S3Region)
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		return OpenPostgres(ctx, target, opts.PostgresTable)
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".json":
		return CreateJSON(target)
	case ".jsonl", ".ndjson":
		return CreateJSONLines(target)
	case ".csv":
		return CreateCSV(target)
	case ".md", ".markdown":
		return CreateMarkdown(target)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedTarget, target)
}

// FormatValue renders an Entry value as text, joining sequences with sep.
// Variants render as size:availability.
func FormatValue(v interface{}, sep string) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, sep)
	case []models.Variant:
		parts := make([]string, 0, len(t))
		for _, variant := range t {
			parts = append(parts, variant.Size+":"+variant.Availability)
		}
		return strings.Join(parts, sep)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// createFile opens path for writing, creating parent directories
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}
