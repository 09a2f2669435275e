package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/law-makers/pdp/pkg/models"
)

// JSONFile writes records as one JSON array, closed on Close
type JSONFile struct {
	mu    sync.Mutex
	f     *os.File
	w     *bufio.Writer
	count int
	lines bool
}

// CreateJSON creates path and writes records as a JSON array
func CreateJSON(path string) (*JSONFile, error) {
	return createJSON(path, false)
}

// CreateJSONLines creates path and writes one JSON record per line
func CreateJSONLines(path string) (*JSONFile, error) {
	return createJSON(path, true)
}

func createJSON(path string, lines bool) (*JSONFile, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}
	return &JSONFile{f: f, w: bufio.NewWriter(f), lines: lines}, nil
}

// Emit appends p
func (j *JSONFile) Emit(ctx context.Context, p *models.Product) error {
	var data []byte
	var err error
	if j.lines {
		data, err = json.Marshal(p)
	} else {
		data, err = json.MarshalIndent(p, "  ", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	switch {
	case j.lines:
	case j.count == 0:
		j.w.WriteString("[\n  ")
	default:
		j.w.WriteString(",\n  ")
	}
	j.w.Write(data)
	if j.lines {
		j.w.WriteByte('\n')
	}
	j.count++

	// flush per record so a crash keeps what was extracted
	if err := j.w.Flush(); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Close terminates the array and closes the file
func (j *JSONFile) Close(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.lines {
		if j.count == 0 {
			j.w.WriteString("[]\n")
		} else {
			j.w.WriteString("\n]\n")
		}
	}
	if err := j.w.Flush(); err != nil {
		j.f.Close()
		return fmt.Errorf("write records: %w", err)
	}
	return j.f.Close()
}
