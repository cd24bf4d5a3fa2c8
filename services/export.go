// file: services/export.go
package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"founders-fest/models"
)

// CSVContentType is the MIME type of every export.
const CSVContentType = "text/csv"

// RecordSource yields the header and rows of one submission kind.
type RecordSource interface {
	Kind() string
	Header() []string
	Records(ctx context.Context, filter models.Filter) ([][]string, error)
}

// Exporter turns submission listings into downloadable CSV files.
type Exporter struct {
	now func() time.Time
}

// NewExporter returns an Exporter using the wall clock for filenames.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export renders src filtered by filter and names the file.
func (e *Exporter) Export(ctx context.Context, src RecordSource, filter models.Filter) (string, []byte, error) {
	if filter == "" {
		filter = models.FilterAll
	}
	rows, err := src.Records(ctx, filter)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, src.Header(), rows); err != nil {
		return "", nil, err
	}
	return ExportFilename(src.Kind(), filter, e.now()), buf.Bytes(), nil
}

// ExportFilename returns <entity>-<filter>-<YYYY-MM-DD>.csv using the UTC date.
func ExportFilename(entity string, filter models.Filter, now time.Time) string {
	return entity + "-" + string(filter) + "-" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSV writes header and rows with every field quoted and embedded
// quotes doubled. Lines are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	var b strings.Builder
	writeLine(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(&b, row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
