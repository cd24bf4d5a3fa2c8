// file: services/export_test.go
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"founders-fest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_QuotesEverything(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"id", "name"}, [][]string{{"1", "plain"}, {"2", ""}}))
	assert.Equal(t, "\"id\",\"name\"\n\"1\",\"plain\"\n\"2\",\"\"", buf.String())
}

func TestWriteCSV_RoundTripsAwkwardValues(t *testing.T) {
	rows := [][]string{
		{"1", `He said "hi"`, "a,b"},
		{"2", "line one\nline two", `""`},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"id", "quote", "comma"}, rows))

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, rows, parsed[1:])
}

func TestWriteCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.AttendeeCSVHeader, nil))
	assert.Equal(t, `"id","created_at","name","whatsapp","email","city","referrer","occupation","organization","status"`, buf.String())
}

func TestExportFilename(t *testing.T) {
	// 23:30 in IST is still the previous day in UTC
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 2, 1, 2, 0, 0, 0, ist)
	assert.Equal(t, "stall-bookings-approved-2025-01-31.csv", ExportFilename("stall-bookings", "approved", now))
}

type fakeSource struct {
	filter models.Filter
	rows   [][]string
	err    error
}

func (f *fakeSource) Kind() string     { return "attendees" }
func (f *fakeSource) Header() []string { return []string{"id"} }
func (f *fakeSource) Records(_ context.Context, filter models.Filter) ([][]string, error) {
	f.filter = filter
	return f.rows, f.err
}

func TestExporter_Export(t *testing.T) {
	e := &Exporter{now: func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) }}
	src := &fakeSource{rows: [][]string{{"9"}}}

	name, body, err := e.Export(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, models.FilterAll, src.filter)
	assert.Equal(t, "attendees-all-2025-03-04.csv", name)
	assert.Equal(t, "\"id\"\n\"9\"", string(body))

	src.err = errors.New("db down")
	_, _, err = e.Export(context.Background(), src, models.Filter(models.StatusApproved))
	assert.Error(t, err)
}
