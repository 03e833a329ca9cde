package pipeline

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
)

// ExtraColumnsKey holds the values of a row that are beyond the header width.
const ExtraColumnsKey = "_extra"

// Decoder yields CSV data rows one at a time, keyed by the header line.
//
// Rows shorter than the header are padded with empty strings. Values past the
// header width are joined with commas under ExtraColumnsKey, after any value
// a real column of that name already holds. When a header name repeats, the later column's value wins and the key keeps the position
// of its first occurrence.
type Decoder struct {
	reader *csv.Reader
	header []string
	row    int
	done   bool
}

// NewDecoder reads the header line from r. Empty input is not an error: the
// decoder simply has no header and no rows.
func NewDecoder(r io.Reader) (*Decoder, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	d := &Decoder{reader: cr}
	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		d.done = true
		return d, nil
	case err != nil:
		return nil, err
	}
	d.header = header
	return d, nil
}

// Header returns the column names as read from the first line.
func (d *Decoder) Header() []string {
	return d.header
}

// Next returns the next data row, or io.EOF after the last one. Quoting is
// read leniently and rows of any width are accepted, so the only errors are
// those of the underlying reader; they end decoding.
func (d *Decoder) Next() (*models.RawRecord, error) {
	if d.done {
		return nil, io.EOF
	}

	fields, err := d.reader.Read()
	if errors.Is(err, io.EOF) {
		d.done = true
		return nil, io.EOF
	}
	if err != nil {
		d.done = true
		return nil, err
	}
	d.row++

	rec := models.NewRecord()
	for i, name := range d.header {
		value := ""
		if i < len(fields) {
			value = fields[i]
		}
		rec.Set(name, value)
	}
	if len(fields) > len(d.header) {
		extra := strings.Join(fields[len(d.header):], ",")
		if existing, ok := rec.Get(ExtraColumnsKey); ok && existing != "" {
			extra = existing + "," + extra
		}
		rec.Set(ExtraColumnsKey, extra)
	}
	return rec, nil
}

// Row is the 1-based index of the last row returned by Next.
func (d *Decoder) Row() int {
	return d.row
}
