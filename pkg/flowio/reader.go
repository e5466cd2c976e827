package flowio

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Flow is one (source, destination, label) triple taken from a record.
type Flow struct {
	Source      string
	Destination string
	Label       string
}

// Stats counts what a Reader saw.
type Stats struct {
	Rows          int  // Data rows read, header excluded
	Flows         int  // Rows turned into flows
	Skipped       int  // Short or unparsable rows
	HeaderSkipped bool // A header row was seen before the first flow
}

// Reader turns a CSV flow export into Flows. Rows with fewer than
// MinColumns fields are skipped, never fatal.
type Reader struct {
	csv     *csv.Reader
	columns Columns
	stats   Stats
}

// NewReader creates a Reader over r using the given column layout.
func NewReader(r io.Reader, columns Columns) (*Reader, error) {
	if err := columns.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1 // row width is checked against MinColumns instead
	cr.LazyQuotes = true

	return &Reader{csv: cr, columns: columns}, nil
}

// Next returns the next flow, or io.EOF when the input is exhausted. Rows
// starting with the header prefix are dropped until the first flow has been
// accepted; after that they are ordinary rows.
func (r *Reader) Next() (Flow, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return Flow{}, io.EOF
		}

		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.stats.Rows++
				r.stats.Skipped++
				continue
			}
			return Flow{}, err
		}

		if r.stats.Flows == 0 && r.columns.HeaderPrefix != "" && len(record) > 0 &&
			strings.HasPrefix(record[0], r.columns.HeaderPrefix) {
			r.stats.HeaderSkipped = true
			continue
		}

		r.stats.Rows++
		if len(record) < r.columns.MinColumns {
			r.stats.Skipped++
			continue
		}

		r.stats.Flows++
		return Flow{
			Source:      record[r.columns.Source],
			Destination: record[r.columns.Destination],
			Label:       record[r.columns.Label],
		}, nil
	}
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// EdgeSink receives one edge per flow. *graph.Builder satisfies it.
type EdgeSink interface {
	AddEdge(src, dst, label string) error
}

// ctxCheckInterval is how many flows are read between context checks.
const ctxCheckInterval = 4096

// Ingest drains r into sink. It stops early when ctx is cancelled or the
// sink rejects an edge.
func Ingest(ctx context.Context, r *Reader, sink EdgeSink) (Stats, error) {
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return r.Stats(), err
			}
		}

		flow, err := r.Next()
		if err == io.EOF {
			return r.Stats(), nil
		}
		if err != nil {
			return r.Stats(), err
		}

		if err := sink.AddEdge(flow.Source, flow.Destination, flow.Label); err != nil {
			return r.Stats(), err
		}
	}
}
