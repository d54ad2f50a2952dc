// Package csv turns raw dataset bytes into records. It is a streaming reader:
// rows flow through a channel, nothing buffers the whole file, and malformed
// lines are soft-dropped through an error callback rather than failing the
// run.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/pkg/records"
)

const utf8BOM = "\uFEFF"

// progress heartbeat interval, in rows.
const logEveryN = 50_000

// StreamRows reads CSV from src and emits one records.Record per data row on
// out, keyed by canonical column names.
//
// Header handling:
//   - With options.has_header (default true), the first usable line is the
//     header; names are renamed through options.header_map
//     (source-name -> canonical) and otherwise lowercased with spaces
//     replaced by underscores.
//   - Without a header, columns must be provided by the caller via
//     options.columns and are applied positionally.
//
// Tuning/robustness (all optional via options):
//   - comma (string; first rune used; default ',')
//   - trim_space (bool; default true)
//   - lazy_quotes (bool; default false)
//   - fields_per_record (int; 0=derive from header, -1=variable, >0=enforce)
//
// Cells that are empty after trimming become nil (missing). onHeader, when
// set, receives the canonical column order once it is known. onErr(line,
// err) receives recoverable row errors. StreamRows closes neither src nor
// out; the caller owns both.
func StreamRows(
	ctx context.Context,
	src io.Reader,
	opt config.Options,
	out chan<- records.Record,
	onHeader func(columns []string),
	onErr func(line int, err error),
) error {
	hasHeader := opt.Bool("has_header", true)
	comma := opt.Rune("comma", ',')
	trim := opt.Bool("trim_space", true)
	hm := opt.StringMap("header_map")
	lazy := opt.Bool("lazy_quotes", false)
	fieldsPer := opt.Int("fields_per_record", 0)

	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = lazy
	if fieldsPer != 0 {
		cr.FieldsPerRecord = fieldsPer
	} else {
		cr.FieldsPerRecord = -1 // tolerant by default; width enforced below
	}

	line := 0
	read := func() ([]string, error) { line++; return cr.Read() }

	var columns []string
	if hasHeader {
		hdr, err := read()
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("read header: %w", err))
			}
			return fmt.Errorf("read header: %w", err)
		}
		columns = CanonicalHeader(hdr, hm)
	} else {
		columns = opt.StringSlice("columns")
		if len(columns) == 0 {
			return fmt.Errorf("csv: has_header=false requires options.columns")
		}
	}
	if onHeader != nil {
		onHeader(columns)
	}

	rowsSeen := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}
		if len(rec) != len(columns) {
			// Misaligned row; soft-drop so a trimmed sample or a stray line
			// does not poison column alignment.
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %d fields, want %d", len(rec), len(columns)))
			}
			continue
		}

		row := make(records.Record, len(columns))
		for i, name := range columns {
			v := rec[i]
			if trim {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				row[name] = nil
			} else {
				row[name] = v
			}
		}

		select {
		case out <- row:
			rowsSeen++
			if rowsSeen%logEveryN == 0 {
				log.Printf("reader: line=%d emitted=%d", line, rowsSeen)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ReadAll collects every row of src into memory and returns the canonical
// column order plus the rows. It is the collecting front of StreamRows:
// parse errors are soft-dropped and counted, and the count is returned so
// callers can report it.
//
// The whole-dataset transforms (median imputation, one-hot encoding, min-max
// scaling) need all rows resident anyway, so the prep CLI reads through this
// instead of driving the stream itself.
func ReadAll(ctx context.Context, src io.Reader, opt config.Options) (columns []string, rows []records.Record, dropped int, err error) {
	ch := make(chan records.Record, 256)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		return StreamRows(ctx, src, opt, ch,
			func(cols []string) { columns = cols },
			func(line int, err error) { dropped++ },
		)
	})
	g.Go(func() error {
		for r := range ch {
			rows = append(rows, r)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, dropped, err
	}
	return columns, rows, dropped, nil
}

// HeaderFromSample parses the header line out of the first bytes of a
// dataset, for preflighting a remote file before committing to the full
// download. The sample only needs to contain the complete first line.
func HeaderFromSample(sample []byte, opt config.Options) ([]string, error) {
	cr := csv.NewReader(bytes.NewReader(sample))
	cr.Comma = opt.Rune("comma", ',')
	cr.FieldsPerRecord = -1
	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	return CanonicalHeader(hdr, opt.StringMap("header_map")), nil
}

// CanonicalHeader maps a raw header row onto canonical column names: BOM and
// edge whitespace are stripped, headerMap renames known source headers, and
// anything unmapped falls back to dataset.NormalizeName.
func CanonicalHeader(hdr []string, headerMap map[string]string) []string {
	out := make([]string, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if mapped, ok := headerMap[h]; ok {
			out[i] = mapped
			continue
		}
		out[i] = dataset.NormalizeName(h)
	}
	return out
}
