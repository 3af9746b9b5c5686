// Package csvexport serializes place records to CSV, either streamed to a
// writer or appended to a file on disk.
package csvexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/placeseek/places-export/pkg/places"
)

var exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "places_csv_exports_total",
	Help: "Total CSV exports by destination",
}, []string{"destination"})

// ErrNoData is returned when an export is attempted with no records.
var ErrNoData = errors.New("no data to export")

// Write serializes records to w as UTF-8 CSV: one header row in
// places.RecordHeader order, then one row per record. An empty record set
// fails with ErrNoData before anything is written.
func Write(w io.Writer, records []places.Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(places.RecordHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writeRows(cw, records); err != nil {
		return err
	}

	exportsTotal.WithLabelValues("stream").Inc()
	return nil
}

// AppendFile appends records to the CSV file at path, creating it if needed.
// The header row is written only when the file is newly created or empty, so
// appending page after page to the same file never duplicates it.
func AppendFile(path string, records []places.Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cw := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := cw.Write(places.RecordHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := writeRows(cw, records); err != nil {
		return err
	}

	exportsTotal.WithLabelValues("file").Inc()
	return nil
}

func writeRows(cw *csv.Writer, records []places.Record) error {
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
