/*
PURPOSE:
  Writes run records to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output to CSV, one row per run, parameters first then accuracy and walltime.

  Implementation-discovered:
  - Extra parameters differ between campaigns, so they are packed into one
    JSON column rather than widening the header.
  - Runs without usable output get empty accuracy cells, not zeros.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.RunRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Mutex-guarded; the engine may write from several goroutines.

USAGE:
  w, err := output.NewCSVWriter("run_records.csv")
  w.Write(record)
  w.Close()

RELATED FILES:
  - internal/model/types.go
*/

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

// CSVHeader is the first row of every run records CSV.
var CSVHeader = []string{
	"method", "precision", "iterations", "extra",
	"correct_digits", "waste_digits", "walltime",
	"dir", "error",
}

// CSVWriter handles writing run records to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single run record to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.RunRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.writer.Write(csvRecord(r)); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

func csvRecord(r model.RunRecord) []string {
	extra := ""
	if len(r.Parameters.Extra) > 0 {
		b, err := json.Marshal(r.Parameters.Extra)
		if err != nil {
			extra = fmt.Sprintf("%v", r.Parameters.Extra)
		} else {
			extra = string(b)
		}
	}

	correct, waste := "", ""
	if r.Accuracy != nil {
		correct = strconv.Itoa(r.Accuracy.CorrectDigits)
		waste = strconv.Itoa(r.Accuracy.WasteDigits)
	}

	return []string{
		r.Parameters.Method,
		strconv.Itoa(r.Parameters.Precision),
		strconv.Itoa(r.Parameters.Iterations),
		extra,
		correct,
		waste,
		strconv.FormatInt(r.Walltime, 10),
		r.Dir,
		r.Error,
	}
}
