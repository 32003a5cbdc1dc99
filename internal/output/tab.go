// Package output provides writers for the mutation and statistics tables.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/stats"
)

// MutationWriter writes mutation records in the tab-delimited table format
// read back by mutation.Reader.
type MutationWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewMutationWriter creates a new mutation table writer.
func NewMutationWriter(w io.Writer) *MutationWriter {
	return &MutationWriter{
		w:       bufio.NewWriter(w),
		columns: mutation.TableColumns,
	}
}

// WriteHeader writes the header line.
func (mw *MutationWriter) WriteHeader() error {
	_, err := mw.w.WriteString(strings.Join(mw.columns, "\t") + "\n")
	return err
}

// Write writes a single record.
func (mw *MutationWriter) Write(r *mutation.Record) error {
	values := []string{
		r.Gene,
		r.MutationID(),
		r.Change(),
		r.RSID,
		r.Consequence,
		r.Impact,
		r.FormatAF(),
		strconv.Itoa(r.CaseCarriers),
		strconv.Itoa(r.ControlCarriers),
		strings.Join(r.Carriers, mutation.CarrierSeparator),
	}
	_, err := mw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MutationWriter) Flush() error {
	return mw.w.Flush()
}

// StatsWriter writes one row of counters per sample.
type StatsWriter struct {
	w *bufio.Writer
}

// NewStatsWriter creates a new statistics table writer.
func NewStatsWriter(w io.Writer) *StatsWriter {
	return &StatsWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes "ID" followed by the counter columns.
func (sw *StatsWriter) WriteHeader() error {
	cols := make([]string, 0, stats.NumCounters+1)
	cols = append(cols, "ID")
	cols = append(cols, stats.Columns[:]...)
	_, err := sw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes a single sample row.
func (sw *StatsWriter) Write(row stats.Row) error {
	values := make([]string, 0, stats.NumCounters+1)
	values = append(values, row.ID)
	for _, v := range row.Counters.Values() {
		values = append(values, strconv.Itoa(v))
	}
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header and every row.
func (sw *StatsWriter) WriteAll(rows []stats.Row) error {
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := sw.Write(row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (sw *StatsWriter) Flush() error {
	return sw.w.Flush()
}
