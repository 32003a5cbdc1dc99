package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/zap"

	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/duckdb"
	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/output"
	"github.com/inodb/rvqc/internal/qcfilter"
	"github.com/inodb/rvqc/internal/stats"
	"github.com/inodb/rvqc/internal/vcf"
)

// sink is an output destination that becomes visible only on Commit.
type sink interface {
	io.Writer
	Commit() error
	Abort()
}

// stdoutSink holds output in memory until Commit.
type stdoutSink struct {
	buf bytes.Buffer
	w   io.Writer
}

func (s *stdoutSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *stdoutSink) Commit() error {
	_, err := s.buf.WriteTo(s.w)
	return err
}

func (s *stdoutSink) Abort() {
	s.buf.Reset()
}

// createOutput opens path for writing, or stdout when path is "-".
func createOutput(path string, stdout io.Writer) (sink, error) {
	if path == "-" || path == "" {
		return &stdoutSink{w: stdout}, nil
	}
	return output.Create(path)
}

// inputError wraps loader errors caused by unreadable files as
// MissingInputError.
func inputError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &MissingInputError{Path: path, Err: err}
	}
	return fmt.Errorf("%s: %w", path, err)
}

func loadIndividuals(path string) (*cohort.Individuals, error) {
	ind, err := cohort.LoadPhenotypes(path, logger)
	if err != nil {
		return nil, inputError(path, err)
	}
	logger.Info("loaded phenotypes",
		zap.String("path", path),
		zap.Int("individuals", ind.Len()),
		zap.Int("cases", ind.Count(cohort.Case)),
		zap.Int("controls", ind.Count(cohort.Control)))
	return ind, nil
}

// buildRecords streams the VCF at path through the mutation builder and
// calls fn for every record in input order.
func buildRecords(path string, ind *cohort.Individuals, s settings, fn func(*mutation.Record) error) (mutation.Summary, error) {
	parser, err := vcf.NewParser(path)
	if err != nil {
		return mutation.Summary{}, inputError(path, err)
	}
	defer parser.Close()
	parser.SetInfoColumn(s.InfoColumn)

	b := mutation.NewBuilder(parser.SampleNames(), ind)
	b.SetPopulationAFWindow(s.MinAF, s.MaxAF)
	b.SetLogger(logger)

	var filter mutation.Filter
	if s.HardFilter {
		filter = qcfilter.New(s.Thresholds)
	}

	return b.BuildAll(parser, filter, s.Workers, fn)
}

// persist stores a run's records and statistics in the DuckDB file at
// dbPath.
func persist(dbPath, command string, inputs []string, records []*mutation.Record, rows []stats.Row) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	fps := make([]duckdb.FileFingerprint, 0, len(inputs))
	for _, p := range inputs {
		if p == "-" {
			continue
		}
		fp, err := duckdb.StatFile(p)
		if err != nil {
			return inputError(p, err)
		}
		fps = append(fps, fp)
	}

	runID, err := store.BeginRun(command, fps...)
	if err != nil {
		return err
	}
	if err := store.WriteRecords(runID, records); err != nil {
		return err
	}
	if err := store.WriteStats(runID, rows); err != nil {
		return err
	}

	logger.Info("stored run",
		zap.String("db", dbPath),
		zap.Int64("run", runID),
		zap.Int("records", len(records)),
		zap.Int("samples", len(rows)))
	return nil
}

// writeStats writes the statistics table to path.
func writeStats(path string, stdout io.Writer, rows []stats.Row) error {
	out, err := createOutput(path, stdout)
	if err != nil {
		return err
	}
	defer out.Abort()

	if err := output.NewStatsWriter(out).WriteAll(rows); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	return out.Commit()
}
