package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/stats"
)

// appendRows runs fn with an Appender on table and flushes it.
func (s *Store) appendRows(table string, fn func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// WriteRecords batch-inserts mutation records for a run.
func (s *Store) WriteRecords(runID int64, records []*mutation.Record) error {
	if len(records) == 0 {
		return nil
	}
	return s.appendRows("mutation_records", func(a *goduckdb.Appender) error {
		for _, r := range records {
			if err := a.AppendRow(
				runID, r.Gene, r.Chrom, r.Pos, r.Ref, r.Alt, r.RSID,
				r.Consequence, r.Impact,
				int64(r.AlleleCount), int64(r.AlleleNumber), r.AF,
				int64(r.CaseCarriers), int64(r.ControlCarriers),
				strings.Join(r.Carriers, mutation.CarrierSeparator),
				r.PopulationAF,
			); err != nil {
				return fmt.Errorf("append mutation record: %w", err)
			}
		}
		return nil
	})
}

// RecordsByGene returns every stored record of a gene ordered by run and
// position.
func (s *Store) RecordsByGene(gene string) ([]*mutation.Record, error) {
	rows, err := s.db.Query(`SELECT
		gene, chrom, pos, ref, alt, rsid, consequence, impact,
		allele_count, allele_number, af, case_carriers, control_carriers,
		carriers, population_af
		FROM mutation_records
		WHERE gene = ?
		ORDER BY run_id, chrom, pos, ref, alt`, gene)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []*mutation.Record
	for rows.Next() {
		var r mutation.Record
		var carriers string
		if err := rows.Scan(
			&r.Gene, &r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.RSID, &r.Consequence, &r.Impact,
			&r.AlleleCount, &r.AlleleNumber, &r.AF, &r.CaseCarriers, &r.ControlCarriers,
			&carriers, &r.PopulationAF,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if carriers != "" {
			r.Carriers = strings.Split(carriers, mutation.CarrierSeparator)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// WriteStats batch-inserts the per-sample counters of a run, keeping row
// order.
func (s *Store) WriteStats(runID int64, rows []stats.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return s.appendRows("sample_stats", func(a *goduckdb.Appender) error {
		args := make([]driver.Value, 0, stats.NumCounters+3)
		for i, row := range rows {
			args = append(args[:0], runID, row.ID, int64(i))
			for _, v := range row.Counters.Values() {
				args = append(args, int64(v))
			}
			if err := a.AppendRow(args...); err != nil {
				return fmt.Errorf("append sample stats: %w", err)
			}
		}
		return nil
	})
}

// StatsFor returns the counters of a sample from the most recent run that
// recorded statistics for it. ok is false when the sample was never stored.
func (s *Store) StatsFor(sampleID string) (c stats.Counters, ok bool, err error) {
	query := `SELECT ` + strings.Join(statsColumns[:], ", ") + `
		FROM sample_stats
		WHERE sample_id = ?
		ORDER BY run_id DESC
		LIMIT 1`

	var vals [stats.NumCounters]int
	dst := make([]any, stats.NumCounters)
	for i := range vals {
		dst[i] = &vals[i]
	}
	err = s.db.QueryRow(query, sampleID).Scan(dst...)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Counters{}, false, nil
	}
	if err != nil {
		return stats.Counters{}, false, fmt.Errorf("query sample stats: %w", err)
	}
	return stats.FromValues(vals), true, nil
}
