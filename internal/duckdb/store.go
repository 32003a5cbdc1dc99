// Package duckdb persists mutation records and per-sample statistics in
// DuckDB so that runs can be queried with SQL after the pipeline exits.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/rvqc/internal/stats"
)

// Store manages a DuckDB connection holding pipeline results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// statsColumns are the SQL column names of the counters, in counter order.
var statsColumns = func() [stats.NumCounters]string {
	var cols [stats.NumCounters]string
	r := strings.NewReplacer("/", "_", "-", "_")
	for i, c := range stats.Columns {
		cols[i] = strings.ToLower(r.Replace(c))
	}
	return cols
}()

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS run_ids START 1`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id BIGINT PRIMARY KEY,
			command VARCHAR,
			started_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS run_inputs (
			run_id BIGINT,
			path VARCHAR,
			size BIGINT,
			mod_time TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS mutation_records (
			run_id BIGINT,
			gene VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			ref VARCHAR,
			alt VARCHAR,
			rsid VARCHAR,
			consequence VARCHAR,
			impact VARCHAR,
			allele_count BIGINT,
			allele_number BIGINT,
			af DOUBLE,
			case_carriers BIGINT,
			control_carriers BIGINT,
			carriers VARCHAR,
			population_af DOUBLE
		)`,
	}

	var cols strings.Builder
	for _, c := range statsColumns {
		cols.WriteString(",\n\t\t\t" + c + " BIGINT")
	}
	stmts = append(stmts, `CREATE TABLE IF NOT EXISTS sample_stats (
			run_id BIGINT,
			sample_id VARCHAR,
			row_index BIGINT`+cols.String()+`
		)`)

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
