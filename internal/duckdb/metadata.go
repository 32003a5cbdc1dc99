package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run describes one recorded pipeline invocation.
type Run struct {
	ID        int64
	Command   string
	StartedAt time.Time
	Inputs    []FileFingerprint
}

// BeginRun registers a pipeline invocation and the inputs it reads.
// The returned id keys the records and statistics written for it.
func (s *Store) BeginRun(command string, inputs ...FileFingerprint) (int64, error) {
	var id int64
	if err := s.db.QueryRow(
		`INSERT INTO runs VALUES (nextval('run_ids'), ?, ?) RETURNING run_id`,
		command, time.Now().UTC(),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	for _, in := range inputs {
		if _, err := s.db.Exec(`INSERT INTO run_inputs VALUES (?, ?, ?, ?)`,
			id, in.Path, in.Size, in.ModTime.UTC()); err != nil {
			return 0, fmt.Errorf("insert run input: %w", err)
		}
	}
	return id, nil
}

// LookupRun returns a run and its inputs.
func (s *Store) LookupRun(id int64) (*Run, error) {
	r := &Run{ID: id}
	if err := s.db.QueryRow(`SELECT command, started_at FROM runs WHERE run_id = ?`, id).
		Scan(&r.Command, &r.StartedAt); err != nil {
		return nil, fmt.Errorf("query run %d: %w", id, err)
	}

	rows, err := s.db.Query(`SELECT path, size, mod_time FROM run_inputs WHERE run_id = ? ORDER BY path`, id)
	if err != nil {
		return nil, fmt.Errorf("query run inputs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fp FileFingerprint
		if err := rows.Scan(&fp.Path, &fp.Size, &fp.ModTime); err != nil {
			return nil, fmt.Errorf("scan run input: %w", err)
		}
		r.Inputs = append(r.Inputs, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run inputs: %w", err)
	}
	return r, nil
}
