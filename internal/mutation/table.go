package mutation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// TableColumns is the fixed header of the mutation table.
var TableColumns = []string{
	"#Gene",
	"MutID",
	"Change",
	"RSID",
	"MutationType",
	"Impact",
	"AF",
	"AC_Case",
	"AC_Control",
	"MutatedIndividuals",
}

// Column positions in the mutation table.
const (
	colGene = iota
	colMutID
	colChange
	colRSID
	colMutationType
	colImpact
	colAF
	colACCase
	colACControl
	colMutatedIndividuals
	numColumns
)

// CarrierSeparator joins carrier IDs in the MutatedIndividuals column.
const CarrierSeparator = ";"

// Reader reads records from a mutation table.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *pgzip.Reader
	lineNumber int
}

// NewReader opens a mutation table. Gzipped tables are detected by their
// magic bytes.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mutation table: %w", err)
	}

	r := &Reader{file: file}

	br := bufio.NewReader(file)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = pgzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = br
	}

	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// NewReaderFromReader creates a table reader from an io.Reader.
func NewReaderFromReader(rd io.Reader) (*Reader, error) {
	r := &Reader{reader: bufio.NewReader(rd)}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) readLine() (string, bool, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", false, nil
		}
		return "", false, err
	}
	r.lineNumber++
	return strings.TrimRight(line, "\r\n"), true, nil
}

// readHeader consumes the header line. The first line must start with
// "#Gene".
func (r *Reader) readHeader() error {
	line, ok, err := r.readLine()
	if err != nil {
		return fmt.Errorf("read mutation table header: %w", err)
	}
	if !ok {
		return &FormatError{Line: 1, Message: "empty mutation table"}
	}
	if !strings.HasPrefix(line, TableColumns[colGene]) {
		return &FormatError{Line: r.lineNumber, Message: "expected #Gene header line"}
	}
	return nil
}

// Next returns the next record, or nil, nil at end of input. A
// *FormatError means the current row was malformed and has been consumed.
func (r *Reader) Next() (*Record, error) {
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, fmt.Errorf("read mutation table: %w", err)
		}
		if !ok {
			return nil, nil
		}
		if line == "" {
			continue
		}
		return r.parseLine(line)
	}
}

func (r *Reader) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != numColumns {
		return nil, &FormatError{Line: r.lineNumber, Message: fmt.Sprintf("expected %d columns, found %d", numColumns, len(fields))}
	}

	chrom, pos, err := ParseMutationID(fields[colMutID])
	if err != nil {
		return nil, &FormatError{Line: r.lineNumber, Message: err.Error()}
	}
	ref, alt, ok := strings.Cut(fields[colChange], ">")
	if !ok {
		return nil, &FormatError{Line: r.lineNumber, Message: fmt.Sprintf("invalid change: %s", fields[colChange])}
	}
	af, err := strconv.ParseFloat(fields[colAF], 64)
	if err != nil {
		return nil, &FormatError{Line: r.lineNumber, Message: fmt.Sprintf("invalid AF: %s", fields[colAF])}
	}
	acCase, err := strconv.Atoi(fields[colACCase])
	if err != nil {
		return nil, &FormatError{Line: r.lineNumber, Message: fmt.Sprintf("invalid AC_Case: %s", fields[colACCase])}
	}
	acControl, err := strconv.Atoi(fields[colACControl])
	if err != nil {
		return nil, &FormatError{Line: r.lineNumber, Message: fmt.Sprintf("invalid AC_Control: %s", fields[colACControl])}
	}

	var carriers []string
	if s := fields[colMutatedIndividuals]; s != "" {
		carriers = strings.Split(s, CarrierSeparator)
	}

	return &Record{
		Gene:            fields[colGene],
		Chrom:           chrom,
		Pos:             pos,
		Ref:             ref,
		Alt:             alt,
		RSID:            fields[colRSID],
		Consequence:     fields[colMutationType],
		Impact:          fields[colImpact],
		AF:              af,
		CaseCarriers:    acCase,
		ControlCarriers: acControl,
		Carriers:        carriers,
	}, nil
}

// ParseMutationID splits "chrom:pos" at the last colon.
func ParseMutationID(id string) (string, int64, error) {
	i := strings.LastIndexByte(id, ':')
	if i < 0 {
		return "", 0, fmt.Errorf("invalid mutation id: %s", id)
	}
	pos, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid position in mutation id: %s", id)
	}
	return id[:i], pos, nil
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
