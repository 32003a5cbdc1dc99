// Package cohort loads study individuals and their case/control assignment
// from PLINK-style .fam phenotype files.
package cohort

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Cohort is the case/control assignment of an individual.
type Cohort int

const (
	Unknown Cohort = iota
	Control
	Case
)

// Phenotype codes in column 6 of a .fam file.
const (
	codeControl = "1"
	codeCase    = "2"
)

// .fam column positions.
const (
	colIndividualID = 1
	colPhenotype    = 5
)

func (c Cohort) String() string {
	switch c {
	case Case:
		return "CASE"
	case Control:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}

// ParseCohort maps a .fam phenotype code to a cohort. Any code other than
// "1" or "2" is Unknown.
func ParseCohort(code string) Cohort {
	switch code {
	case codeControl:
		return Control
	case codeCase:
		return Case
	default:
		return Unknown
	}
}

// Individual is a study participant.
type Individual struct {
	ID     string
	Cohort Cohort
}

// Individuals is the ordered set of known individuals for a run. Order is
// the phenotype file order and determines output row order.
type Individuals struct {
	list  []Individual
	index map[string]int
}

// New builds an Individuals set. Later duplicates of an ID are dropped.
func New(list []Individual) *Individuals {
	ind := &Individuals{index: make(map[string]int, len(list))}
	for _, i := range list {
		if _, dup := ind.index[i.ID]; dup {
			continue
		}
		ind.index[i.ID] = len(ind.list)
		ind.list = append(ind.list, i)
	}
	return ind
}

// Len returns the number of individuals.
func (ind *Individuals) Len() int { return len(ind.list) }

// All returns individuals in file order. The slice must not be modified.
func (ind *Individuals) All() []Individual { return ind.list }

// IDs returns individual IDs in file order.
func (ind *Individuals) IDs() []string {
	ids := make([]string, len(ind.list))
	for i, x := range ind.list {
		ids[i] = x.ID
	}
	return ids
}

// Index returns the position of id, or -1 if the individual is unknown.
func (ind *Individuals) Index(id string) int {
	if i, ok := ind.index[id]; ok {
		return i
	}
	return -1
}

// CohortOf returns the cohort of id; unknown individuals are Unknown.
func (ind *Individuals) CohortOf(id string) Cohort {
	if i, ok := ind.index[id]; ok {
		return ind.list[i].Cohort
	}
	return Unknown
}

// Count returns the number of individuals in cohort c.
func (ind *Individuals) Count(c Cohort) int {
	n := 0
	for _, x := range ind.list {
		if x.Cohort == c {
			n++
		}
	}
	return n
}

// FormatError reports a malformed phenotype line.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("phenotype format error at line %d: %s", e.Line, e.Message)
}

// ReadPhenotypes parses a whitespace-separated .fam stream. Column 2 is
// the individual ID and column 6 the phenotype code. Rows with too few
// columns are logged and skipped.
func ReadPhenotypes(r io.Reader, logger *zap.Logger) (*Individuals, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := bufio.NewScanner(r)
	var list []Individual
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= colPhenotype {
			err := &FormatError{Line: lineNum, Message: fmt.Sprintf("expected at least %d columns, found %d", colPhenotype+1, len(fields))}
			logger.Warn("skipping malformed phenotype row", zap.Int("line", lineNum), zap.Error(err))
			continue
		}
		list = append(list, Individual{
			ID:     fields[colIndividualID],
			Cohort: ParseCohort(fields[colPhenotype]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading phenotype file: %w", err)
	}

	return New(list), nil
}

// LoadPhenotypes reads a .fam file from disk.
func LoadPhenotypes(path string, logger *zap.Logger) (*Individuals, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phenotype file: %w", err)
	}
	defer f.Close()

	return ReadPhenotypes(f, logger)
}
