package cpg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FormatError reports a malformed region line.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cpg region format error at line %d: %s", e.Line, e.Message)
}

// ReadRegions parses tab-separated regions (chrom, start, end, ...).
// Lines starting with '#' are comments. Malformed lines are logged and
// skipped; only read failures are returned as errors.
func ReadRegions(r io.Reader, logger *zap.Logger) ([]Region, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var regions []Region
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		region, err := parseRegion(line, lineNum)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				logger.Warn("skipping malformed cpg region", zap.Int("line", lineNum), zap.Error(err))
				continue
			}
			return nil, err
		}
		regions = append(regions, region)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cpg regions: %w", err)
	}

	return regions, nil
}

// LoadIndex reads a region file and builds an index from it.
func LoadIndex(path string, logger *zap.Logger) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cpg region file: %w", err)
	}
	defer f.Close()

	regions, err := ReadRegions(f, logger)
	if err != nil {
		return nil, err
	}
	return Build(regions), nil
}

func parseRegion(line string, lineNum int) (Region, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return Region{}, &FormatError{Line: lineNum, Message: fmt.Sprintf("expected at least 3 columns, found %d", len(fields))}
	}

	start, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return Region{}, &FormatError{Line: lineNum, Message: fmt.Sprintf("invalid start: %s", fields[1])}
	}
	end, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Region{}, &FormatError{Line: lineNum, Message: fmt.Sprintf("invalid end: %s", fields[2])}
	}
	if start > end {
		return Region{}, &FormatError{Line: lineNum, Message: fmt.Sprintf("start %d after end %d", start, end)}
	}

	return Region{Chrom: fields[0], Start: start, End: end}, nil
}
