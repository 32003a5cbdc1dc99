// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// Column layout of a VCF data line.
const (
	ColChrom  = 0
	ColPos    = 1
	ColID     = 2
	ColRef    = 3
	ColAlt    = 4
	ColQual   = 5
	ColFilter = 6
	ColInfo   = 7
	ColFormat = 8
	// ColFirstSample is the first genotype column.
	ColFirstSample = 9
)

// Parser reads variants from a VCF file.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *pgzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line
	infoColumn  int
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file, infoColumn: ColInfo}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = io.ReadFull(file, buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	// Seek back to beginning
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = pgzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	// Parse header
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader:     bufio.NewReader(r),
		infoColumn: ColInfo,
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetInfoColumn overrides the column holding the INFO string.
// Legacy QC inputs carry annotations in column 5 instead of 7.
func (p *Parser) SetInfoColumn(col int) {
	p.infoColumn = col
}

// parseHeader reads and stores VCF header lines.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.header = append(p.header, line)
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			// Extract sample names from columns after FORMAT (index 9+)
			fields := strings.Split(line, "\t")
			if len(fields) > ColFirstSample {
				p.sampleNames = fields[ColFirstSample:]
			}
			return nil
		}

		// Non-header line encountered without #CHROM
		return &FormatError{
			Line:    p.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &FormatError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	minCols := ColInfo + 1
	if p.infoColumn >= minCols {
		minCols = p.infoColumn + 1
	}
	if len(fields) < minCols {
		return nil, &FormatError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[ColPos], 10, 64)
	if err != nil {
		return nil, &FormatError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[ColPos]),
		}
	}

	qual := 0.0
	if fields[ColQual] != "." {
		qual, _ = strconv.ParseFloat(fields[ColQual], 64)
	}

	v := &Variant{
		Chrom:  fields[ColChrom],
		Pos:    pos,
		ID:     fields[ColID],
		Ref:    fields[ColRef],
		Alt:    fields[ColAlt],
		Qual:   qual,
		Filter: fields[ColFilter],
		Info:   parseInfo(fields[p.infoColumn]),
		Line:   line,
	}

	if len(fields) > ColFormat {
		v.Format = fields[ColFormat]
	}

	// Genotype columns must line up with the header sample list.
	if len(fields) > ColFirstSample || len(p.sampleNames) > 0 {
		samples := fields[min(len(fields), ColFirstSample):]
		if len(samples) != len(p.sampleNames) {
			return nil, &FormatError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("expected %d sample columns, found %d", len(p.sampleNames), len(samples)),
			}
		}
		v.Samples = samples
	}

	return v, nil
}

// parseInfo parses the INFO field into a map.
func parseInfo(info string) map[string]interface{} {
	result := make(map[string]interface{})
	if info == "." {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			// Flag-type INFO field
			result[parts[0]] = true
		}
	}

	return result
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// FormatError reports a malformed VCF line. The offending line has been
// consumed, so parsing can continue with the next one.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vcf format error at line %d: %s", e.Line, e.Message)
}
