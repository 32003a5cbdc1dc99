package output

import (
	"bufio"
	"io"

	"github.com/inodb/rvqc/internal/vcf"
)

// VCFWriter copies VCF header lines and selected data lines verbatim.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // input VCF header lines (## and #CHROM)
	written     int
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// WriteHeader writes the input header lines unchanged.
func (vw *VCFWriter) WriteHeader() error {
	for _, line := range vw.headerLines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write copies the raw data line of v.
func (vw *VCFWriter) Write(v *vcf.Variant) error {
	if _, err := vw.w.WriteString(v.Line + "\n"); err != nil {
		return err
	}
	vw.written++
	return nil
}

// Written returns the number of data lines written.
func (vw *VCFWriter) Written() int {
	return vw.written
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
