// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// MissingID is the VCF missing-value token used in the ID column.
const MissingID = "."

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "12", "chr12")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID)
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele(s), comma-separated if multi-allelic
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
	Format string                 // FORMAT column, empty if absent
	// Samples holds one raw genotype column per sample, in header order.
	Samples []string
	// Line is the raw data line without the trailing newline.
	Line string
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// InfoString returns the raw string value of an INFO key.
// Flag-type keys and missing keys return ok=false.
func (v *Variant) InfoString(key string) (string, bool) {
	val, ok := v.Info[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Genotype returns the GT sub-field of the i-th sample column, i.e. the
// text before the first ':'. Tokens are returned verbatim; phased and
// unphased notation are not normalized.
func (v *Variant) Genotype(i int) string {
	s := v.Samples[i]
	if j := strings.IndexByte(s, ':'); j >= 0 {
		return s[:j]
	}
	return s
}
