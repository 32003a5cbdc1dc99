// Package vcf provides VCF file parsing functionality.
package vcf

// VariantParser is the interface for parsers that read variants.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	// A *FormatError means the current line was malformed and has been
	// consumed; the caller may log it and call Next again.
	Next() (*Variant, error)

	// SampleNames returns sample names in genotype column order.
	SampleNames() []string

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
