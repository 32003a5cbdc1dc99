package annotate

import "strings"

// Positional fields of a SnpEff ANN entry.
const (
	annAllele = iota
	annConsequence
	annImpact
	annGene
	annMinFields
)

// Entry is a single functional annotation from an ANN INFO value.
type Entry struct {
	Allele      string
	Consequence string
	Impact      string
	Gene        string
}

// Classification is the result of classifying a variant's primary annotation.
type Classification struct {
	Gene        string
	Consequence string
	Impact      string
	Effect      Effect
	Damaging    bool
}

// PrimaryEntry returns the first annotation of an ANN value. Later entries
// for the same variant are ignored. ok is false when the entry has fewer
// than four pipe-delimited fields.
func PrimaryEntry(ann string) (Entry, bool) {
	first := ann
	if i := strings.IndexByte(ann, ','); i >= 0 {
		first = ann[:i]
	}

	fields := strings.SplitN(first, "|", annMinFields+1)
	if len(fields) < annMinFields {
		return Entry{}, false
	}

	return Entry{
		Allele:      fields[annAllele],
		Consequence: fields[annConsequence],
		Impact:      fields[annImpact],
		Gene:        fields[annGene],
	}, true
}

// Classify extracts gene, consequence and impact from the primary entry of
// an ANN value. It returns nil when the variant must be excluded from the
// mutation table: no usable primary entry, or a consequence outside the
// inclusion set.
func Classify(ann string) *Classification {
	if ann == "" {
		return nil
	}

	e, ok := PrimaryEntry(ann)
	if !ok || !IsIncluded(e.Consequence) {
		return nil
	}

	return &Classification{
		Gene:        e.Gene,
		Consequence: e.Consequence,
		Impact:      e.Impact,
		Effect:      EffectOf(e.Consequence),
		Damaging:    IsDamaging(e.Consequence),
	}
}
