// Package mutation builds per-variant mutation records (carriers and
// cohort allele counts) from annotated VCF records and reads them back
// from the mutation table.
package mutation

import (
	"strconv"
	"strings"

	"github.com/inodb/rvqc/internal/annotate"
)

// RSIDStatus reports whether a site is present in dbSNP.
type RSIDStatus int

const (
	Novel RSIDStatus = iota
	Known
)

func (s RSIDStatus) String() string {
	if s == Known {
		return "KNOWN"
	}
	return "NOVEL"
}

// GenotypeCall is the classified GT value of one sample at one site.
type GenotypeCall int

const (
	// GenotypeOther covers any GT token not listed below, e.g. phased
	// calls or multi-allelic genotypes. It counts as called.
	GenotypeOther GenotypeCall = iota
	GenotypeHomRef
	GenotypeHet
	GenotypeHomAlt
	GenotypeMissing
)

// ParseGenotype classifies a GT token by exact string comparison.
func ParseGenotype(gt string) GenotypeCall {
	switch gt {
	case "0/0":
		return GenotypeHomRef
	case "0/1":
		return GenotypeHet
	case "1/1":
		return GenotypeHomAlt
	case "./.":
		return GenotypeMissing
	default:
		return GenotypeOther
	}
}

// IsCarrier reports whether the call carries at least one alt allele.
func (g GenotypeCall) IsCarrier() bool {
	return g == GenotypeHet || g == GenotypeHomAlt
}

// AltDosage returns the number of alt alleles the call contributes to AC.
func (g GenotypeCall) AltDosage() int {
	switch g {
	case GenotypeHet:
		return 1
	case GenotypeHomAlt:
		return 2
	default:
		return 0
	}
}

// Record is one row of the mutation table. It is immutable once built.
type Record struct {
	Gene        string
	Chrom       string
	Pos         int64
	Ref         string
	Alt         string
	RSID        string
	Consequence string
	Impact      string
	// AlleleCount and AlleleNumber are the study-wide AC and AN. They are
	// zero for records read back from a table.
	AlleleCount  int
	AlleleNumber int
	// AF is the within-study allele frequency AC/AN, 0 when AN is 0.
	AF              float64
	CaseCarriers    int
	ControlCarriers int
	// Carriers lists carrier IDs in sample order; homozygous-alt carriers
	// appear twice so that occurrence count equals alt dosage.
	Carriers []string
	// PopulationAF is the gnomAD frequency used for the AF window. It is
	// not part of the mutation table.
	PopulationAF float64
}

// MutationID returns "chrom:pos".
func (r *Record) MutationID() string {
	return r.Chrom + ":" + strconv.FormatInt(r.Pos, 10)
}

// Change returns "REF>ALT".
func (r *Record) Change() string {
	return r.Ref + ">" + r.Alt
}

// RSIDStatus is Known unless the ID column holds the missing-value token.
func (r *Record) RSIDStatus() RSIDStatus {
	if r.RSID == "." || r.RSID == "" {
		return Novel
	}
	return Known
}

// VariantType returns SNP or INDEL from the allele lengths.
func (r *Record) VariantType() annotate.VariantType {
	return annotate.VariantTypeOf(r.Ref, r.Alt)
}

// ChangeKind returns the transition/transversion class of the change.
func (r *Record) ChangeKind() annotate.ChangeKind {
	return annotate.ClassifyChange(r.Ref, r.Alt)
}

// Effect returns the functional-effect class of the consequence.
func (r *Record) Effect() annotate.Effect {
	return annotate.EffectOf(r.Consequence)
}

// Dosage counts occurrences of each carrier ID.
func (r *Record) Dosage() map[string]int {
	d := make(map[string]int, len(r.Carriers))
	for _, id := range r.Carriers {
		d[id]++
	}
	return d
}

// FormatAF renders AF the way the mutation table stores it: shortest
// round-trip form with a decimal point, or a bare "0" when no genotype
// was called at the site.
func (r *Record) FormatAF() string {
	if r.AF == 0 && r.AlleleCount == 0 && r.AlleleNumber == 0 {
		return "0"
	}
	s := strconv.FormatFloat(r.AF, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
