package annotate

// VariantType distinguishes single-base substitutions from everything else.
type VariantType int

const (
	VariantSNP VariantType = iota
	VariantIndel
)

// VariantTypeOf returns VariantIndel when either allele is not a single base.
func VariantTypeOf(ref, alt string) VariantType {
	if len(ref) == 1 && len(alt) == 1 {
		return VariantSNP
	}
	return VariantIndel
}

func (t VariantType) String() string {
	if t == VariantIndel {
		return "INDEL"
	}
	return "SNP"
}

// ChangeKind classifies a nucleotide change.
type ChangeKind int

const (
	// ChangeUnknown covers non-ACGT bases, multi-base alleles and REF==ALT.
	ChangeUnknown ChangeKind = iota
	ChangeTransition
	ChangeTransversion
)

// ClassifyChange reports whether ref>alt is a transition (A<->G, C<->T),
// a transversion, or neither.
func ClassifyChange(ref, alt string) ChangeKind {
	if len(ref) != 1 || len(alt) != 1 {
		return ChangeUnknown
	}
	r, a := purine(ref[0]), purine(alt[0])
	if r < 0 || a < 0 || ref[0] == alt[0] {
		return ChangeUnknown
	}
	if r == a {
		return ChangeTransition
	}
	return ChangeTransversion
}

// purine returns 1 for A/G, 0 for C/T and -1 for anything else.
// Matching is case-sensitive.
func purine(b byte) int {
	switch b {
	case 'A', 'G':
		return 1
	case 'C', 'T':
		return 0
	default:
		return -1
	}
}

func (k ChangeKind) String() string {
	switch k {
	case ChangeTransition:
		return "Ts"
	case ChangeTransversion:
		return "Tv"
	default:
		return "unknown"
	}
}
