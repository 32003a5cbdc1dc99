// Package annotate classifies SnpEff functional annotations and allele
// changes for rare-variant QC.
package annotate

// Impact levels for variant consequences.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// Consequence types (Sequence Ontology terms as emitted by SnpEff).
const (
	// Damaging
	ConsequenceFrameshiftVariant          = "frameshift_variant"
	ConsequenceStartLost                  = "start_lost"
	ConsequenceStopGained                 = "stop_gained"
	ConsequenceStopLost                   = "stop_lost"
	ConsequenceSpliceDonor                = "splice_donor_variant"
	ConsequenceSpliceAcceptor             = "splice_acceptor_variant"
	ConsequenceSpliceRegion               = "splice_region_variant"
	ConsequenceStructuralInteraction      = "structural_interaction_variant"
	ConsequenceInitiatorCodon             = "initiator_codon_variant"
	ConsequenceDisruptiveInframeDeletion  = "disruptive_inframe_deletion"
	ConsequenceDisruptiveInframeInsertion = "disruptive_inframe_insertion"

	// Coding, non-damaging
	ConsequenceMissenseVariant   = "missense_variant"
	ConsequenceSynonymousVariant = "synonymous_variant"

	// Non-coding
	Consequence3PrimeUTR               = "3_prime_UTR_variant"
	Consequence5PrimeUTRPrematureStart = "5_prime_UTR_premature_start_codon_gain_variant"
	Consequence5PrimeUTR               = "5_prime_UTR_variant"
	ConsequenceBidirectionalFusion     = "bidirectional_gene_fusion"
	ConsequenceDownstreamGene          = "downstream_gene_variant"
	ConsequenceGeneFusion              = "gene_fusion"
	ConsequenceIntergenicRegion        = "intergenic_region"
	ConsequenceIntronVariant           = "intron_variant"
	ConsequenceNonCodingExon           = "non_coding_transcript_exon_variant"
	ConsequenceSequenceFeature         = "sequence_feature"
	ConsequenceTFBindingSite           = "TF_binding_site_variant"
	ConsequenceUpstreamGene            = "upstream_gene_variant"
)

var damaging = map[string]bool{
	ConsequenceFrameshiftVariant:          true,
	ConsequenceStartLost:                  true,
	ConsequenceStopGained:                 true,
	ConsequenceStopLost:                   true,
	ConsequenceSpliceDonor:                true,
	ConsequenceSpliceAcceptor:             true,
	ConsequenceSpliceRegion:               true,
	ConsequenceStructuralInteraction:      true,
	ConsequenceInitiatorCodon:             true,
	ConsequenceDisruptiveInframeDeletion:  true,
	ConsequenceDisruptiveInframeInsertion: true,
}

// excluded lists non-coding terms. It is informational only: inclusion is
// decided by IsIncluded alone.
var excluded = map[string]bool{
	Consequence3PrimeUTR:               true,
	Consequence5PrimeUTRPrematureStart: true,
	Consequence5PrimeUTR:               true,
	ConsequenceBidirectionalFusion:     true,
	ConsequenceDownstreamGene:          true,
	ConsequenceGeneFusion:              true,
	ConsequenceIntergenicRegion:        true,
	ConsequenceIntronVariant:           true,
	ConsequenceNonCodingExon:           true,
	ConsequenceSequenceFeature:         true,
	ConsequenceTFBindingSite:           true,
	ConsequenceUpstreamGene:            true,
}

// IsDamaging reports whether a consequence term is loss-of-function adjacent.
func IsDamaging(consequence string) bool {
	return damaging[consequence]
}

// IsExcluded reports whether a consequence term is a known non-coding term.
func IsExcluded(consequence string) bool {
	return excluded[consequence]
}

// IsIncluded reports whether variants with this primary consequence enter
// the mutation table: missense, synonymous, or damaging. Terms are matched
// exactly, so compound SnpEff terms joined with '&' are not included.
func IsIncluded(consequence string) bool {
	return consequence == ConsequenceMissenseVariant ||
		consequence == ConsequenceSynonymousVariant ||
		damaging[consequence]
}

// Effect is the functional-effect class tracked by per-sample statistics.
type Effect int

const (
	// EffectOther covers every consequence without a dedicated counter.
	EffectOther Effect = iota
	EffectSynonymous
	EffectMissense
	EffectNonsense
)

// EffectOf maps a consequence term to its effect class.
func EffectOf(consequence string) Effect {
	switch consequence {
	case ConsequenceSynonymousVariant:
		return EffectSynonymous
	case ConsequenceMissenseVariant:
		return EffectMissense
	case ConsequenceStopGained:
		return EffectNonsense
	default:
		return EffectOther
	}
}

func (e Effect) String() string {
	switch e {
	case EffectSynonymous:
		return "synonymous"
	case EffectMissense:
		return "missense"
	case EffectNonsense:
		return "nonsense"
	default:
		return "other"
	}
}
