package mutation

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/rvqc/internal/annotate"
	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/vcf"
)

// AnnotationKey is the INFO key holding SnpEff functional annotations.
const AnnotationKey = "ANN"

// PopulationAFKeys are the dbNSFP INFO keys consulted for the population
// allele frequency window.
var PopulationAFKeys = []string{
	"gnomAD_genomes_POPMAX_AF",
	"gnomAD_exomes_POPMAX_AF",
	"gnomAD_genomes_NFE_AF",
	"gnomAD_exomes_NFE_AF",
}

// FormatError reports a record that cannot be built or read: wrong column
// count or a non-numeric field. The record is skipped.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("mutation format error at line %d: %s", e.Line, e.Message)
	}
	return "mutation format error: " + e.Message
}

// Builder converts annotated variants into mutation records.
type Builder struct {
	samples     []string
	individuals *cohort.Individuals
	minAF       float64
	maxAF       float64
	logger      *zap.Logger
}

// NewBuilder creates a builder for a VCF whose genotype columns follow
// samples. individuals supplies the cohort of each sample; samples absent
// from it are still listed as carriers but count toward neither cohort.
func NewBuilder(samples []string, individuals *cohort.Individuals) *Builder {
	if individuals == nil {
		individuals = cohort.New(nil)
	}
	return &Builder{
		samples:     samples,
		individuals: individuals,
		minAF:       0,
		maxAF:       1,
		logger:      zap.NewNop(),
	}
}

// SetPopulationAFWindow keeps only records whose population AF lies in
// [min, max]. The default window [0, 1] keeps everything.
func (b *Builder) SetPopulationAFWindow(lo, hi float64) {
	b.minAF = lo
	b.maxAF = hi
}

// SetLogger sets the logger for debug messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Samples returns the genotype column order.
func (b *Builder) Samples() []string {
	return b.samples
}

// Build creates the mutation record for v. It returns nil, nil when the
// variant is filtered out of the mutation table, and a *FormatError when
// the variant is malformed.
func (b *Builder) Build(v *vcf.Variant) (*Record, error) {
	if len(v.Samples) != len(b.samples) {
		return nil, &FormatError{Message: fmt.Sprintf("expected %d genotype columns, found %d", len(b.samples), len(v.Samples))}
	}

	ann, _ := v.InfoString(AnnotationKey)
	class := annotate.Classify(ann)
	if class == nil {
		return nil, nil
	}

	popAF, err := populationAF(v)
	if err != nil {
		return nil, err
	}
	if popAF < b.minAF || popAF > b.maxAF {
		b.logger.Debug("population AF outside window",
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos),
			zap.Float64("af", popAF))
		return nil, nil
	}

	r := &Record{
		Gene:         class.Gene,
		Chrom:        v.Chrom,
		Pos:          v.Pos,
		Ref:          v.Ref,
		Alt:          v.Alt,
		RSID:         v.ID,
		Consequence:  class.Consequence,
		Impact:       class.Impact,
		PopulationAF: popAF,
	}

	for i, sample := range b.samples {
		call := ParseGenotype(v.Genotype(i))
		if call != GenotypeMissing {
			r.AlleleNumber += 2
		}
		if !call.IsCarrier() {
			continue
		}
		r.AlleleCount += call.AltDosage()
		for range call.AltDosage() {
			r.Carriers = append(r.Carriers, sample)
		}
		switch b.individuals.CohortOf(sample) {
		case cohort.Case:
			r.CaseCarriers++
		case cohort.Control:
			r.ControlCarriers++
		}
	}

	if r.AlleleNumber > 0 {
		r.AF = float64(r.AlleleCount) / float64(r.AlleleNumber)
	}

	return r, nil
}

// populationAF returns the largest frequency among PopulationAFKeys.
// Multi-valued entries use their first value; "." counts as 0.
func populationAF(v *vcf.Variant) (float64, error) {
	best := 0.0
	for _, key := range PopulationAFKeys {
		raw, ok := v.InfoString(key)
		if !ok {
			continue
		}
		if i := strings.IndexByte(raw, ','); i >= 0 {
			raw = raw[:i]
		}
		if raw == "." {
			continue
		}
		af, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &FormatError{Message: fmt.Sprintf("invalid %s: %s", key, raw)}
		}
		if af > best {
			best = af
		}
	}
	return best, nil
}
