package mutation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/rvqc/internal/annotate"
)

func TestParseGenotype(t *testing.T) {
	tests := []struct {
		gt     string
		want   GenotypeCall
		dosage int
	}{
		{"0/0", GenotypeHomRef, 0},
		{"0/1", GenotypeHet, 1},
		{"1/1", GenotypeHomAlt, 2},
		{"./.", GenotypeMissing, 0},
		{"0|1", GenotypeOther, 0},
		{"1/2", GenotypeOther, 0},
		{".", GenotypeOther, 0},
	}
	for _, tt := range tests {
		t.Run(tt.gt, func(t *testing.T) {
			got := ParseGenotype(tt.gt)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dosage, got.AltDosage())
			assert.Equal(t, tt.dosage > 0, got.IsCarrier())
		})
	}
}

func TestRecord_Classification(t *testing.T) {
	r := &Record{Chrom: "chr7", Pos: 42, Ref: "C", Alt: "T", RSID: ".", Consequence: "stop_gained"}
	assert.Equal(t, "chr7:42", r.MutationID())
	assert.Equal(t, Novel, r.RSIDStatus())
	assert.Equal(t, annotate.VariantSNP, r.VariantType())
	assert.Equal(t, annotate.ChangeTransition, r.ChangeKind())
	assert.Equal(t, annotate.EffectNonsense, r.Effect())

	r = &Record{Ref: "CT", Alt: "C", RSID: "rs1"}
	assert.Equal(t, Known, r.RSIDStatus())
	assert.Equal(t, annotate.VariantIndel, r.VariantType())
	assert.Equal(t, annotate.ChangeUnknown, r.ChangeKind())
}

func TestRecord_FormatAF(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"no called genotypes", Record{}, "0"},
		{"called, no carriers", Record{AlleleNumber: 4}, "0.0"},
		{"quarter", Record{AlleleCount: 1, AlleleNumber: 4, AF: 0.25}, "0.25"},
		{"fixed", Record{AlleleCount: 4, AlleleNumber: 4, AF: 1}, "1.0"},
		{"third", Record{AlleleCount: 1, AlleleNumber: 3, AF: 1.0 / 3.0}, "0.3333333333333333"},
		{"tiny", Record{AlleleCount: 1, AlleleNumber: 100000, AF: 1e-05}, "1e-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.FormatAF())
		})
	}
}
