package mutation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/vcf"
)

var testSamples = []string{"S1", "S2", "S3", "S4"}

func testIndividuals() *cohort.Individuals {
	return cohort.New([]cohort.Individual{
		{ID: "S1", Cohort: cohort.Case},
		{ID: "S2", Cohort: cohort.Control},
		{ID: "S3", Cohort: cohort.Case},
	})
}

func makeVariant(ann string, gts ...string) *vcf.Variant {
	info := map[string]interface{}{}
	if ann != "" {
		info["ANN"] = ann
	}
	return &vcf.Variant{
		Chrom:   "chr1",
		Pos:     150,
		ID:      ".",
		Ref:     "A",
		Alt:     "G",
		Info:    info,
		Samples: gts,
	}
}

const missenseANN = "G|missense_variant|MODERATE|GENE1|ENSG1,G|intron_variant|MODIFIER|GENE2|ENSG2"

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	rec, err := b.Build(makeVariant(missenseANN, "0/1", "1/1:0,12", "./.", "0/1"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "GENE1", rec.Gene)
	assert.Equal(t, "chr1:150", rec.MutationID())
	assert.Equal(t, "A>G", rec.Change())
	assert.Equal(t, Novel, rec.RSIDStatus())
	assert.Equal(t, "missense_variant", rec.Consequence)
	assert.Equal(t, "MODERATE", rec.Impact)
	assert.Equal(t, 4, rec.AlleleCount)
	assert.Equal(t, 6, rec.AlleleNumber)
	assert.InDelta(t, 4.0/6.0, rec.AF, 1e-12)
	assert.Equal(t, 1, rec.CaseCarriers)
	assert.Equal(t, 1, rec.ControlCarriers, "S4 has no cohort")
	assert.Equal(t, []string{"S1", "S2", "S2", "S4"}, rec.Carriers, "hom-alt carriers appear twice")
	assert.Equal(t, map[string]int{"S1": 1, "S2": 2, "S4": 1}, rec.Dosage())
}

func TestBuilder_AllMissing(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	rec, err := b.Build(makeVariant(missenseANN, "./.", "./.", "./.", "./."))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 0.0, rec.AF)
	assert.Equal(t, 0, rec.AlleleNumber)
	assert.Empty(t, rec.Carriers)
	assert.Equal(t, "0", rec.FormatAF())
}

func TestBuilder_NoCarriers(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	rec, err := b.Build(makeVariant(missenseANN, "0/0", "0/0", "./.", "0|1"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 6, rec.AlleleNumber, "unrecognized tokens count as called")
	assert.Empty(t, rec.Carriers, "phased calls are not normalized")
	assert.Equal(t, "0.0", rec.FormatAF())
}

func TestBuilder_Excluded(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	tests := []struct {
		name string
		ann  string
	}{
		{"no annotation", ""},
		{"intronic", "G|intron_variant|MODIFIER|GENE1"},
		{"secondary annotation ignored", "G|upstream_gene_variant|MODIFIER|GENE1,G|missense_variant|MODERATE|GENE1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := b.Build(makeVariant(tt.ann, "0/1", "0/0", "0/0", "0/0"))
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestBuilder_KnownSite(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())
	v := makeVariant(missenseANN, "0/1", "0/0", "0/0", "0/0")
	v.ID = "rs12345"

	rec, err := b.Build(v)
	require.NoError(t, err)
	assert.Equal(t, Known, rec.RSIDStatus())
	assert.Equal(t, "rs12345", rec.RSID)
}

func TestBuilder_PopulationAFWindow(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())
	b.SetPopulationAFWindow(0, 0.05)

	common := makeVariant(missenseANN, "0/1", "0/0", "0/0", "0/0")
	common.Info["gnomAD_exomes_NFE_AF"] = "0.01"
	common.Info["gnomAD_genomes_POPMAX_AF"] = "0.2,0.3"
	rec, err := b.Build(common)
	require.NoError(t, err)
	assert.Nil(t, rec, "max population AF 0.2 is outside the window")

	rare := makeVariant(missenseANN, "0/1", "0/0", "0/0", "0/0")
	rare.Info["gnomAD_exomes_POPMAX_AF"] = "."
	rare.Info["gnomAD_genomes_NFE_AF"] = "0.001"
	rec, err = b.Build(rare)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0.001, rec.PopulationAF)
}

func TestBuilder_FormatErrors(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	bad := makeVariant(missenseANN, "0/1", "0/0", "0/0", "0/0")
	bad.Info["gnomAD_exomes_POPMAX_AF"] = "abc"
	_, err := b.Build(bad)
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))

	_, err = b.Build(makeVariant(missenseANN, "0/1"))
	assert.True(t, errors.As(err, &fe), "genotype column count mismatch")
}
