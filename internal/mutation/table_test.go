package mutation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = "#Gene\tMutID\tChange\tRSID\tMutationType\tImpact\tAF\tAC_Case\tAC_Control\tMutatedIndividuals\n" +
	"GENE1\tchr1:150\tA>G\t.\tmissense_variant\tMODERATE\t0.25\t1\t0\tS1\n" +
	"GENE2\tchr2:10\tC>A\trs7\tstop_gained\tHIGH\tnotanumber\t1\t0\tS1\n" +
	"GENE3\tchrUn_KI270742v1:77\tCT>C\trs9\tframeshift_variant\tHIGH\t0.5\t1\t1\tS1;S2;S2\n" +
	"GENE4\tchr3:5\tA>T\n" +
	"GENE5\tchr3:6\tA>T\t.\tsynonymous_variant\tLOW\t0\t0\t0\t\n"

func TestReader(t *testing.T) {
	r, err := NewReaderFromReader(strings.NewReader(testTable))
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, &Record{
		Gene: "GENE1", Chrom: "chr1", Pos: 150, Ref: "A", Alt: "G", RSID: ".",
		Consequence: "missense_variant", Impact: "MODERATE", AF: 0.25,
		CaseCarriers: 1, Carriers: []string{"S1"},
	}, rec)

	_, err = r.Next()
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "chrUn_KI270742v1", rec.Chrom)
	assert.Equal(t, int64(77), rec.Pos)
	assert.Equal(t, "CT", rec.Ref)
	assert.Equal(t, map[string]int{"S1": 1, "S2": 2}, rec.Dosage())

	_, err = r.Next()
	require.True(t, errors.As(err, &fe), "short row")

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Empty(t, rec.Carriers)

	rec, err = r.Next()
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReader_BadHeader(t *testing.T) {
	_, err := NewReaderFromReader(strings.NewReader("Gene\tMutID\n"))
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))

	_, err = NewReaderFromReader(strings.NewReader(""))
	assert.True(t, errors.As(err, &fe))
}

func TestParseMutationID(t *testing.T) {
	chrom, pos, err := ParseMutationID("HLA-A*01:01:100")
	require.NoError(t, err)
	assert.Equal(t, "HLA-A*01:01", chrom)
	assert.Equal(t, int64(100), pos)

	_, _, err = ParseMutationID("chr1")
	assert.Error(t, err)
	_, _, err = ParseMutationID("chr1:x")
	assert.Error(t, err)
}
