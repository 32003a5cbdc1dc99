package mutation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/rvqc/internal/vcf"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		v := makeVariant(missenseANN, "0/1", "0/0", "0/0", "0/0")
		v.Pos = int64(100 + i)
		ch <- WorkItem{Seq: i, Line: i + 1, Variant: v}
	}
	close(ch)
	return ch
}

func TestParallelBuild_OrderPreservation(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	results := b.ParallelBuild(makeItems(200), 8)

	var collected []int64
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Record.Pos)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, collected, 200)
	for i, pos := range collected {
		assert.Equal(t, int64(100+i), pos, "result %d out of order", i)
	}
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	b := NewBuilder(testSamples, testIndividuals())

	results := b.ParallelBuild(makeItems(50), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if r.Seq == 9 {
			return fmt.Errorf("stop at %d", r.Seq)
		}
		return nil
	})
	assert.EqualError(t, err, "stop at 9")
	assert.Equal(t, 10, count)
}

type passFilter struct{ rejectPos int64 }

func (f passFilter) Accept(v *vcf.Variant) (bool, error) {
	if v.Pos == 999 {
		return false, errors.New("unreadable metric")
	}
	return v.Pos != f.rejectPos, nil
}

func TestBuildAll(t *testing.T) {
	input := strings.Join([]string{
		"##fileformat=VCFv4.2",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\tS3\tS4",
		"chr1\t100\t.\tA\tG\t.\tPASS\tANN=" + missenseANN + "\tGT\t0/1\t0/0\t0/0\t0/0",
		"chr1\tbad\t.\tA\tG\t.\tPASS\t.\tGT\t0/1\t0/0\t0/0\t0/0",
		"chr1\t200\t.\tA\tG\t.\tPASS\tANN=G|intron_variant|MODIFIER|X\tGT\t0/1\t0/0\t0/0\t0/0",
		"chr1\t300\trs1\tC\tT\t.\tPASS\tANN=T|synonymous_variant|LOW|GENE3\tGT\t1/1\t0/1\t0/0\t./.",
		"chr1\t400\t.\tC\tA\t.\tPASS\tANN=A|stop_gained|HIGH|GENE4\tGT\t0/1\t0/0\t0/0\t0/0",
		"chr1\t999\t.\tC\tA\t.\tPASS\tANN=A|stop_gained|HIGH|GENE4\tGT\t0/1\t0/0\t0/0\t0/0",
		"chr1\t500\t.\tG\tA\t.\tPASS\tANN=A|missense_variant|MODERATE|GENE5;gnomAD_exomes_NFE_AF=x\tGT\t0/1\t0/0\t0/0\t0/0",
	}, "\n") + "\n"

	parser, err := vcf.NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	b := NewBuilder(parser.SampleNames(), testIndividuals())

	var records []*Record
	summary, err := b.BuildAll(parser, passFilter{rejectPos: 400}, 3, func(r *Record) error {
		records = append(records, r)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "GENE1", records[0].Gene)
	assert.Equal(t, "GENE3", records[1].Gene)
	assert.Equal(t, []string{"S1", "S1", "S2"}, records[1].Carriers)

	assert.Equal(t, Summary{Variants: 6, Malformed: 3, Rejected: 1, Excluded: 1, Records: 2}, summary)
}
