package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/stats"
)

func TestSummarizeCohorts(t *testing.T) {
	ind := cohort.New([]cohort.Individual{
		{ID: "S1", Cohort: cohort.Case},
		{ID: "S2", Cohort: cohort.Control},
		{ID: "S3", Cohort: cohort.Case},
		{ID: "S4", Cohort: cohort.Unknown},
	})
	rows := []stats.Row{
		{ID: "S1", Counters: stats.Counters{AltAlleles: 2, SNPSites: 1, KnownSites: 1}},
		{ID: "S2", Counters: stats.Counters{AltAlleles: 1, IndelSites: 1, NovelSites: 1}},
		{ID: "S3", Counters: stats.Counters{AltAlleles: 1, SNPSites: 1, NovelSites: 1}},
		{ID: "S4"},
	}

	totals := SummarizeCohorts(rows, ind)
	require.Len(t, totals, 3)

	assert.Equal(t, CohortTotals{Cohort: cohort.Case, Individuals: 2, AltAlleles: 3, SNPSites: 2, NovelSites: 1, KnownSites: 1}, totals[0])
	assert.Equal(t, CohortTotals{Cohort: cohort.Control, Individuals: 1, AltAlleles: 1, IndelSites: 1, NovelSites: 1}, totals[1])
	assert.Equal(t, CohortTotals{Cohort: cohort.Unknown, Individuals: 1}, totals[2])
}

func TestWriteCohortSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteCohortSummary(&buf, []CohortTotals{
		{Cohort: cohort.Case, Individuals: 2, AltAlleles: 3},
		{Cohort: cohort.Control, Individuals: 1, AltAlleles: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "Cohort")
	assert.Contains(t, out, "CASE")
	assert.Contains(t, out, "CONTROL")
	assert.Contains(t, out, "Total")
}
