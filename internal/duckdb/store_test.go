package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/stats"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestStatsColumns(t *testing.T) {
	assert.Equal(t, "r_a_ts", statsColumns[0])
	assert.Equal(t, "ncpg_k_ts", statsColumns[16])
	assert.Equal(t, "hetindel", statsColumns[stats.NumCounters-1])

	seen := make(map[string]bool)
	for _, c := range statsColumns {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}

func TestBeginRun(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "cohort.fam")
	require.NoError(t, os.WriteFile(path, []byte("F S1 0 0 1 2\n"), 0644))
	fp, err := StatFile(path)
	require.NoError(t, err)

	id1, err := s.BeginRun("stats", fp)
	require.NoError(t, err)
	id2, err := s.BeginRun("mutations")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	run, err := s.LookupRun(id1)
	require.NoError(t, err)
	assert.Equal(t, "stats", run.Command)
	require.Len(t, run.Inputs, 1)
	assert.Equal(t, path, run.Inputs[0].Path)
	assert.Equal(t, fp.Size, run.Inputs[0].Size)

	_, err = s.LookupRun(999)
	assert.Error(t, err)
}

func TestWriteAndQueryRecords(t *testing.T) {
	s := openInMemory(t)
	runID, err := s.BeginRun("mutations")
	require.NoError(t, err)

	records := []*mutation.Record{
		{
			Gene: "KRAS", Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A",
			RSID: "rs121913529", Consequence: "missense_variant", Impact: "MODERATE",
			AlleleCount: 3, AlleleNumber: 8, AF: 0.375,
			CaseCarriers: 1, ControlCarriers: 1,
			Carriers: []string{"S1", "S2", "S2"}, PopulationAF: 0.001,
		},
		{
			Gene: "BRAF", Chrom: "7", Pos: 140753336, Ref: "A", Alt: "T",
			RSID: ".", Consequence: "stop_gained", Impact: "HIGH",
		},
	}
	require.NoError(t, s.WriteRecords(runID, records))
	require.NoError(t, s.WriteRecords(runID, nil))

	kras, err := s.RecordsByGene("KRAS")
	require.NoError(t, err)
	require.Len(t, kras, 1)
	assert.Equal(t, records[0], kras[0])

	braf, err := s.RecordsByGene("BRAF")
	require.NoError(t, err)
	require.Len(t, braf, 1)
	assert.Nil(t, braf[0].Carriers)

	none, err := s.RecordsByGene("NOTEXIST")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWriteAndQueryStats(t *testing.T) {
	s := openInMemory(t)

	first, err := s.BeginRun("stats")
	require.NoError(t, err)
	require.NoError(t, s.WriteStats(first, []stats.Row{
		{ID: "S1", Counters: stats.Counters{TransitionSingleDose: 1, HetIndel: 2}},
		{ID: "S2"},
	}))

	c, ok, err := s.StatsFor("S1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, c.TransitionSingleDose)
	assert.Equal(t, 2, c.HetIndel)

	second, err := s.BeginRun("stats")
	require.NoError(t, err)
	require.NoError(t, s.WriteStats(second, []stats.Row{
		{ID: "S1", Counters: stats.Counters{Missense: 5}},
	}))

	c, ok, err = s.StatsFor("S1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stats.Counters{Missense: 5}, c, "latest run wins")

	_, ok, err = s.StatsFor("S9")
	require.NoError(t, err)
	assert.False(t, ok)
}
