package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/stats"
)

// CohortTotals sums per-sample counters over one cohort.
type CohortTotals struct {
	Cohort      cohort.Cohort
	Individuals int
	AltAlleles  int
	SNPSites    int
	IndelSites  int
	NovelSites  int
	KnownSites  int
}

// SummarizeCohorts groups rows by the cohort of each sample. The result
// always holds Case, Control and Unknown in that order.
func SummarizeCohorts(rows []stats.Row, individuals *cohort.Individuals) []CohortTotals {
	order := []cohort.Cohort{cohort.Case, cohort.Control, cohort.Unknown}
	totals := make([]CohortTotals, len(order))
	pos := make(map[cohort.Cohort]int, len(order))
	for i, c := range order {
		totals[i].Cohort = c
		pos[c] = i
	}

	for _, row := range rows {
		t := &totals[pos[individuals.CohortOf(row.ID)]]
		c := row.Counters
		t.Individuals++
		t.AltAlleles += c.AltAlleles
		t.SNPSites += c.SNPSites
		t.IndelSites += c.IndelSites
		t.NovelSites += c.NovelSites
		t.KnownSites += c.KnownSites
	}
	return totals
}

// WriteCohortSummary renders cohort totals as a plain-text table.
func WriteCohortSummary(w io.Writer, totals []CohortTotals) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Cohort", "Individuals", "Alt alleles", "SNP sites", "Indel sites", "Novel", "Known"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)

	var sum CohortTotals
	for _, t := range totals {
		table.Append([]string{
			t.Cohort.String(),
			strconv.Itoa(t.Individuals),
			strconv.Itoa(t.AltAlleles),
			strconv.Itoa(t.SNPSites),
			strconv.Itoa(t.IndelSites),
			strconv.Itoa(t.NovelSites),
			strconv.Itoa(t.KnownSites),
		})
		sum.Individuals += t.Individuals
		sum.AltAlleles += t.AltAlleles
		sum.SNPSites += t.SNPSites
		sum.IndelSites += t.IndelSites
		sum.NovelSites += t.NovelSites
		sum.KnownSites += t.KnownSites
	}

	table.SetFooter([]string{
		"Total",
		strconv.Itoa(sum.Individuals),
		strconv.Itoa(sum.AltAlleles),
		strconv.Itoa(sum.SNPSites),
		strconv.Itoa(sum.IndelSites),
		strconv.Itoa(sum.NovelSites),
		strconv.Itoa(sum.KnownSites),
	})
	table.Render()
}
