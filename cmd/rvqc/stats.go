package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/rvqc/internal/cohort"
	"github.com/inodb/rvqc/internal/cpg"
	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/output"
	"github.com/inodb/rvqc/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "stats <mutations.tsv> <cpg.bed> <phenotypes.fam>",
		Short: "Compute per-sample QC statistics from a mutation table",
		Long: `Compute the 28 per-sample QC counters from a mutation table.

Rows are written in phenotype-file order. Carriers not listed in the
phenotype file are ignored.`,
		Example: `  rvqc stats mutations.tsv cpg_islands.bed cohort.fam -o stats.tsv
  rvqc stats --legacy-effects --summary mutations.tsv.gz cpg.bed cohort.fam`,
		Args: requireArgs("mutations.tsv", "cpg.bed", "phenotypes.fam"),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, _ := cmd.Flags().GetBool("summary")
			return runStats(cmd, args[0], args[1], args[2], outputFile, summary)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "output file (.gz to compress, - for stdout)")
	addStatsFlags(cmd)
	addWorkersFlag(cmd)
	addDBFlag(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, tablePath, cpgPath, famPath, outputFile string, summary bool) error {
	if err := checkInputs(tablePath, cpgPath, famPath); err != nil {
		return err
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}

	regions, err := loadRegions(cpgPath)
	if err != nil {
		return err
	}
	ind, err := loadIndividuals(famPath)
	if err != nil {
		return err
	}

	table, err := mutation.NewReader(tablePath)
	if err != nil {
		return inputError(tablePath, err)
	}
	defer table.Close()

	agg, err := stats.AggregateStream(cmd.Context(), ind.IDs(), regions, table, stats.Options{
		Workers:       s.Workers,
		LegacyEffects: s.LegacyEffects,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	return finishStats(cmd, "stats", []string{tablePath, cpgPath, famPath}, outputFile, summary, s, ind, agg, nil)
}

func loadRegions(path string) (*cpg.Index, error) {
	idx, err := cpg.LoadIndex(path, logger)
	if err != nil {
		return nil, inputError(path, err)
	}
	return idx, nil
}

// finishStats writes the statistics table, then the optional summary and
// DuckDB copy.
func finishStats(cmd *cobra.Command, command string, inputs []string, outputFile string, summary bool,
	s settings, ind *cohort.Individuals, agg *stats.Aggregator, records []*mutation.Record) error {
	rows := agg.Rows()
	if err := writeStats(outputFile, cmd.OutOrStdout(), rows); err != nil {
		return err
	}

	if summary {
		output.WriteCohortSummary(cmd.ErrOrStderr(), output.SummarizeCohorts(rows, ind))
	}
	if s.DB != "" {
		return persist(s.DB, command, inputs, records, rows)
	}
	return nil
}
