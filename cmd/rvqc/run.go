package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/output"
	"github.com/inodb/rvqc/internal/stats"
)

func newRunCmd() *cobra.Command {
	var outputFile, mutationsFile string

	cmd := &cobra.Command{
		Use:   "run <variants.vcf> <cpg.bed> <phenotypes.fam>",
		Short: "Build mutation records and statistics in one pass",
		Long: `Build mutation records from an annotated VCF and aggregate per-sample
statistics without writing the intermediate mutation table. Use
--mutations to keep the table as well.`,
		Example: `  rvqc run cohort.ann.vcf.gz cpg.bed cohort.fam -o stats.tsv
  rvqc run --hard-filter --mutations mutations.tsv cohort.vcf cpg.bed cohort.fam -o stats.tsv`,
		Args: requireArgs("variants.vcf", "cpg.bed", "phenotypes.fam"),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, _ := cmd.Flags().GetBool("summary")
			return runPipeline(cmd, args[0], args[1], args[2], outputFile, mutationsFile, summary)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "statistics output file (.gz to compress, - for stdout)")
	cmd.Flags().StringVar(&mutationsFile, "mutations", "", "also write the mutation table to this file")
	addBuildFlags(cmd)
	addStatsFlags(cmd)
	addWorkersFlag(cmd)
	addDBFlag(cmd)

	return cmd
}

func runPipeline(cmd *cobra.Command, vcfPath, cpgPath, famPath, outputFile, mutationsFile string, summary bool) error {
	if err := checkInputs(vcfPath, cpgPath, famPath); err != nil {
		return err
	}
	if mutationsFile == "-" && (outputFile == "-" || outputFile == "") {
		return &ConfigurationError{Message: "mutation table and statistics cannot both go to stdout"}
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

	agg := stats.NewAggregator(ind.IDs(), regions)
	agg.SetLegacyEffects(s.LegacyEffects)
	agg.SetLogger(logger)

	var table *output.MutationWriter
	var tableOut sink
	if mutationsFile != "" {
		tableOut, err = createOutput(mutationsFile, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer tableOut.Abort()
		table = output.NewMutationWriter(tableOut)
		if err := table.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	ctx := cmd.Context()
	var records []*mutation.Record
	if _, err := buildRecords(vcfPath, ind, s, func(r *mutation.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		agg.Add(r)
		if s.DB != "" {
			records = append(records, r)
		}
		if table != nil {
			return table.Write(r)
		}
		return nil
	}); err != nil {
		return err
	}

	if table != nil {
		if err := table.Flush(); err != nil {
			return fmt.Errorf("write mutation table: %w", err)
		}
		if err := tableOut.Commit(); err != nil {
			return err
		}
	}

	return finishStats(cmd, "run", []string{vcfPath, cpgPath, famPath}, outputFile, summary, s, ind, agg, records)
}
