package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/rvqc/internal/mutation"
	"github.com/inodb/rvqc/internal/output"
)

func newMutationsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "mutations <variants.vcf> <phenotypes.fam>",
		Short: "Build the mutation table from an annotated VCF",
		Long: `Build the mutation table from a SnpEff-annotated multi-sample VCF.

Variants whose primary annotation is outside the coding and damaging
consequence set are dropped. Each remaining variant becomes one row with
its study-wide allele frequency, case and control carrier counts, and
the carrier list.`,
		Example: `  rvqc mutations cohort.ann.vcf.gz cohort.fam -o mutations.tsv
  rvqc mutations --hard-filter --max-af 0.01 cohort.vcf cohort.fam -o rare.tsv.gz`,
		Args: requireArgs("variants.vcf", "phenotypes.fam"),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutations(cmd, args[0], args[1], outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "output file (.gz to compress, - for stdout)")
	addBuildFlags(cmd)
	addWorkersFlag(cmd)
	addDBFlag(cmd)

	return cmd
}

func runMutations(cmd *cobra.Command, vcfPath, famPath, outputFile string) error {
	if err := checkInputs(vcfPath, famPath); err != nil {
		return err
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}

	ind, err := loadIndividuals(famPath)
	if err != nil {
		return err
	}

	out, err := createOutput(outputFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer out.Abort()

	w := output.NewMutationWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var records []*mutation.Record
	if _, err := buildRecords(vcfPath, ind, s, func(r *mutation.Record) error {
		if s.DB != "" {
			records = append(records, r)
		}
		return w.Write(r)
	}); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write mutation table: %w", err)
	}
	if err := out.Commit(); err != nil {
		return err
	}

	if s.DB != "" {
		return persist(s.DB, "mutations", []string{vcfPath, famPath}, records, nil)
	}
	return nil
}
