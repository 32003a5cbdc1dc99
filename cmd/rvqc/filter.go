package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/rvqc/internal/output"
	"github.com/inodb/rvqc/internal/qcfilter"
	"github.com/inodb/rvqc/internal/vcf"
)

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <input.vcf> <output.vcf>",
		Short: "Apply the site quality hard filter to a VCF",
		Long: `Copy the header and every variant line that passes the hard filter.

SNPs and indels use separate thresholds, configurable under filter.snp
and filter.indel in the config file. A metric missing from INFO fails
the variant.`,
		Example: `  rvqc filter cohort.vcf.gz cohort.filtered.vcf
  rvqc config set filter.snp.min_qd 5`,
		Args: requireArgs("input.vcf", "output.vcf"),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args[0], args[1])
		},
	}
	cmd.Flags().Int("info-column", vcf.ColInfo, "0-based column holding the INFO string (5 for legacy inputs)")
	return cmd
}

func runFilter(cmd *cobra.Command, inPath, outPath string) error {
	if err := checkInputs(inPath); err != nil {
		return err
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}

	parser, err := vcf.NewParser(inPath)
	if err != nil {
		return inputError(inPath, err)
	}
	defer parser.Close()
	parser.SetInfoColumn(s.InfoColumn)

	out, err := createOutput(outPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer out.Abort()

	hf := qcfilter.New(s.Thresholds)
	w := output.NewVCFWriter(out, parser.Header())
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ctx := cmd.Context()
	var read, malformed, failed int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := parser.Next()
		if err != nil {
			var fe *vcf.FormatError
			if errors.As(err, &fe) {
				malformed++
				logger.Warn("skipping malformed variant line", zap.Int("line", fe.Line), zap.Error(err))
				continue
			}
			return fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}
		read++

		ok, err := hf.Accept(v)
		if err != nil {
			malformed++
			logger.Warn("skipping variant with unreadable quality metrics",
				zap.Int("line", parser.LineNumber()),
				zap.Error(err))
			continue
		}
		if !ok {
			failed++
			continue
		}
		if err := w.Write(v); err != nil {
			return fmt.Errorf("write variant: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write vcf: %w", err)
	}
	if err := out.Commit(); err != nil {
		return err
	}

	logger.Info("hard filter done",
		zap.Int("variants", read),
		zap.Int("malformed", malformed),
		zap.Int("passed", w.Written()),
		zap.Int("failed", failed))
	return nil
}
