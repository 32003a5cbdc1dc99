package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/rvqc/internal/qcfilter"
	"github.com/inodb/rvqc/internal/vcf"
)

// Viper keys.
const (
	keyWorkers       = "workers"
	keyInfoColumn    = "info_column"
	keyMinAF         = "min_af"
	keyMaxAF         = "max_af"
	keyLegacyEffects = "legacy_effects"
	keyHardFilter    = "hard_filter"
	keyDB            = "db"
)

// settings are the resolved run options: flags override environment,
// which overrides the config file.
type settings struct {
	Workers       int
	InfoColumn    int
	MinAF         float64
	MaxAF         float64
	LegacyEffects bool
	HardFilter    bool
	DB            string
	Thresholds    qcfilter.Thresholds
}

// flagKeys maps flag names to viper keys.
var flagKeys = map[string]string{
	"workers":        keyWorkers,
	"info-column":    keyInfoColumn,
	"min-af":         keyMinAF,
	"max-af":         keyMaxAF,
	"legacy-effects": keyLegacyEffects,
	"hard-filter":    keyHardFilter,
	"db":             keyDB,
}

// bindFlags binds the flags cmd defines to their viper keys. It must run
// for the executing command only, since keys are shared across commands.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func addWorkersFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "j", runtime.NumCPU(), "number of parallel workers")
}

func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "also store results in this DuckDB file")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Int("info-column", vcf.ColInfo, "0-based column holding the INFO string (5 for legacy inputs)")
	cmd.Flags().Float64("min-af", 0, "minimum population allele frequency")
	cmd.Flags().Float64("max-af", 1, "maximum population allele frequency")
	cmd.Flags().Bool("hard-filter", false, "apply the site quality hard filter before building records")
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("legacy-effects", false, "charge effect counters to the last sample of each record, as older releases did")
	cmd.Flags().Bool("summary", false, "print per-cohort totals to stderr")
}

// loadSettings reads and validates settings from viper.
func loadSettings() (settings, error) {
	s := settings{
		Workers:       viper.GetInt(keyWorkers),
		InfoColumn:    viper.GetInt(keyInfoColumn),
		MinAF:         viper.GetFloat64(keyMinAF),
		MaxAF:         viper.GetFloat64(keyMaxAF),
		LegacyEffects: viper.GetBool(keyLegacyEffects),
		HardFilter:    viper.GetBool(keyHardFilter),
		DB:            viper.GetString(keyDB),
	}
	s.Thresholds = readThresholds()

	switch {
	case s.Workers < 0:
		return s, &ConfigurationError{Message: fmt.Sprintf("workers must not be negative, got %d", s.Workers)}
	case s.InfoColumn < vcf.ColQual || s.InfoColumn > vcf.ColInfo:
		return s, &ConfigurationError{Message: fmt.Sprintf("info column must be between %d and %d, got %d", vcf.ColQual, vcf.ColInfo, s.InfoColumn)}
	case s.MinAF < 0 || s.MaxAF > 1 || s.MinAF > s.MaxAF:
		return s, &ConfigurationError{Message: fmt.Sprintf("invalid population AF window [%g, %g]", s.MinAF, s.MaxAF)}
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	return s, nil
}

// Threshold keys under filter.snp and filter.indel.
const (
	keySNPMaxFS              = "filter.snp.max_fs"
	keySNPMinInbreedingCoeff = "filter.snp.min_inbreeding_coeff"
	keySNPMinMQ              = "filter.snp.min_mq"
	keySNPMinMQRankSum       = "filter.snp.min_mq_rank_sum"
	keySNPMinQD              = "filter.snp.min_qd"
	keySNPMinReadPosRankSum  = "filter.snp.min_read_pos_rank_sum"
	keySNPMaxSOR             = "filter.snp.max_sor"
	keyIndelMaxFS            = "filter.indel.max_fs"
	keyIndelMinQD            = "filter.indel.min_qd"
	keyIndelMinReadPosRank   = "filter.indel.min_read_pos_rank_sum"
	keyIndelMaxSOR           = "filter.indel.max_sor"
)

// readThresholds reads every cutoff as its own key so that a partial
// filter section in the config file keeps the remaining defaults.
func readThresholds() qcfilter.Thresholds {
	return qcfilter.Thresholds{
		SNP: qcfilter.SNPThresholds{
			MaxFS:              viper.GetFloat64(keySNPMaxFS),
			MinInbreedingCoeff: viper.GetFloat64(keySNPMinInbreedingCoeff),
			MinMQ:              viper.GetFloat64(keySNPMinMQ),
			MinMQRankSum:       viper.GetFloat64(keySNPMinMQRankSum),
			MinQD:              viper.GetFloat64(keySNPMinQD),
			MinReadPosRankSum:  viper.GetFloat64(keySNPMinReadPosRankSum),
			MaxSOR:             viper.GetFloat64(keySNPMaxSOR),
		},
		Indel: qcfilter.IndelThresholds{
			MaxFS:             viper.GetFloat64(keyIndelMaxFS),
			MinQD:             viper.GetFloat64(keyIndelMinQD),
			MinReadPosRankSum: viper.GetFloat64(keyIndelMinReadPosRank),
			MaxSOR:            viper.GetFloat64(keyIndelMaxSOR),
		},
	}
}
