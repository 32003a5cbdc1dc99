// Package qcfilter implements a GATK-style hard filter on site-level
// quality metrics.
package qcfilter

import (
	"fmt"
	"strconv"

	"github.com/inodb/rvqc/internal/vcf"
)

// INFO keys read by the filter.
const (
	KeyFS              = "FS"
	KeyInbreedingCoeff = "InbreedingCoeff"
	KeyMQ              = "MQ"
	KeyMQRankSum       = "MQRankSum"
	KeyQD              = "QD"
	KeyReadPosRankSum  = "ReadPosRankSum"
	KeySOR             = "SOR"
)

// Defaults substituted for absent metrics.
var missingDefaults = map[string]float64{
	KeyFS:              201,
	KeyInbreedingCoeff: -0.8,
	KeyMQ:              40,
	KeyMQRankSum:       -12.5,
	KeyQD:              2,
	KeyReadPosRankSum:  -0.8,
	KeySOR:             11,
}

// SNPThresholds are the cutoffs for single-base substitutions.
type SNPThresholds struct {
	MaxFS              float64
	MinInbreedingCoeff float64
	MinMQ              float64
	MinMQRankSum       float64
	MinQD              float64
	MinReadPosRankSum  float64
	MaxSOR             float64
}

// IndelThresholds are the cutoffs for every other variant.
type IndelThresholds struct {
	MaxFS             float64
	MinQD             float64
	MinReadPosRankSum float64
	MaxSOR            float64
}

// Thresholds configures a HardFilter. Lower bounds and FS are strict;
// SOR is inclusive.
type Thresholds struct {
	SNP   SNPThresholds  
	Indel IndelThresholds
}

// DefaultThresholds returns the cutoffs used by the rare-variant pipeline.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SNP: SNPThresholds{
			MaxFS:              60,
			MinInbreedingCoeff: -0.8,
			MinMQ:              40,
			MinMQRankSum:       -12.5,
			MinQD:              2,
			MinReadPosRankSum:  -8,
			MaxSOR:             3,
		},
		Indel: IndelThresholds{
			MaxFS:             200,
			MinQD:             2,
			MinReadPosRankSum: -20,
			MaxSOR:            10,
		},
	}
}

// FormatError reports a quality metric that is not a number.
type FormatError struct {
	Key   string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Key, e.Value)
}

// Metrics are the site-level quality annotations of one variant.
type Metrics struct {
	FS, InbreedingCoeff, MQ, MQRankSum, QD, ReadPosRankSum, SOR float64
}

// ReadMetrics extracts quality metrics from the INFO field, substituting
// defaults for absent keys.
func ReadMetrics(v *vcf.Variant) (Metrics, error) {
	get := func(key string) (float64, error) {
		raw, ok := v.InfoString(key)
		if !ok {
			return missingDefaults[key], nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &FormatError{Key: key, Value: raw}
		}
		return f, nil
	}

	var m Metrics
	var err error
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{KeyFS, &m.FS},
		{KeyInbreedingCoeff, &m.InbreedingCoeff},
		{KeyMQ, &m.MQ},
		{KeyMQRankSum, &m.MQRankSum},
		{KeyQD, &m.QD},
		{KeyReadPosRankSum, &m.ReadPosRankSum},
		{KeySOR, &m.SOR},
	} {
		if *f.dst, err = get(f.key); err != nil {
			return Metrics{}, err
		}
	}
	return m, nil
}

// HardFilter accepts or rejects variants on fixed metric cutoffs.
// It is stateless and safe for concurrent use.
type HardFilter struct {
	t Thresholds
}

// New creates a HardFilter with the given thresholds.
func New(t Thresholds) *HardFilter {
	return &HardFilter{t: t}
}

// Accept reports whether v passes the filter. A non-numeric metric
// returns a *FormatError.
func (f *HardFilter) Accept(v *vcf.Variant) (bool, error) {
	m, err := ReadMetrics(v)
	if err != nil {
		return false, err
	}
	if v.IsSNV() {
		return f.acceptSNP(m), nil
	}
	return f.acceptIndel(m), nil
}

func (f *HardFilter) acceptSNP(m Metrics) bool {
	t := f.t.SNP
	return m.FS < t.MaxFS &&
		m.InbreedingCoeff > t.MinInbreedingCoeff &&
		m.MQ > t.MinMQ &&
		m.MQRankSum > t.MinMQRankSum &&
		m.QD > t.MinQD &&
		m.ReadPosRankSum > t.MinReadPosRankSum &&
		m.SOR <= t.MaxSOR
}

func (f *HardFilter) acceptIndel(m Metrics) bool {
	t := f.t.Indel
	return m.FS < t.MaxFS &&
		m.QD > t.MinQD &&
		m.ReadPosRankSum > t.MinReadPosRankSum &&
		m.SOR <= t.MaxSOR
}
