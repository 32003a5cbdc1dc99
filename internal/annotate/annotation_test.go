package annotate

import "testing"

func TestIsIncluded(t *testing.T) {
	tests := []struct {
		consequence string
		want        bool
	}{
		{ConsequenceMissenseVariant, true},
		{ConsequenceSynonymousVariant, true},
		{ConsequenceStopGained, true},
		{ConsequenceFrameshiftVariant, true},
		{ConsequenceSpliceRegion, true},
		{ConsequenceDisruptiveInframeInsertion, true},
		{ConsequenceIntronVariant, false},
		{Consequence3PrimeUTR, false},
		// Neither included nor excluded: dropped by omission.
		{"inframe_deletion", false},
		{"stop_retained_variant", false},
		{"missense_variant&splice_region_variant", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.consequence, func(t *testing.T) {
			if got := IsIncluded(tt.consequence); got != tt.want {
				t.Errorf("IsIncluded(%q) = %v, want %v", tt.consequence, got, tt.want)
			}
		})
	}
}

func TestExcludedNeverIncluded(t *testing.T) {
	for term := range excluded {
		if IsIncluded(term) {
			t.Errorf("excluded term %q is included", term)
		}
		if !IsExcluded(term) {
			t.Errorf("IsExcluded(%q) = false", term)
		}
	}
}

func TestEffectOf(t *testing.T) {
	tests := []struct {
		consequence string
		want        Effect
	}{
		{ConsequenceSynonymousVariant, EffectSynonymous},
		{ConsequenceMissenseVariant, EffectMissense},
		{ConsequenceStopGained, EffectNonsense},
		{ConsequenceFrameshiftVariant, EffectOther},
		{"synonymous", EffectOther},
	}
	for _, tt := range tests {
		if got := EffectOf(tt.consequence); got != tt.want {
			t.Errorf("EffectOf(%q) = %v, want %v", tt.consequence, got, tt.want)
		}
	}
}
