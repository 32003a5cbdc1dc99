package stats

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/rvqc/internal/annotate"
	"github.com/inodb/rvqc/internal/cpg"
	"github.com/inodb/rvqc/internal/mutation"
)

// RegionIndex answers CpG containment queries.
type RegionIndex interface {
	Contains(chrom string, pos int64) bool
}

// Aggregator accumulates per-sample counters. It is not safe for
// concurrent use; see AggregateStream for sharded aggregation.
type Aggregator struct {
	ids      []string
	index    map[string]int
	counters []Counters
	regions  RegionIndex
	legacy   bool
	records  int
	logger   *zap.Logger

	// dose is scratch space reused across records.
	dose map[int]int
}

// NewAggregator creates an aggregator tracking ids, in output order.
// regions may be nil, in which case no site is inside a CpG region.
func NewAggregator(ids []string, regions RegionIndex) *Aggregator {
	if regions == nil {
		regions = (*cpg.Index)(nil)
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}
	return &Aggregator{
		ids:      ids,
		index:    index,
		counters: make([]Counters, len(ids)),
		regions:  regions,
		logger:   zap.NewNop(),
		dose:     make(map[int]int),
	}
}

// SetLegacyEffects reproduces the accounting of earlier releases:
// effect counters are charged once per record to the last tracked sample,
// whether or not it carries the variant, and R/A_Tv is never incremented.
// By default effect counters are charged to every carrier.
func (a *Aggregator) SetLegacyEffects(legacy bool) {
	a.legacy = legacy
}

// SetLogger sets the logger for debug messages.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Records returns the number of records aggregated.
func (a *Aggregator) Records() int {
	return a.records
}

// Add updates every tracked sample's counters for one record. Carrier IDs
// that are not tracked are ignored.
func (a *Aggregator) Add(r *mutation.Record) {
	a.records++

	clear(a.dose)
	for _, id := range r.Carriers {
		if i, ok := a.index[id]; ok {
			a.dose[i]++
		}
	}

	site := classifySite(r, a.regions, len(a.dose) > 0)

	for i := range a.counters {
		k := a.dose[i]
		c := &a.counters[i]
		if k == 0 {
			c.RefOrNoCall++
			continue
		}
		a.addCarrier(c, site, k)
		if !a.legacy {
			addEffect(c, site)
		}
	}

	if a.legacy && len(a.counters) > 0 {
		addEffect(&a.counters[len(a.counters)-1], site)
	}
}

// site holds the classification of a record shared by all samples.
type site struct {
	variantType annotate.VariantType
	change      annotate.ChangeKind
	status      mutation.RSIDStatus
	effect      annotate.Effect
	inCpG       bool
}

func classifySite(r *mutation.Record, regions RegionIndex, needCpG bool) site {
	s := site{
		variantType: r.VariantType(),
		change:      r.ChangeKind(),
		status:      r.RSIDStatus(),
		effect:      r.Effect(),
	}
	if needCpG {
		s.inCpG = regions.Contains(r.Chrom, r.Pos)
	}
	return s
}

func (a *Aggregator) addCarrier(c *Counters, s site, k int) {
	if s.variantType == annotate.VariantIndel {
		c.IndelSites++
	} else {
		c.SNPSites++
	}
	c.AltAlleles += k

	if s.change == annotate.ChangeTransition {
		if k == 1 {
			c.TransitionSingleDose++
		} else if !a.legacy {
			c.TransitionMultiDose++
		}
	}

	switch s.status {
	case mutation.Novel:
		c.NovelSites++
		if s.inCpG {
			c.NovelCpG++
		} else {
			c.NonCpGNovel++
		}
	case mutation.Known:
		// Known sites outside CpG regions have no counter.
		c.KnownSites++
		if s.inCpG {
			c.KnownCpG++
		}
	}
}

func addEffect(c *Counters, s site) {
	tv := 0
	if s.change != annotate.ChangeTransition {
		tv = 1
	}
	switch s.effect {
	case annotate.EffectSynonymous:
		c.Synonymous++
		c.SynonymousTv += tv
	case annotate.EffectMissense:
		c.Missense++
		c.MissenseTv += tv
	case annotate.EffectNonsense:
		c.Nonsense++
		c.NonsenseTv += tv
	case annotate.EffectOther:
	}
}

// Merge adds the counters of o, which must track the same samples in the
// same order.
func (a *Aggregator) Merge(o *Aggregator) error {
	if len(o.ids) != len(a.ids) {
		return fmt.Errorf("merge: tracking %d samples, other tracks %d", len(a.ids), len(o.ids))
	}
	for i, id := range a.ids {
		if o.ids[i] != id {
			return fmt.Errorf("merge: sample %d is %q, other has %q", i, id, o.ids[i])
		}
	}
	for i := range a.counters {
		a.counters[i].Add(o.counters[i])
	}
	a.records += o.records
	return nil
}

// Get returns the counters of one sample.
func (a *Aggregator) Get(id string) (Counters, bool) {
	i, ok := a.index[id]
	if !ok {
		return Counters{}, false
	}
	return a.counters[i], true
}

// Row is one sample's final counters.
type Row struct {
	ID       string
	Counters Counters
}

// Rows returns the counters of every tracked sample in output order.
func (a *Aggregator) Rows() []Row {
	rows := make([]Row, len(a.ids))
	for i, id := range a.ids {
		rows[i] = Row{ID: id, Counters: a.counters[i]}
	}
	return rows
}
