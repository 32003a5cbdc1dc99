// Package stats aggregates per-sample QC counters over a stream of
// mutation records.
package stats

// NumCounters is the number of counters per sample.
const NumCounters = 28

// Columns are the statistics table column names after ID, in counter order.
var Columns = [NumCounters]string{
	"R/A_Ts", "R/A_Tv", "Indel", "Ref", "Het", "Hom",
	"novelSNP", "knownSNP", "A/D_Ts", "A/D_Tv", "knownCpG", "novelCpG",
	"knownTs", "knownTv", "novelTs", "novelTv", "nCpG-K_Ts", "nCpG-K_Tv",
	"nCpG-N_Ts", "nCpG-N_Tv", "synonymousTs", "synonymousTv", "missenseTs",
	"missenseTv", "nonsenseTs", "nonsenseTv", "homINDEL", "hetINDEL",
}

// Counters holds one sample's QC counters. Field comments give the output
// column each field is written to. Several columns are part of the table
// layout but have no update rule and stay zero.
type Counters struct {
	TransitionSingleDose int // R/A_Ts: transition sites carried with dosage 1
	TransitionMultiDose  int // R/A_Tv: transition sites carried with dosage >= 2
	AltAlleles           int // Indel: total alt dosage over carried sites
	RefOrNoCall          int // Ref: sites not carried
	Het                  int // Het
	SNPSites             int // Hom: carried SNP sites
	NovelSites           int // novelSNP: carried sites absent from dbSNP
	KnownSites           int // knownSNP: carried dbSNP sites
	ADTs                 int // A/D_Ts
	ADTv                 int // A/D_Tv
	KnownCpG             int // knownCpG: carried dbSNP sites inside CpG regions
	NovelCpG             int // novelCpG: carried novel sites inside CpG regions
	KnownTs              int // knownTs
	KnownTv              int // knownTv
	NovelTs              int // novelTs
	NovelTv              int // novelTv
	NonCpGKnownTs        int // nCpG-K_Ts
	NonCpGKnownTv        int // nCpG-K_Tv
	NonCpGNovel          int // nCpG-N_Ts: carried novel sites outside CpG regions
	NonCpGNovelTv        int // nCpG-N_Tv
	Synonymous           int // synonymousTs: synonymous sites
	SynonymousTv         int // synonymousTv: synonymous non-transition sites
	Missense             int // missenseTs: missense sites
	MissenseTv           int // missenseTv: missense non-transition sites
	Nonsense             int // nonsenseTs: stop-gained sites
	NonsenseTv           int // nonsenseTv: stop-gained non-transition sites
	IndelSites           int // homINDEL: carried indel sites
	HetIndel             int // hetINDEL
}

// fields returns pointers to every counter in column order.
func (c *Counters) fields() [NumCounters]*int {
	return [NumCounters]*int{
		&c.TransitionSingleDose, &c.TransitionMultiDose, &c.AltAlleles, &c.RefOrNoCall,
		&c.Het, &c.SNPSites, &c.NovelSites, &c.KnownSites,
		&c.ADTs, &c.ADTv, &c.KnownCpG, &c.NovelCpG,
		&c.KnownTs, &c.KnownTv, &c.NovelTs, &c.NovelTv,
		&c.NonCpGKnownTs, &c.NonCpGKnownTv, &c.NonCpGNovel, &c.NonCpGNovelTv,
		&c.Synonymous, &c.SynonymousTv, &c.Missense, &c.MissenseTv,
		&c.Nonsense, &c.NonsenseTv, &c.IndelSites, &c.HetIndel,
	}
}

// Values returns the counters in column order.
func (c Counters) Values() [NumCounters]int {
	var out [NumCounters]int
	for i, p := range c.fields() {
		out[i] = *p
	}
	return out
}

// FromValues builds Counters from values in column order.
func FromValues(v [NumCounters]int) Counters {
	var c Counters
	for i, p := range c.fields() {
		*p = v[i]
	}
	return c
}

// Add adds o to c element-wise.
func (c *Counters) Add(o Counters) {
	ov := o.Values()
	for i, p := range c.fields() {
		*p += ov[i]
	}
}

// Total returns the sum of all counters.
func (c Counters) Total() int {
	n := 0
	for _, v := range c.Values() {
		n += v
	}
	return n
}
