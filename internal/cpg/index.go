// Package cpg answers point-containment queries against CpG island regions.
package cpg

import "sort"

// Region is a closed, 1-based genomic interval [Start, End].
type Region struct {
	Chrom string
	Start int64
	End   int64
}

// Contains reports whether pos lies within the region.
func (r Region) Contains(pos int64) bool {
	return r.Start <= pos && pos <= r.End
}

// Index holds per-chromosome interval trees. It is immutable after Build
// and safe for concurrent reads.
type Index struct {
	trees map[string]*intervalTree
	count int
}

// Build creates an index from a set of regions. Regions are neither merged
// nor deduplicated; overlapping regions are allowed.
func Build(regions []Region) *Index {
	byChrom := make(map[string][]Region)
	for _, r := range regions {
		byChrom[r.Chrom] = append(byChrom[r.Chrom], r)
	}

	idx := &Index{trees: make(map[string]*intervalTree, len(byChrom)), count: len(regions)}
	for chrom, rs := range byChrom {
		idx.trees[chrom] = buildIntervalTree(rs)
	}
	return idx
}

// Contains reports whether any region on chrom contains pos.
// Unknown chromosomes return false. A nil index contains nothing.
func (idx *Index) Contains(chrom string, pos int64) bool {
	if idx == nil {
		return false
	}
	t, ok := idx.trees[chrom]
	if !ok {
		return false
	}
	return t.contains(pos)
}

// Len returns the number of regions in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.count
}

// Chromosomes returns the indexed chromosome names in sorted order.
func (idx *Index) Chromosomes() []string {
	if idx == nil {
		return nil
	}
	chroms := make([]string, 0, len(idx.trees))
	for c := range idx.trees {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// intervalTree provides O(log n) containment queries using a sorted-slice approach.
type intervalTree struct {
	starts []int64
	ends   []int64
	maxEnd []int64 // maxEnd[i] = max(ends[0..i])
}

func buildIntervalTree(regions []Region) *intervalTree {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	t := &intervalTree{
		starts: make([]int64, len(sorted)),
		ends:   make([]int64, len(sorted)),
		maxEnd: make([]int64, len(sorted)),
	}
	for i, r := range sorted {
		t.starts[i] = r.Start
		t.ends[i] = r.End
		t.maxEnd[i] = r.End
		if i > 0 && t.maxEnd[i-1] > t.maxEnd[i] {
			t.maxEnd[i] = t.maxEnd[i-1]
		}
	}
	return t
}

// contains finds the last interval with start <= pos. Every interval up to
// it starts at or before pos, so pos is covered iff the prefix max end
// reaches pos.
func (t *intervalTree) contains(pos int64) bool {
	hi := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > pos
	})
	if hi == 0 {
		return false
	}
	return t.maxEnd[hi-1] >= pos
}
