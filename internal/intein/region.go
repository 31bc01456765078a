package intein

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// ErrDegenerateHit is returned for a hit that doesn't span at least two residues.
var ErrDegenerateHit = errors.New("hit start is not before its end")

// Span is a 1-based, inclusive range of query coordinates.
type Span struct {
	Start int
	End   int
}

// Len is the number of residues in the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Contains returns whether o is entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps returns whether s and o share a residue.
func (s Span) Overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Region is a putative intein region: the union of overlapping homology
// hits on a query.
type Region struct {
	// ID is the 0-based index of the region on its query, in discovery order
	ID int

	// Query is the id of the sequence the region is on
	Query string

	Span
}

// MergeRegions merges a query's hits into disjoint regions.
//
// Hits are sorted by start (end breaks ties). A hit starting at or after the
// end of the last region starts a new region, so hits that only touch are
// not merged. Otherwise the last region's end is extended if the hit ends
// past it.
func MergeRegions(query string, hits []Hit) ([]Region, error) {
	spans := make([]Span, len(hits))
	for i, h := range hits {
		if h.QStart >= h.QEnd {
			return nil, fmt.Errorf("%w: %s vs %s (%d, %d)", ErrDegenerateHit, h.Query, h.Subject, h.QStart, h.QEnd)
		}
		spans[i] = h.Span()
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})

	var regions []Region
	for _, s := range spans {
		last := len(regions) - 1
		if last < 0 || s.Start >= regions[last].End {
			regions = append(regions, Region{ID: len(regions), Query: query, Span: s})
		} else if s.End > regions[last].End {
			regions[last].End = s.End
		}
	}
	return regions, nil
}

// BuildRegions groups hits by query and merges each group into regions.
// Queries without hits have no key in the result. Any degenerate hit fails
// the whole build.
func BuildRegions(hits []Hit) (map[string][]Region, error) {
	byQuery := make(map[string][]Hit)
	for _, h := range hits {
		byQuery[h.Query] = append(byQuery[h.Query], h)
	}

	regions := make(map[string][]Region, len(byQuery))
	for query, queryHits := range byQuery {
		merged, err := MergeRegions(query, queryHits)
		if err != nil {
			return nil, err
		}
		regions[query] = merged
	}
	return regions, nil
}

// RegionIndex answers "which region contains this span" for each query.
type RegionIndex struct {
	regions map[string][]Region
	trees   map[string]*interval.IntTree
}

// regionInterval adapts a Region to the interval tree.
type regionInterval struct {
	r Region
}

func (i regionInterval) ID() uintptr { return uintptr(i.r.ID) }

func (i regionInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.r.Start, End: i.r.End}
}

func (i regionInterval) Overlap(b interval.IntRange) bool {
	return i.r.Start <= b.End && b.Start <= i.r.End
}

// containedSpan is a query against the tree. Overlap returns whether b
// completely contains the span.
type containedSpan Span

func (s containedSpan) Overlap(b interval.IntRange) bool {
	return b.Start <= s.Start && s.End <= b.End
}

// NewRegionIndex builds an index over the regions of every query.
func NewRegionIndex(regions map[string][]Region) (*RegionIndex, error) {
	idx := &RegionIndex{
		regions: regions,
		trees:   make(map[string]*interval.IntTree, len(regions)),
	}

	for query, rs := range regions {
		tree := &interval.IntTree{}
		for _, r := range rs {
			if err := tree.Insert(regionInterval{r}, true); err != nil {
				return nil, fmt.Errorf("failed to index region %d of %s: %v", r.ID, query, err)
			}
		}
		tree.AdjustRanges()
		idx.trees[query] = tree
	}

	return idx, nil
}

// Regions returns the regions of a query and whether the query had any hits.
func (idx *RegionIndex) Regions(query string) ([]Region, bool) {
	rs, ok := idx.regions[query]
	return rs, ok
}

// Containing returns the region of the query that contains span (inclusive).
func (idx *RegionIndex) Containing(query string, span Span) (Region, bool) {
	tree, ok := idx.trees[query]
	if !ok {
		return Region{}, false
	}

	found := tree.Get(containedSpan(span))
	if len(found) == 0 {
		return Region{}, false
	}

	// regions are disjoint, so at most one contains the span
	return found[0].(regionInterval).r, true
}
