package intein

import (
	"sort"

	"github.com/inteinfinder/inteinfinder/config"
)

// RefinedRegion is a putative region after validation. Trimmable regions
// take the span of the intein alignment that validated them.
type RefinedRegion struct {
	Query    string
	RegionID int
	Span     Span

	// Trimmable regions are excised from the query
	Trimmable bool

	// Refiner is the outcome that refined the region, nil if none did
	Refiner *Outcome
}

// regionKey identifies a region across queries.
type regionKey struct {
	query string
	id    int
}

// winners returns the first AllGood outcome of each region, in outcome order.
func winners(outcomes []Outcome) map[regionKey]*Outcome {
	won := make(map[regionKey]*Outcome)
	for i := range outcomes {
		o := &outcomes[i]
		if !o.AllGood {
			continue
		}
		k := regionKey{o.Query, o.RegionID}
		if _, exists := won[k]; !exists {
			won[k] = o
		}
	}
	return won
}

// Refine decides which regions are trimmable and where they are.
//
// A region is trimmable if an intein alignment validated it with an evalue at
// or below the refinement cutoff. If length gating is on, regions outside the
// length range are dropped. The result is sorted by query and region id.
func Refine(regions map[string][]Region, outcomes []Outcome, conf config.RegionConfig) []RefinedRegion {
	won := winners(outcomes)

	var refined []RefinedRegion
	for query, rs := range regions {
		for _, r := range rs {
			rr := RefinedRegion{Query: query, RegionID: r.ID, Span: r.Span}

			if w, ok := won[regionKey{query, r.ID}]; ok && w.Evalue <= conf.RefineEvalue {
				winner := *w
				rr.Span = winner.Span
				rr.Trimmable = true
				rr.Refiner = &winner
			}

			if conf.GateLength && (rr.Span.Len() < conf.MinLength || rr.Span.Len() > conf.MaxLength) {
				continue
			}
			refined = append(refined, rr)
		}
	}

	sort.Slice(refined, func(i, j int) bool {
		if refined[i].Query != refined[j].Query {
			return refined[i].Query < refined[j].Query
		}
		return refined[i].RegionID < refined[j].RegionID
	})
	return refined
}
