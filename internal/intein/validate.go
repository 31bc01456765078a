package intein

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownSequence is returned for a hit whose query or target isn't in the
// sequences it was searched from.
var ErrUnknownSequence = errors.New("unknown sequence id")

// validator aligns the intein database hits of each region against the query
// until one of them validates the region.
type validator struct {
	aligner Aligner

	// query and intein sequences by id
	queries map[string]string
	inteins map[string]string

	regions *RegionIndex

	// number of hits per region aligned one at a time before batching
	serial int

	// size of each batch after the serial hits
	workers int

	padding    int
	strictness int
	verbose    bool
}

// regionHits are the hits of a single region, best evalue first.
type regionHits struct {
	region Region
	hits   []Hit
}

// attemptFunc aligns a single hit. ok is false if the alignment was discarded.
type attemptFunc func(ctx context.Context, h Hit) (o Outcome, ok bool, err error)

// group assigns every hit to the region containing it and returns the
// regions' hits in (query, region, evalue) order.
func (v *validator) group(hits []Hit) ([]regionHits, error) {
	type key struct {
		query    string
		regionID int
	}

	groups := make(map[key]*regionHits)
	var keys []key
	for _, h := range hits {
		if _, ok := v.queries[h.Query]; !ok {
			return nil, fmt.Errorf("%w: query %s", ErrUnknownSequence, h.Query)
		}
		if _, ok := v.inteins[h.Subject]; !ok {
			return nil, fmt.Errorf("%w: intein %s", ErrUnknownSequence, h.Subject)
		}

		r, ok := v.regions.Containing(h.Query, h.Span())
		if !ok {
			return nil, fmt.Errorf("hit of %s on %s at %s is not in any region", h.Subject, h.Query, h.Span())
		}

		k := key{h.Query, r.ID}
		g, exists := groups[k]
		if !exists {
			g = &regionHits{region: r}
			groups[k] = g
			keys = append(keys, k)
		}
		g.hits = append(g.hits, h)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].query != keys[j].query {
			return keys[i].query < keys[j].query
		}
		return keys[i].regionID < keys[j].regionID
	})

	sorted := make([]regionHits, len(keys))
	for i, k := range keys {
		g := groups[k]
		sort.SliceStable(g.hits, func(a, b int) bool {
			return g.hits[a].Evalue < g.hits[b].Evalue
		})
		sorted[i] = *g
	}
	return sorted, nil
}

// validate aligns hits region by region and returns every outcome, sorted by
// query, region and evalue.
func (v *validator) validate(ctx context.Context, hits []Hit) ([]Outcome, error) {
	groups, err := v.group(hits)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, g := range groups {
		region := g.region
		attempt := func(ctx context.Context, h Hit) (Outcome, bool, error) {
			return v.attempt(ctx, h, region)
		}

		regionOutcomes, err := validateRegion(ctx, g.hits, v.serial, v.workers, attempt)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, regionOutcomes...)
	}

	sortOutcomes(outcomes)
	return outcomes, nil
}

// attempt aligns a single hit's intein against its query.
func (v *validator) attempt(ctx context.Context, h Hit, region Region) (Outcome, bool, error) {
	query := Record{ID: h.Query, Seq: v.queries[h.Query]}
	intein := Record{ID: h.Subject, Seq: v.inteins[h.Subject]}

	aln, err := v.aligner.Align(ctx, newAlignmentInput(intein, query, region, v.padding))
	if err != nil {
		return Outcome{}, false, fmt.Errorf("failed to align %s against %s: %w", h.Subject, h.Query, err)
	}

	o, err := checkAlignment(h, region.ID, query.Seq, aln, v.regions, v.strictness)
	if err != nil {
		var gap *errBoundaryGap
		if errors.As(err, &gap) {
			if v.verbose {
				stderr.Println(err)
			}
			return Outcome{}, false, nil
		}
		return Outcome{}, false, err
	}
	return o, true, nil
}

// validateRegion aligns a region's hits, best first, until one validates.
//
// The first serial hits are aligned one at a time and the rest in batches of
// workers. Every attempt in a batch finishes, but no batch is started after
// one with an AllGood outcome.
func validateRegion(ctx context.Context, hits []Hit, serial, workers int, attempt attemptFunc) ([]Outcome, error) {
	if serial > len(hits) {
		serial = len(hits)
	}

	var outcomes []Outcome
	for _, h := range hits[:serial] {
		o, ok, err := attempt(ctx, h)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		outcomes = append(outcomes, o)
		if o.AllGood {
			return outcomes, nil
		}
	}

	if workers < 1 {
		workers = 1
	}
	for start := serial; start < len(hits); start += workers {
		end := start + workers
		if end > len(hits) {
			end = len(hits)
		}

		batch, allGood, err := runBatch(ctx, hits[start:end], workers, attempt)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, batch...)
		if allGood {
			break
		}
	}
	return outcomes, nil
}

// runBatch aligns every hit concurrently and waits for all of them.
// Outcomes are in the order of the hits. allGood is whether any validated.
func runBatch(ctx context.Context, hits []Hit, workers int, attempt attemptFunc) (outcomes []Outcome, allGood bool, err error) {
	type result struct {
		o  Outcome
		ok bool
	}
	results := make([]result, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, h := range hits {
		i, h := i, h
		g.Go(func() error {
			o, ok, err := attempt(gctx, h)
			if err != nil {
				return err
			}
			results[i] = result{o, ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	for _, r := range results {
		if !r.ok {
			continue
		}
		outcomes = append(outcomes, r.o)
		allGood = allGood || r.o.AllGood
	}
	return outcomes, allGood, nil
}

// sortOutcomes stably sorts outcomes by query, region and evalue.
func sortOutcomes(outcomes []Outcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		if a.Query != b.Query {
			return a.Query < b.Query
		}
		if a.RegionID != b.RegionID {
			return a.RegionID < b.RegionID
		}
		return a.Evalue < b.Evalue
	})
}
