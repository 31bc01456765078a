package intein

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrBadSpan is returned for a trimmable region outside its query.
	ErrBadSpan = errors.New("region is out of the query's bounds")

	// ErrAmbiguousIntein is returned when an intein doesn't occur exactly once in its query.
	ErrAmbiguousIntein = errors.New("intein does not occur exactly once in its query")

	// ErrOverlappingInteins is returned when two trimmable regions of a query overlap.
	ErrOverlappingInteins = errors.New("trimmable regions overlap")

	// ErrTrimInvariant is returned when the trimmed and excised lengths don't add up.
	ErrTrimInvariant = errors.New("trimmed length does not add up")
)

// Excised is an intein cut out of a query.
type Excised struct {
	RegionID int
	Span     Span
	Seq      string

	// NTerm is the first residue of the intein
	NTerm string

	// CTerm is the last two residues of the intein
	CTerm string
}

// TrimResult is a query with its inteins removed.
type TrimResult struct {
	Query    string
	Desc     string
	Original string
	Trimmed  string
	Inteins  []Excised

	// Considered is the number of refined regions on the query
	Considered int
}

// Label is the "inteins_removed___X_of_Y" description of a trimmed query.
func (t TrimResult) Label() string {
	return fmt.Sprintf("inteins_removed___%d_of_%d", len(t.Inteins), t.Considered)
}

// countOccurrences counts the (possibly overlapping) occurrences of sub in s.
func countOccurrences(s, sub string) int {
	if sub == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(sub) <= len(s); {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			break
		}
		count++
		i += j + 1
	}
	return count
}

// trimQuery excises the trimmable regions from a single query.
func trimQuery(query Record, regions []RefinedRegion) (TrimResult, error) {
	result := TrimResult{
		Query:      query.ID,
		Desc:       query.Desc,
		Original:   query.Seq,
		Considered: len(regions),
	}

	var spans []RefinedRegion
	for _, r := range regions {
		if r.Trimmable {
			spans = append(spans, r)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Span.Start < spans[j].Span.Start })

	seq := query.Seq
	for i, r := range spans {
		start, end := r.Span.Start-1, r.Span.End-1
		if start < 0 || start >= end || end >= len(seq) {
			return TrimResult{}, fmt.Errorf("%w: %s region %d at %s (length %d)", ErrBadSpan, query.ID, r.RegionID, r.Span, len(seq))
		}
		if i > 0 && spans[i-1].Span.Overlaps(r.Span) {
			return TrimResult{}, fmt.Errorf("%w: %s regions %d and %d", ErrOverlappingInteins, query.ID, spans[i-1].RegionID, r.RegionID)
		}

		intein := seq[start : end+1]
		if n := countOccurrences(seq, intein); n != 1 {
			return TrimResult{}, fmt.Errorf("%w: %s region %d occurs %d times", ErrAmbiguousIntein, query.ID, r.RegionID, n)
		}

		result.Inteins = append(result.Inteins, Excised{
			RegionID: r.RegionID,
			Span:     r.Span,
			Seq:      intein,
			NTerm:    intein[:1],
			CTerm:    intein[len(intein)-2:],
		})
	}

	var trimmed strings.Builder
	last := 0
	excised := 0
	for _, e := range result.Inteins {
		trimmed.WriteString(seq[last : e.Span.Start-1])
		last = e.Span.End
		excised += len(e.Seq)
	}
	trimmed.WriteString(seq[last:])
	result.Trimmed = trimmed.String()

	if len(result.Original) != len(result.Trimmed)+excised {
		return TrimResult{}, fmt.Errorf("%w: %s is %d long, trimmed to %d after removing %d", ErrTrimInvariant, query.ID, len(result.Original), len(result.Trimmed), excised)
	}
	return result, nil
}

// Trim removes trimmable regions from every query, in the order of the queries.
// Queries without trimmable regions are passed through unchanged. A region
// on a query that isn't among queries is an error.
func Trim(queries []Record, refined []RefinedRegion) ([]TrimResult, error) {
	byQuery := make(map[string][]RefinedRegion)
	for _, r := range refined {
		byQuery[r.Query] = append(byQuery[r.Query], r)
	}

	ids := make(map[string]bool, len(queries))
	for _, q := range queries {
		ids[q.ID] = true
	}
	for q := range byQuery {
		if !ids[q] {
			return nil, fmt.Errorf("%w: refined region on %s", ErrUnknownSequence, q)
		}
	}

	results := make([]TrimResult, 0, len(queries))
	for _, q := range queries {
		result, err := trimQuery(q, byQuery[q.ID])
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
