package intein

import (
	"fmt"
	"strings"
)

// Record is a single named sequence.
type Record struct {
	// ID is the first whitespace delimited word of the FASTA header
	ID string

	// Desc is the rest of the FASTA header
	Desc string

	// Seq is the residues of the sequence
	Seq string
}

// AlignmentInput is the three sequences aligned for every (query, intein)
// pair, in this order: the reference intein, the query clipped around the
// region, and the full query.
type AlignmentInput struct {
	Intein  Record
	Clipped Record
	Query   Record
}

// Alignment is the gapped version of an AlignmentInput, rows in the same order.
type Alignment struct {
	Intein  string
	Clipped string
	Query   string
}

// Outcome is the result of checking one (query, intein) alignment against
// the residues expected at an intein's splice junctions.
type Outcome struct {
	Query  string
	Target string
	Evalue float64

	// RegionID is the putative region the homology hit was in
	RegionID int

	// Span is where the intein aligned on the query (1-based)
	Span Span

	// Region is L1 if Span is within a putative region of the query
	Region Tier
	NTerm  Tier
	CTerm  Tier
	Extein Tier

	StartResidue  string
	EndDipeptide  string
	ExteinResidue string

	// AllGood is true when every criteria passes
	AllGood bool
}

func isGap(c byte) bool {
	return c == '-' || c == '.'
}

// clipRegion returns the query's residues in the span, padded on either side
// and clamped to the sequence.
func clipRegion(seq string, span Span, padding int) string {
	start := span.Start - 1 - padding
	if start < 0 {
		start = 0
	}
	end := span.End - 1 + padding
	if end > len(seq)-1 {
		end = len(seq) - 1
	}
	if start > end {
		return ""
	}
	return seq[start : end+1]
}

// newAlignmentInput makes the three records to align for a hit.
func newAlignmentInput(intein, query Record, region Region, padding int) AlignmentInput {
	return AlignmentInput{
		Intein: Record{ID: intein.ID, Seq: intein.Seq},
		Clipped: Record{
			ID:  "clipped___" + query.ID,
			Seq: clipRegion(query.Seq, region.Span, padding),
		},
		Query: Record{ID: query.ID, Seq: query.Seq},
	}
}

// nonGapBounds returns the first and last columns of a row that aren't gaps.
func nonGapBounds(row string) (first, last int, ok bool) {
	first, last = -1, -1
	for i := 0; i < len(row); i++ {
		if !isGap(row[i]) {
			first = i
			break
		}
	}
	for i := len(row) - 1; i >= 0; i-- {
		if !isGap(row[i]) {
			last = i
			break
		}
	}
	return first, last, first >= 0
}

// gapMaps maps 1-based ungapped positions of a row to their 1-based columns
// in the alignment, and the inverse. Columns that are gaps in the row aren't
// in columnToPos.
func gapMaps(row string) (posToColumn, columnToPos map[int]int) {
	posToColumn = make(map[int]int, len(row))
	columnToPos = make(map[int]int, len(row))

	pos := 0
	for i := 0; i < len(row); i++ {
		if isGap(row[i]) {
			continue
		}
		pos++
		posToColumn[pos] = i + 1
		columnToPos[i+1] = pos
	}
	return posToColumn, columnToPos
}

// residueAt returns the upper-case residues of seq between the 1-based
// positions start and end (inclusive). Empty if out of range.
func residueAt(seq string, start, end int) string {
	if start < 1 || end > len(seq) || start > end {
		return ""
	}
	return strings.ToUpper(seq[start-1 : end])
}

// errBoundaryGap is for alignments where the query has a gap at the intein's
// first or last column. The attempt is skipped but the run continues.
type errBoundaryGap struct {
	query, target, which string
}

func (e *errBoundaryGap) Error() string {
	return fmt.Sprintf("skipping (%s, %s): couldn't determine the region %s", e.query, e.target, e.which)
}

// checkAlignment maps the intein's aligned span back onto the query and
// classifies the residues at its ends.
//
// query is the ungapped query sequence. regions is used for the region
// criteria (the span must be within one of the query's putative regions).
func checkAlignment(
	hit Hit,
	regionID int,
	query string,
	aln Alignment,
	regions *RegionIndex,
	strictness int,
) (Outcome, error) {
	first, last, ok := nonGapBounds(aln.Intein)
	if !ok {
		return Outcome{}, &errBoundaryGap{hit.Query, hit.Subject, "start"}
	}

	_, columnToPos := gapMaps(aln.Query)
	start, ok := columnToPos[first+1]
	if !ok {
		return Outcome{}, &errBoundaryGap{hit.Query, hit.Subject, "start"}
	}
	end, ok := columnToPos[last+1]
	if !ok {
		return Outcome{}, &errBoundaryGap{hit.Query, hit.Subject, "end"}
	}

	o := Outcome{
		Query:         hit.Query,
		Target:        hit.Subject,
		Evalue:        hit.Evalue,
		RegionID:      regionID,
		Span:          Span{Start: start, End: end},
		StartResidue:  residueAt(query, start, start),
		EndDipeptide:  residueAt(query, end-1, end),
		ExteinResidue: residueAt(query, end+1, end+1),
	}

	if _, contained := regions.Containing(hit.Query, o.Span); contained {
		o.Region = L1
	}
	o.NTerm = NTermTier(o.StartResidue)
	o.CTerm = CTermTier(o.EndDipeptide)
	o.Extein = ExteinTier(o.ExteinResidue)

	o.AllGood = o.Region != No &&
		Passes(o.NTerm, strictness) &&
		Passes(o.CTerm, strictness) &&
		o.Extein != No

	return o, nil
}
