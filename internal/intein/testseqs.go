package intein

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

// insertIndex is the 0-based index in each query where test inteins go.
const insertIndex = 49

// testHeader matches "<seq>---<intein>---<start>~to~<end>".
var testHeader = regexp.MustCompile(`^(.*)---(.*)---([0-9]+)~to~([0-9]+)$`)

// insertInteins makes a test sequence from every query by inserting a random
// intein, followed by a C extein residue, at insertIndex. It returns the
// test sequences and the refined regions expected from screening them.
//
// Queries shorter than insertIndex have the intein appended.
func insertInteins(queries, inteins []Record, rng *rand.Rand) ([]Record, []RefinedRegion, error) {
	if len(inteins) == 0 {
		return nil, nil, fmt.Errorf("no inteins to insert")
	}

	seqs := make([]Record, len(queries))
	expected := make([]RefinedRegion, len(queries))
	for i, q := range queries {
		intein := inteins[rng.Intn(len(inteins))]

		at := insertIndex
		if at > len(q.Seq) {
			at = len(q.Seq)
		}
		span := Span{Start: at + 1, End: at + len(intein.Seq)}
		id := fmt.Sprintf("%s---%s---%d~to~%d", q.ID, intein.ID, span.Start, span.End)

		seqs[i] = Record{ID: id, Seq: q.Seq[:at] + intein.Seq + "C" + q.Seq[at:]}
		expected[i] = RefinedRegion{
			Query:     id,
			Span:      span,
			Trimmable: true,
			Refiner:   &Outcome{Query: id, Target: intein.ID, Span: span, AllGood: true},
		}
	}
	return seqs, expected, nil
}

// CheckResult is a refined region of a test sequence that was not what was expected.
type CheckResult struct {
	Query         string
	GoodTarget    bool
	GoodStart     bool
	GoodEnd       bool
	GoodTrimmable bool
}

// checkRefined compares refined regions of test sequences against the
// intein and span in their headers. Only mismatches are returned.
func checkRefined(refined []RefinedRegion) ([]CheckResult, error) {
	var failed []CheckResult
	for _, r := range refined {
		m := testHeader.FindStringSubmatch(r.Query)
		if m == nil {
			return nil, fmt.Errorf("%s is not a test sequence header", r.Query)
		}
		start, _ := strconv.Atoi(m[3])
		end, _ := strconv.Atoi(m[4])

		target := ""
		if r.Refiner != nil {
			target = r.Refiner.Target
		}

		c := CheckResult{
			Query:         r.Query,
			GoodTarget:    target == m[2],
			GoodStart:     r.Span.Start == start,
			GoodEnd:       r.Span.End == end,
			GoodTrimmable: r.Trimmable,
		}
		if !c.GoodTarget || !c.GoodStart || !c.GoodEnd || !c.GoodTrimmable {
			failed = append(failed, c)
		}
	}
	return failed, nil
}
