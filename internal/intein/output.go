package intein

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// yesNo renders a boolean table column.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatEvalue(e float64) string {
	return strconv.FormatFloat(e, 'g', -1, 64)
}

// writeTable writes a tab-separated table with a header row.
func writeTable(filename string, header []string, rows [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}

// sortedQueries returns the keys of a region map in order.
func sortedQueries(regions map[string][]Region) []string {
	queries := make([]string, 0, len(regions))
	for q := range regions {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	return queries
}

func regionRows(regions map[string][]Region) [][]string {
	var rows [][]string
	for _, q := range sortedQueries(regions) {
		for _, r := range regions[q] {
			rows = append(rows, []string{
				q,
				strconv.Itoa(r.ID),
				strconv.Itoa(r.Start),
				strconv.Itoa(r.End),
				strconv.Itoa(r.Len()),
			})
		}
	}
	return rows
}

// WriteRegions writes the putative regions of every query.
func WriteRegions(filename string, regions map[string][]Region) error {
	header := []string{"seq", "region.id", "start", "end", "len"}
	return writeTable(filename, header, regionRows(regions))
}

func writeCriteriaFull(filename string, outcomes []Outcome) error {
	header := []string{
		"query", "target", "evalue", "which.region", "aln.region",
		"region.good", "has.start", "has.end", "has.extein.start",
		"intein.n.term", "intein.c.term", "c.extein",
	}

	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = []string{
			o.Query,
			o.Target,
			formatEvalue(o.Evalue),
			strconv.Itoa(o.RegionID),
			o.Span.String(),
			o.Region.String(),
			o.NTerm.String(),
			o.CTerm.String(),
			o.Extein.String(),
			o.StartResidue,
			o.EndDipeptide,
			o.ExteinResidue,
		}
	}
	return writeTable(filename, header, rows)
}

// condensed is the best of each criteria across the outcomes of a region.
type condensed struct {
	// winner is the outcome that refines the region, nil if none does
	winner *Outcome

	// validated is whether any single target passed every criteria
	validated bool

	region, nTerm, cTerm, extein Tier
}

// multiTarget is whether every criteria passed, but with different targets.
func (c condensed) multiTarget(strictness int) bool {
	return !c.validated &&
		c.region != No &&
		Passes(c.nTerm, strictness) &&
		Passes(c.cTerm, strictness) &&
		c.extein != No
}

func maxTier(a, b Tier) Tier {
	if b > a {
		return b
	}
	return a
}

// condense summarizes the outcomes of every region. A region's winner must
// be within refineEvalue, as in Refine.
func condense(outcomes []Outcome, refineEvalue float64) map[regionKey]condensed {
	won := winners(outcomes)

	summary := make(map[regionKey]condensed)
	for _, o := range outcomes {
		k := regionKey{o.Query, o.RegionID}
		c := summary[k]
		if w, ok := won[k]; ok {
			c.validated = true
			if w.Evalue <= refineEvalue {
				c.winner = w
			}
		}
		c.region = maxTier(c.region, o.Region)
		c.nTerm = maxTier(c.nTerm, o.NTerm)
		c.cTerm = maxTier(c.cTerm, o.CTerm)
		c.extein = maxTier(c.extein, o.Extein)
		summary[k] = c
	}
	return summary
}

func writeCriteriaCondensed(filename string, regions map[string][]Region, outcomes []Outcome, strictness int, refineEvalue float64) error {
	header := []string{
		"seq", "region.id", "single.target", "single.target.evalue",
		"single.target.region", "multi.target", "region", "start", "end", "extein",
	}

	summary := condense(outcomes, refineEvalue)
	var rows [][]string
	for _, q := range sortedQueries(regions) {
		for _, r := range regions[q] {
			c := summary[regionKey{q, r.ID}]

			target, evalue, span := "No", "No", "No"
			if c.winner != nil {
				target = c.winner.Target
				evalue = formatEvalue(c.winner.Evalue)
				span = c.winner.Span.String()
			}

			rows = append(rows, []string{
				q,
				strconv.Itoa(r.ID),
				target,
				evalue,
				span,
				yesNo(c.multiTarget(strictness)),
				c.region.String(),
				c.nTerm.String(),
				c.cTerm.String(),
				c.extein.String(),
			})
		}
	}
	return writeTable(filename, header, rows)
}

// WriteRefined writes refined regions. The full table also names the target
// and evalue of the alignment that refined each region.
func WriteRefined(filename string, refined []RefinedRegion, full bool) error {
	header := []string{"seq", "region.id", "start", "end", "len", "trimmable"}
	if full {
		header = append(header, "refining.target", "refining.evalue")
	}

	rows := make([][]string, len(refined))
	for i, r := range refined {
		row := []string{
			r.Query,
			strconv.Itoa(r.RegionID),
			strconv.Itoa(r.Span.Start),
			strconv.Itoa(r.Span.End),
			strconv.Itoa(r.Span.Len()),
			yesNo(r.Trimmable),
		}
		if full {
			target, evalue := "No", "No"
			if r.Refiner != nil {
				target, evalue = r.Refiner.Target, formatEvalue(r.Refiner.Evalue)
			}
			row = append(row, target, evalue)
		}
		rows[i] = row
	}
	return writeTable(filename, header, rows)
}

// ReadRefined reads a refined regions table (full or condensed).
func ReadRefined(filename string) ([]RefinedRegion, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open refined regions: %w", err)
	}
	defer f.Close()

	var refined []RefinedRegion
	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "seq\t") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < 6 {
			return nil, fmt.Errorf("%s line %d: expected at least 6 columns, found %d", filename, lineNum, len(cols))
		}

		r := RefinedRegion{Query: cols[0], Trimmable: cols[5] == "Yes"}
		ints := []*int{&r.RegionID, &r.Span.Start, &r.Span.End}
		for i, dst := range ints {
			if *dst, err = strconv.Atoi(cols[i+1]); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", filename, lineNum, err)
			}
		}

		if len(cols) >= 8 && cols[6] != "No" {
			evalue, err := strconv.ParseFloat(cols[7], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", filename, lineNum, err)
			}
			r.Refiner = &Outcome{Query: r.Query, Target: cols[6], Evalue: evalue, RegionID: r.RegionID, Span: r.Span, AllGood: true}
		}
		refined = append(refined, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return refined, nil
}

// hitSummary is the number of hits and best evalue of one search on a query.
type hitSummary struct {
	count int
	best  float64
}

func (s hitSummary) add(h Hit) hitSummary {
	if s.count == 0 || h.Evalue < s.best {
		s.best = h.Evalue
	}
	s.count++
	return s
}

func (s hitSummary) columns() []string {
	if s.count == 0 {
		return []string{"0", "No"}
	}
	return []string{strconv.Itoa(s.count), formatEvalue(s.best)}
}

// writeInteinInfo summarizes the hits of both searches on every query with any.
func writeInteinInfo(filename string, inteinHits, cddHits []Hit) error {
	header := []string{"seq", "intein.hits", "intein.best.evalue", "conserved.domain.hits", "conserved.domain.best.evalue"}

	intein := make(map[string]hitSummary)
	cdd := make(map[string]hitSummary)
	queries := make(map[string]bool)
	for _, h := range inteinHits {
		intein[h.Query] = intein[h.Query].add(h)
		queries[h.Query] = true
	}
	for _, h := range cddHits {
		cdd[h.Query] = cdd[h.Query].add(h)
		queries[h.Query] = true
	}

	names := make([]string, 0, len(queries))
	for q := range queries {
		names = append(names, q)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	for i, q := range names {
		row := append([]string{q}, intein[q].columns()...)
		rows[i] = append(row, cdd[q].columns()...)
	}
	return writeTable(filename, header, rows)
}

// trimmedRecords are the trimmed queries, labeled by how many inteins were removed.
func trimmedRecords(results []TrimResult) []Record {
	records := make([]Record, len(results))
	for i, t := range results {
		records[i] = Record{ID: t.Query, Desc: t.Label(), Seq: t.Trimmed}
	}
	return records
}

// inteinRecords are the excised inteins of every query.
func inteinRecords(results []TrimResult) []Record {
	var records []Record
	for _, t := range results {
		for _, e := range t.Inteins {
			records = append(records, Record{
				ID:   fmt.Sprintf("%s___region_%d", t.Query, e.RegionID),
				Desc: fmt.Sprintf("start___%d end___%d n_term___%s c_term___%s", e.Span.Start, e.Span.End, e.NTerm, e.CTerm),
				Seq:  e.Seq,
			})
		}
	}
	return records
}
