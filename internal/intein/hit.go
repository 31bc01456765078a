package intein

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Hit is a single line of tabular homology search output (BLAST outfmt 6
// or mmseqs --format-mode 2). Coordinates are 1-based and inclusive.
type Hit struct {
	// Query is the id of the searched sequence
	Query string

	// Subject is the id of the matched intein or conserved domain model
	Subject string

	PctIdentity float64
	AlnLen      int
	Mismatches  int
	GapOpens    int

	// QStart and QEnd are the span of the hit on the query
	QStart int
	QEnd   int

	// SStart and SEnd are the span of the hit on the subject
	SStart int
	SEnd   int

	Evalue   float64
	Bitscore float64

	// QLen and SLen are zero if the search didn't report them
	QLen int
	SLen int
}

// Span returns the query coordinates of the hit.
func (h Hit) Span() Span {
	return Span{Start: h.QStart, End: h.QEnd}
}

// String returns the hit as a tab-delimited line.
func (h Hit) String() string {
	cols := []string{
		h.Query,
		h.Subject,
		strconv.FormatFloat(h.PctIdentity, 'g', -1, 64),
		strconv.Itoa(h.AlnLen),
		strconv.Itoa(h.Mismatches),
		strconv.Itoa(h.GapOpens),
		strconv.Itoa(h.QStart),
		strconv.Itoa(h.QEnd),
		strconv.Itoa(h.SStart),
		strconv.Itoa(h.SEnd),
		strconv.FormatFloat(h.Evalue, 'g', -1, 64),
		strconv.FormatFloat(h.Bitscore, 'g', -1, 64),
	}
	if h.QLen > 0 || h.SLen > 0 {
		cols = append(cols, strconv.Itoa(h.QLen), strconv.Itoa(h.SLen))
	}
	return strings.Join(cols, "\t")
}

// ParseHit reads a single tab-delimited search result line into a Hit.
// Numeric columns that don't parse are an error, never skipped.
func ParseHit(line string) (Hit, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(cols) < 12 {
		return Hit{}, fmt.Errorf("expected at least 12 columns, found %d: %q", len(cols), line)
	}

	h := Hit{Query: cols[0], Subject: cols[1]}

	var err error
	floats := []struct {
		name string
		col  int
		dst  *float64
	}{
		{"pct_identity", 2, &h.PctIdentity},
		{"evalue", 10, &h.Evalue},
		{"bitscore", 11, &h.Bitscore},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(cols[f.col], 64); err != nil {
			return Hit{}, fmt.Errorf("failed to parse %s from %q: %v", f.name, cols[f.col], err)
		}
	}

	ints := []struct {
		name string
		col  int
		dst  *int
	}{
		{"aln_len", 3, &h.AlnLen},
		{"mismatches", 4, &h.Mismatches},
		{"gapopens", 5, &h.GapOpens},
		{"qstart", 6, &h.QStart},
		{"qend", 7, &h.QEnd},
		{"sstart", 8, &h.SStart},
		{"send", 9, &h.SEnd},
		{"qlen", 12, &h.QLen},
		{"slen", 13, &h.SLen},
	}
	for _, i := range ints {
		if i.col >= len(cols) {
			continue // qlen and slen are optional
		}
		if *i.dst, err = strconv.Atoi(cols[i.col]); err != nil {
			return Hit{}, fmt.Errorf("failed to parse %s from %q: %v", i.name, cols[i.col], err)
		}
	}

	return h, nil
}

// ReadHits parses every hit in a search results file. Blank lines, comment
// lines and a "query" header line are skipped.
func ReadHits(filename string) (hits []Hit, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open search results: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "query\t") {
			continue // header
		}

		h, err := ParseHit(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filename, lineNum, err)
		}
		hits = append(hits, h)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return hits, nil
}

// writeHits writes hits as tab-delimited lines.
func writeHits(filename string, hits []Hit) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, h := range hits {
		fmt.Fprintln(w, h.String())
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
