package intein

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
)

// Aligner makes a multiple sequence alignment of the three records in an input.
type Aligner interface {
	Align(ctx context.Context, in AlignmentInput) (Alignment, error)
}

// mafft aligns with a local mafft executable.
type mafft struct {
	// path to the mafft executable
	path string

	// directory to write the input and output files to (os.TempDir if empty)
	dir string

	// don't remove the input and output files
	keep bool
}

// NewMafft returns an Aligner that runs mafft.
func NewMafft(path, dir string, keep bool) Aligner {
	return &mafft{path: path, dir: dir, keep: keep}
}

// unsafeFileChars are replaced in sequence ids used in file names.
var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// input writes the alignment input to a unique file and returns its name.
func (m *mafft) input(in AlignmentInput) (string, error) {
	pattern := fmt.Sprintf(
		"%s___%s-*.faa",
		unsafeFileChars.ReplaceAllString(in.Query.ID, "_"),
		unsafeFileChars.ReplaceAllString(in.Intein.ID, "_"),
	)
	f, err := os.CreateTemp(m.dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create alignment input: %w", err)
	}

	for _, r := range []Record{in.Intein, in.Clipped, in.Query} {
		if _, err := fmt.Fprintf(f, ">%s\n%s\n", r.ID, r.Seq); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write alignment input %s: %w", f.Name(), err)
		}
	}
	return f.Name(), f.Close()
}

// Align runs mafft on the input and reads its three gapped rows.
func (m *mafft) Align(ctx context.Context, in AlignmentInput) (Alignment, error) {
	input, err := m.input(in)
	if err != nil {
		return Alignment{}, err
	}
	output := input + ".aln"
	if !m.keep {
		defer os.Remove(input)
		defer os.Remove(output)
	}

	out, err := os.Create(output)
	if err != nil {
		return Alignment{}, fmt.Errorf("failed to create alignment output: %w", err)
	}
	defer out.Close()

	var stderrBuf bytes.Buffer
	mafftCmd := exec.CommandContext(
		ctx,
		m.path,
		"--quiet",
		"--auto",
		"--thread", "1",
		input,
	)
	mafftCmd.Stdout = out
	mafftCmd.Stderr = &stderrBuf

	if err := mafftCmd.Run(); err != nil {
		return Alignment{}, fmt.Errorf("failed to execute mafft on %s: %s: %w", input, stderrBuf.String(), err)
	}
	if err := out.Close(); err != nil {
		return Alignment{}, err
	}

	records, err := ReadFASTA(output)
	if err != nil {
		return Alignment{}, err
	}
	return alignmentFromRecords(in, records)
}

// alignmentFromRecords picks the rows of an alignment out of parsed records
// by their ids. The aligner may reorder the records.
func alignmentFromRecords(in AlignmentInput, records []Record) (Alignment, error) {
	if len(records) != 3 {
		return Alignment{}, fmt.Errorf("expected 3 aligned sequences for (%s, %s), found %d", in.Query.ID, in.Intein.ID, len(records))
	}

	rows := make(map[string]string, 3)
	for _, r := range records {
		rows[r.ID] = r.Seq
	}

	aln := Alignment{
		Intein:  rows[in.Intein.ID],
		Clipped: rows[in.Clipped.ID],
		Query:   rows[in.Query.ID],
	}
	if aln.Intein == "" || aln.Query == "" {
		// fall back to input order
		aln = Alignment{Intein: records[0].Seq, Clipped: records[1].Seq, Query: records[2].Seq}
	}
	if len(aln.Intein) != len(aln.Query) {
		return Alignment{}, fmt.Errorf("aligned rows of (%s, %s) differ in length: %d vs %d", in.Query.ID, in.Intein.ID, len(aln.Intein), len(aln.Query))
	}
	return aln, nil
}
