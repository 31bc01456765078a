package intein

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrDuplicateID is returned when a FASTA file has two records with the same id.
var ErrDuplicateID = errors.New("duplicate sequence id")

// fastaWidth is the line width of written FASTA files.
const fastaWidth = 60

// readFASTA parses every record from a reader of FASTA.
func readFASTA(r io.Reader) (records []Record, err error) {
	template := linear.NewSeq("", nil, alphabet.Protein)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		records = append(records, Record{
			ID:   s.Name(),
			Desc: s.Description(),
			Seq:  s.Seq.String(),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFASTA reads the records of a FASTA file.
func ReadFASTA(filename string) ([]Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	records, err := readFASTA(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FASTA from %s: %w", filename, err)
	}
	return records, nil
}

// ReadUniqueFASTA reads a FASTA file, failing if two records share an id.
func ReadUniqueFASTA(filename string) ([]Record, error) {
	records, err := ReadFASTA(filename)
	if err != nil {
		return nil, err
	}

	if _, err := recordMap(records); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return records, nil
}

// recordMap maps record ids to their sequence.
func recordMap(records []Record) (map[string]string, error) {
	seqs := make(map[string]string, len(records))
	for _, r := range records {
		if _, exists := seqs[r.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seqs[r.ID] = r.Seq
	}
	return seqs, nil
}

// writeFASTA writes records to a writer.
func writeFASTA(w io.Writer, records []Record) error {
	fw := fasta.NewWriter(w, fastaWidth)
	for _, r := range records {
		s := linear.NewSeq(r.ID, alphabet.BytesToLetters([]byte(r.Seq)), alphabet.Protein)
		s.Desc = r.Desc
		if _, err := fw.Write(s); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.ID, err)
		}
	}
	return nil
}

// WriteFASTA writes records to a FASTA file.
func WriteFASTA(filename string, records []Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}

	if err := writeFASTA(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
