package intein

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// simpleHeaderPrefix names queries for the external tools, which are picky
// about headers.
const simpleHeaderPrefix = "user_query___seq_"

// simpleHeaders renames records to "user_query___seq_N" (N from 1). The
// returned map goes from the new name to the original id.
func simpleHeaders(records []Record) ([]Record, map[string]string) {
	renamed := make([]Record, len(records))
	names := make(map[string]string, len(records))
	for i, r := range records {
		name := simpleHeaderPrefix + strconv.Itoa(i+1)
		renamed[i] = Record{ID: name, Seq: r.Seq}
		names[name] = r.ID
	}
	return renamed, names
}

// writeNameMap writes the simple header to original id map, in record order.
func writeNameMap(filename string, renamed []Record, names map[string]string) error {
	rows := make([][]string, len(renamed))
	for i, r := range renamed {
		rows[i] = []string{r.ID, names[r.ID]}
	}
	return writeTable(filename, []string{"new.name", "old.name"}, rows)
}

// restoreNames maps the query ids of hits back to their original ids.
func restoreNames(hits []Hit, names map[string]string) ([]Hit, error) {
	restored := make([]Hit, len(hits))
	for i, h := range hits {
		original, ok := names[h.Query]
		if !ok {
			return nil, fmt.Errorf("%w: search result for %s", ErrUnknownSequence, h.Query)
		}
		h.Query = original
		restored[i] = h
	}
	return restored, nil
}

// splitRecords deals records round-robin into at most n splits. Empty splits
// are left out.
func splitRecords(records []Record, n int) [][]Record {
	if n < 1 {
		n = 1
	}
	if n > len(records) {
		n = len(records)
	}

	splits := make([][]Record, n)
	for i, r := range records {
		splits[i%n] = append(splits[i%n], r)
	}
	return splits
}

// writeSplits writes each split to "<dir>/<base>.split_N.faa" and returns
// the file names.
func writeSplits(dir, base string, splits [][]Record) ([]string, error) {
	filenames := make([]string, len(splits))
	for i, split := range splits {
		filenames[i] = filepath.Join(dir, fmt.Sprintf("%s.split_%d.faa", base, i))
		if err := WriteFASTA(filenames[i], split); err != nil {
			return nil, err
		}
	}
	return filenames, nil
}
