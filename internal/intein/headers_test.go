package intein

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_simpleHeaders(t *testing.T) {
	records := []Record{
		{ID: "sp|P0A7Z4|weird", Desc: "long description", Seq: "MKV"},
		{ID: "q2", Seq: "MKL"},
	}
	renamed, names := simpleHeaders(records)

	assert.Equal(t, []Record{
		{ID: "user_query___seq_1", Seq: "MKV"},
		{ID: "user_query___seq_2", Seq: "MKL"},
	}, renamed)
	assert.Equal(t, "sp|P0A7Z4|weird", names["user_query___seq_1"])

	filename := filepath.Join(t.TempDir(), "name_map.tsv")
	require.NoError(t, writeNameMap(filename, renamed, names))
	contents, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "new.name\told.name\nuser_query___seq_1\tsp|P0A7Z4|weird\nuser_query___seq_2\tq2\n", string(contents))
}

func Test_restoreNames(t *testing.T) {
	names := map[string]string{"user_query___seq_1": "q1"}

	hits, err := restoreNames([]Hit{{Query: "user_query___seq_1", Subject: "int1"}}, names)
	require.NoError(t, err)
	assert.Equal(t, "q1", hits[0].Query)

	_, err = restoreNames([]Hit{{Query: "user_query___seq_2"}}, names)
	assert.True(t, errors.Is(err, ErrUnknownSequence))
}

func Test_splitRecords(t *testing.T) {
	records := []Record{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}

	tests := []struct {
		name string
		n    int
		want [][]string
	}{
		{"one split", 1, [][]string{{"1", "2", "3", "4", "5"}}},
		{"round robin", 2, [][]string{{"1", "3", "5"}, {"2", "4"}}},
		{"more splits than records", 8, [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}}},
		{"zero splits", 0, [][]string{{"1", "2", "3", "4", "5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]string
			for _, split := range splitRecords(records, tt.n) {
				var ids []string
				for _, r := range split {
					ids = append(ids, r.ID)
				}
				got = append(got, ids)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Empty(t, splitRecords(nil, 4))
}

func Test_writeSplits(t *testing.T) {
	dir := t.TempDir()
	files, err := writeSplits(dir, "queries", splitRecords([]Record{{ID: "a", Seq: "MKV"}, {ID: "b", Seq: "MKL"}}, 2))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "queries.split_1.faa"), files[1])

	records, err := ReadFASTA(files[1])
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "b", Seq: "MKL"}}, records)
}
