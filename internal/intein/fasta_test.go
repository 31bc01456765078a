package intein

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_readFASTA(t *testing.T) {
	in := `>q1 a description here
MKVLAAGC
SSTP
>q2
mkvla
`
	records, err := readFASTA(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{ID: "q1", Desc: "a description here", Seq: "MKVLAAGCSSTP"}, records[0])
	assert.Equal(t, "q2", records[1].ID)
	assert.Equal(t, "mkvla", records[1].Seq)
}

func Test_writeFASTA(t *testing.T) {
	records := []Record{
		{ID: "q1", Desc: "inteins_removed___1_of_1", Seq: strings.Repeat("A", 70)},
		{ID: "q2", Seq: "MKV"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeFASTA(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, ">q1 inteins_removed___1_of_1", lines[0])
	assert.Equal(t, fastaWidth, len(lines[1]), "sequences are wrapped")

	read, err := readFASTA(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, read)
}

func TestReadUniqueFASTA(t *testing.T) {
	dir := t.TempDir()

	unique := filepath.Join(dir, "unique.faa")
	require.NoError(t, os.WriteFile(unique, []byte(">a\nMKV\n>b\nMKV\n"), 0644))
	records, err := ReadUniqueFASTA(unique)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	dupes := filepath.Join(dir, "dupes.faa")
	require.NoError(t, os.WriteFile(dupes, []byte(">a\nMKV\n>a second\nMKV\n"), 0644))
	_, err = ReadUniqueFASTA(dupes)
	assert.True(t, errors.Is(err, ErrDuplicateID), "error = %v", err)

	_, err = ReadFASTA(filepath.Join(dir, "missing.faa"))
	assert.Error(t, err)
}

func TestWriteFASTA(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.faa")
	records := []Record{{ID: "q1___region_0", Desc: "start___5 end___10 n_term___C c_term___HN", Seq: "CDEFHN"}}
	require.NoError(t, WriteFASTA(filename, records))

	read, err := ReadFASTA(filename)
	require.NoError(t, err)
	assert.Equal(t, records, read)
}
