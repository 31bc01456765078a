package intein

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_insertInteins(t *testing.T) {
	queries := []Record{{ID: "q1", Seq: strings.Repeat("A", 60)}, {ID: "q2", Seq: "MKV"}}
	inteins := []Record{{ID: "int1", Seq: "CDEFGHN"}}

	seqs, expected, err := insertInteins(queries, inteins, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, "q1---int1---50~to~56", seqs[0].ID)
	assert.Equal(t, strings.Repeat("A", 49)+"CDEFGHN"+"C"+strings.Repeat("A", 11), seqs[0].Seq)
	assert.Equal(t, Span{50, 56}, expected[0].Span)
	assert.Equal(t, "int1", expected[0].Refiner.Target)

	// short queries get the intein at their end
	assert.Equal(t, "q2---int1---4~to~10", seqs[1].ID)
	assert.Equal(t, "MKVCDEFGHNC", seqs[1].Seq)

	_, _, err = insertInteins(queries, nil, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func Test_checkRefined(t *testing.T) {
	good := RefinedRegion{
		Query: "q1---int1---50~to~56", Span: Span{50, 56}, Trimmable: true,
		Refiner: &Outcome{Target: "int1"},
	}
	wrongTarget := RefinedRegion{
		Query: "q2---int1---50~to~56", Span: Span{50, 56}, Trimmable: true,
		Refiner: &Outcome{Target: "int2"},
	}
	notTrimmed := RefinedRegion{Query: "q3---int1---50~to~56", Span: Span{48, 60}}

	failed, err := checkRefined([]RefinedRegion{good, wrongTarget, notTrimmed})
	require.NoError(t, err)
	assert.Equal(t, []CheckResult{
		{Query: "q2---int1---50~to~56", GoodTarget: false, GoodStart: true, GoodEnd: true, GoodTrimmable: true},
		{Query: "q3---int1---50~to~56"},
	}, failed)

	_, err = checkRefined([]RefinedRegion{{Query: "plain"}})
	assert.Error(t, err)
}
