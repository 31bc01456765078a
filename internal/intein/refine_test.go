package intein

import (
	"testing"

	"github.com/inteinfinder/inteinfinder/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefine(t *testing.T) {
	regions := map[string][]Region{
		"q1": {
			{ID: 0, Query: "q1", Span: Span{10, 200}},
			{ID: 1, Query: "q1", Span: Span{300, 500}},
		},
		"q2": {
			{ID: 0, Query: "q2", Span: Span{1, 150}},
		},
	}
	outcomes := []Outcome{
		{Query: "q1", RegionID: 0, Target: "a", Evalue: 1e-50, Span: Span{20, 180}},
		{Query: "q1", RegionID: 0, Target: "b", Evalue: 1e-40, Span: Span{15, 190}, AllGood: true},
		{Query: "q1", RegionID: 0, Target: "c", Evalue: 1e-30, Span: Span{12, 195}, AllGood: true},
		{Query: "q1", RegionID: 1, Target: "d", Evalue: 1e-2, Span: Span{310, 490}, AllGood: true},
		{Query: "q2", RegionID: 0, Target: "e", Evalue: 1e-10, Span: Span{5, 140}},
	}
	conf := config.RegionConfig{RefineEvalue: 1e-3, MinLength: 114, MaxLength: 628}

	refined := Refine(regions, outcomes, conf)
	require.Len(t, refined, 3)

	// the first AllGood outcome wins
	assert.Equal(t, "q1", refined[0].Query)
	assert.True(t, refined[0].Trimmable)
	assert.Equal(t, Span{15, 190}, refined[0].Span)
	require.NotNil(t, refined[0].Refiner)
	assert.Equal(t, "b", refined[0].Refiner.Target)

	// a winner above the evalue cutoff doesn't refine
	assert.False(t, refined[1].Trimmable)
	assert.Nil(t, refined[1].Refiner)
	assert.Equal(t, Span{300, 500}, refined[1].Span)

	// no winner
	assert.Equal(t, "q2", refined[2].Query)
	assert.False(t, refined[2].Trimmable)
	assert.Equal(t, Span{1, 150}, refined[2].Span)
}

func TestRefine_gateLength(t *testing.T) {
	regions := map[string][]Region{
		"q": {
			{ID: 0, Query: "q", Span: Span{1, 50}},
			{ID: 1, Query: "q", Span: Span{100, 213}},
			{ID: 2, Query: "q", Span: Span{300, 1000}},
		},
	}

	tests := []struct {
		name    string
		gate    bool
		wantIDs []int
	}{
		{"no gate", false, []int{0, 1, 2}},
		{"gated", true, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.RegionConfig{RefineEvalue: 1e-3, GateLength: tt.gate, MinLength: 114, MaxLength: 628}

			var ids []int
			for _, r := range Refine(regions, nil, conf) {
				ids = append(ids, r.RegionID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
