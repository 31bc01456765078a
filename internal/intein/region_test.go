package intein

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func hitAt(query string, start, end int) Hit {
	return Hit{Query: query, Subject: "s", QStart: start, QEnd: end}
}

func TestMergeRegions(t *testing.T) {
	tests := []struct {
		name string
		hits []Hit
		want []Span
	}{
		{
			"single hit",
			[]Hit{hitAt("q", 10, 100)},
			[]Span{{10, 100}},
		},
		{
			"overlapping hits merge",
			[]Hit{hitAt("q", 10, 100), hitAt("q", 50, 150)},
			[]Span{{10, 150}},
		},
		{
			"contained hit doesn't shrink the region",
			[]Hit{hitAt("q", 10, 100), hitAt("q", 20, 30)},
			[]Span{{10, 100}},
		},
		{
			"touching hits don't merge",
			[]Hit{hitAt("q", 10, 100), hitAt("q", 100, 150)},
			[]Span{{10, 100}, {100, 150}},
		},
		{
			"disjoint hits",
			[]Hit{hitAt("q", 300, 400), hitAt("q", 10, 100)},
			[]Span{{10, 100}, {300, 400}},
		},
		{
			"chain of overlaps",
			[]Hit{hitAt("q", 1, 10), hitAt("q", 5, 20), hitAt("q", 19, 40), hitAt("q", 50, 60)},
			[]Span{{1, 40}, {50, 60}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions, err := MergeRegions("q", tt.hits)
			if err != nil {
				t.Fatal(err)
			}

			var got []Span
			for i, r := range regions {
				if r.ID != i {
					t.Errorf("region %d has ID %d", i, r.ID)
				}
				if r.Query != "q" {
					t.Errorf("region %d has query %s", i, r.Query)
				}
				got = append(got, r.Span)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeRegions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeRegions_degenerate(t *testing.T) {
	for _, h := range []Hit{hitAt("q", 10, 10), hitAt("q", 20, 10)} {
		_, err := MergeRegions("q", []Hit{hitAt("q", 1, 5), h})
		if !errors.Is(err, ErrDegenerateHit) {
			t.Errorf("MergeRegions(%v) error = %v, want ErrDegenerateHit", h.Span(), err)
		}
	}
}

func TestMergeRegions_orderIndependent(t *testing.T) {
	hits := []Hit{
		hitAt("q", 1, 10), hitAt("q", 5, 20), hitAt("q", 20, 30),
		hitAt("q", 25, 26), hitAt("q", 100, 200), hitAt("q", 150, 160),
		hitAt("q", 199, 250), hitAt("q", 300, 301),
	}
	want, err := MergeRegions("q", hits)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Hit(nil), hits...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := MergeRegions("q", shuffled)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("MergeRegions(%v) = %v, want %v", shuffled, got, want)
		}
	}

	// regions are disjoint and ordered
	for i := 1; i < len(want); i++ {
		if want[i].Start < want[i-1].End {
			t.Errorf("region %v starts before the end of %v", want[i].Span, want[i-1].Span)
		}
	}
}

func TestBuildRegions(t *testing.T) {
	regions, err := BuildRegions([]Hit{
		hitAt("q1", 10, 100),
		hitAt("q2", 1, 50),
		hitAt("q1", 90, 120),
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(regions) != 2 {
		t.Fatalf("BuildRegions() has %d queries, want 2", len(regions))
	}
	if _, ok := regions["q3"]; ok {
		t.Error("query without hits has a key")
	}
	if got := regions["q1"]; len(got) != 1 || got[0].Span != (Span{10, 120}) {
		t.Errorf("q1 regions = %v", got)
	}

	if _, err := BuildRegions([]Hit{hitAt("q1", 10, 100), hitAt("q2", 5, 5)}); !errors.Is(err, ErrDegenerateHit) {
		t.Errorf("BuildRegions() error = %v, want ErrDegenerateHit", err)
	}
}

func TestRegionIndex_Containing(t *testing.T) {
	regions, err := BuildRegions([]Hit{
		hitAt("q1", 10, 100),
		hitAt("q1", 200, 300),
		hitAt("q2", 1, 50),
	})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := NewRegionIndex(regions)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		query  string
		span   Span
		wantID int
		wantOk bool
	}{
		{"inside first", "q1", Span{20, 90}, 0, true},
		{"exactly the second", "q1", Span{200, 300}, 1, true},
		{"overhangs", "q1", Span{90, 110}, 0, false},
		{"between regions", "q1", Span{150, 160}, 0, false},
		{"other query", "q2", Span{1, 50}, 0, true},
		{"unknown query", "q3", Span{1, 50}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.Containing(tt.query, tt.span)
			if ok != tt.wantOk {
				t.Fatalf("Containing() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("Containing() = region %d, want %d", got.ID, tt.wantID)
			}
		})
	}

	if rs, ok := idx.Regions("q1"); !ok || len(rs) != 2 {
		t.Errorf("Regions(q1) = %v, %v", rs, ok)
	}
}

func TestSpan(t *testing.T) {
	s := Span{10, 20}
	if s.Len() != 11 {
		t.Errorf("Len() = %d, want 11", s.Len())
	}
	if !s.Overlaps(Span{20, 30}) || s.Overlaps(Span{21, 30}) {
		t.Error("Overlaps() is wrong at the boundary")
	}
	if !s.Contains(Span{10, 20}) || s.Contains(Span{9, 20}) {
		t.Error("Contains() is wrong at the boundary")
	}
	if s.String() != "10-20" {
		t.Errorf("String() = %s", s)
	}
}
