package intein

import "testing"

func TestResidueTiers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) Tier
		in   string
		want Tier
	}{
		{"n-term L1", NTermTier, "C", L1},
		{"n-term L1 lower case", NTermTier, "s", L1},
		{"n-term L2", NTermTier, "G", L2},
		{"n-term no", NTermTier, "W", No},
		{"n-term empty", NTermTier, "", No},
		{"c-term L1", CTermTier, "HN", L1},
		{"c-term L2", CTermTier, "KN", L2},
		{"c-term L2 last", CTermTier, "LH", L2},
		{"c-term no", CTermTier, "WW", No},
		{"extein S", ExteinTier, "S", L1},
		{"extein T", ExteinTier, "t", L1},
		{"extein C", ExteinTier, "C", L1},
		{"extein no", ExteinTier, "A", No},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("tier(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResidueSets_disjoint(t *testing.T) {
	pairs := [][2]residueSet{{nTermL1, nTermL2}, {cTermL1, cTermL2}}
	for _, p := range pairs {
		for r := range p[0] {
			if p[1].has(r) {
				t.Errorf("%s is in both tiers", r)
			}
		}
	}
	if len(cTermL2) != 17 {
		t.Errorf("c-term L2 has %d dipeptides, want 17", len(cTermL2))
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		tier       Tier
		strictness int
		want       bool
	}{
		{L1, 1, true},
		{L1, 2, true},
		{L2, 1, false},
		{L2, 2, true},
		{No, 1, false},
		{No, 2, false},
	}
	for _, tt := range tests {
		if got := Passes(tt.tier, tt.strictness); got != tt.want {
			t.Errorf("Passes(%v, %d) = %v, want %v", tt.tier, tt.strictness, got, tt.want)
		}
	}
}

func TestTier_String(t *testing.T) {
	if L1.String() != "L1" || L2.String() != "L2" || No.String() != "No" {
		t.Errorf("Tier.String() = %s %s %s", L1, L2, No)
	}
}
