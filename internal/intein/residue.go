package intein

import "strings"

// Tier is how well a residue matches what's expected at a splice junction.
type Tier int

const (
	// No means the residue is in neither tier
	No Tier = iota

	// L2 is the permissive tier
	L2

	// L1 is the strict tier
	L1
)

func (t Tier) String() string {
	switch t {
	case L1:
		return "L1"
	case L2:
		return "L2"
	default:
		return "No"
	}
}

// residueSet is a set of upper-case residues or dipeptides.
type residueSet map[string]struct{}

func newResidueSet(residues ...string) residueSet {
	s := make(residueSet, len(residues))
	for _, r := range residues {
		s[r] = struct{}{}
	}
	return s
}

func (s residueSet) has(r string) bool {
	_, ok := s[r]
	return ok
}

var (
	nTermL1 = newResidueSet("C", "S", "A", "Q", "P", "T")
	nTermL2 = newResidueSet("V", "G", "L", "M", "N", "F")

	cTermL1 = newResidueSet("HN", "SN", "GN", "GQ", "LD", "FN")
	cTermL2 = newResidueSet(
		"KN", "DY", "SQ", "HQ", "NS", "AN", "SD", "TH", "RD",
		"PY", "YN", "VH", "KQ", "PP", "NT", "CN", "LH",
	)

	// the +1 extein residue has a single tier
	exteinStart = newResidueSet("S", "T", "C")
	noTier      = newResidueSet()
)

// ResidueTest places value in the first tier that has it.
func ResidueTest(value string, l1, l2 residueSet) Tier {
	value = strings.ToUpper(value)
	switch {
	case l1.has(value):
		return L1
	case l2.has(value):
		return L2
	default:
		return No
	}
}

// NTermTier classifies the first residue of an intein.
func NTermTier(residue string) Tier {
	return ResidueTest(residue, nTermL1, nTermL2)
}

// CTermTier classifies the last two residues of an intein.
func CTermTier(dipeptide string) Tier {
	return ResidueTest(dipeptide, cTermL1, cTermL2)
}

// ExteinTier classifies the first residue of the C-terminal extein.
// It is either L1 or No.
func ExteinTier(residue string) Tier {
	return ResidueTest(residue, exteinStart, noTier)
}

// Passes returns whether a tier is acceptable at the given strictness.
// L2 only passes when strictness is at least 2.
func Passes(t Tier, strictness int) bool {
	return t == L1 || (t == L2 && strictness >= 2)
}
