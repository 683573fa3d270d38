package model

// Rank is the priority class of an heir. The spouse is independent of
// rank and co-exists with whichever blood rank qualifies.
type Rank string

const (
	RankSpouse Rank = "spouse"
	RankFirst  Rank = "first"
	RankSecond Rank = "second"
	RankThird  Rank = "third"
)

// SubstitutionType distinguishes the two substitution lines: the child
// line (unlimited depth) and the sibling line (one generation only).
type SubstitutionType string

const (
	SubstitutionChild   SubstitutionType = "child"
	SubstitutionSibling SubstitutionType = "sibling"
)

// Heir is one qualified heir. BranchRoot and BranchFraction drive the
// share split: BranchRoot is the person holding the rank-level slot
// (the heir itself, or the predeceased heir a substitute stands in for)
// and BranchFraction is this heir's portion of that slot. Direct heirs
// own their whole slot (BranchFraction = 1).
type Heir struct {
	Person           *Person
	Rank             Rank
	Share            Fraction
	IsSubstitute     bool
	SubstituteFor    *Person
	SubstitutionType SubstitutionType
	BranchRoot       *Person
	BranchFraction   Fraction

	IsRetransfer   bool
	RetransferFrom *Person
	OriginalShare  Fraction
}

// Result is the outcome of one calculation: the qualified heirs with
// their shares, the legal bases in the order the rules were applied, and
// composition flags used only for display.
type Result struct {
	Decedent *Person
	Heirs    []Heir
	Basis    []string

	HasSpouse   bool
	HasChildren bool
	HasParents  bool
	HasSiblings bool
}

// TotalShare sums all heir shares. A valid result sums to exactly one.
func (r *Result) TotalShare() Fraction {
	total := Zero()
	for _, h := range r.Heirs {
		total = total.Add(h.Share)
	}
	return total
}
