// Package shares assigns statutory fractions to a qualified heir set.
// It only divides; deciding who qualifies is the validation package's job.
package shares

import (
	"fmt"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
)

const (
	BasisSpouseAndChildren = "Civil Code Art. 900(i) (spouse 1/2, children 1/2)"
	BasisSpouseAndParents  = "Civil Code Art. 900(ii) (spouse 2/3, lineal ascendants 1/3)"
	BasisSpouseAndSiblings = "Civil Code Art. 900(iii) (spouse 3/4, siblings 1/4)"
	BasisEqualDivision     = "Civil Code Art. 900(iv) (equal division; half-blood siblings at half share)"
	BasisSubstituteShare   = "Civil Code Art. 901 (share of substitute heirs)"
)

// Composition records which roles are present among the qualified heirs.
// The statutory split depends only on this, never on headcount.
type Composition struct {
	HasSpouse   bool
	HasChildren bool
	HasParents  bool
	HasSiblings bool
}

// Describe derives the composition from a qualified heir set.
func Describe(heirs []model.Heir) Composition {
	var c Composition
	for _, h := range heirs {
		switch h.Rank {
		case model.RankSpouse:
			c.HasSpouse = true
		case model.RankFirst:
			c.HasChildren = true
		case model.RankSecond:
			c.HasParents = true
		case model.RankThird:
			c.HasSiblings = true
		}
	}
	return c
}

// Calculate returns the statutory fraction per heir ID. Blood types are
// keyed by the branch root, so a substitute inherits the blood standing of
// the sibling they stand in for.
func Calculate(heirs []model.Heir, bloodTypes map[string]model.BloodType) (map[string]model.Fraction, []string, error) {
	comp := Describe(heirs)
	spouseShare, bloodShare, err := statutorySplit(comp)
	if err != nil {
		return nil, nil, err
	}

	result := make(map[string]model.Fraction, len(heirs))
	var basis []string

	switch {
	case comp.HasSpouse && comp.HasChildren:
		basis = append(basis, BasisSpouseAndChildren)
	case comp.HasSpouse && comp.HasParents:
		basis = append(basis, BasisSpouseAndParents)
	case comp.HasSpouse && comp.HasSiblings:
		basis = append(basis, BasisSpouseAndSiblings)
	}

	for _, h := range heirs {
		if h.Rank == model.RankSpouse {
			result[h.Person.ID] = spouseShare
		}
	}

	var blood []model.Heir
	for _, h := range heirs {
		if h.Rank != model.RankSpouse {
			blood = append(blood, h)
		}
	}
	if len(blood) == 0 {
		return result, basis, nil
	}

	substituted := false
	for _, h := range blood {
		if h.IsSubstitute {
			substituted = true
		}
	}

	if blood[0].Rank == model.RankThird {
		divideSiblings(blood, bloodShare, bloodTypes, result)
	} else {
		divideBranches(blood, bloodShare, result)
	}

	if len(blood) > 1 || substituted {
		basis = append(basis, BasisEqualDivision)
	}
	if substituted {
		basis = append(basis, BasisSubstituteShare)
	}
	return result, basis, nil
}

// statutorySplit returns the spouse/blood aggregate split for the
// composition actually present.
func statutorySplit(c Composition) (spouse, blood model.Fraction, err error) {
	switch {
	case c.HasSpouse && c.HasChildren:
		return model.NewFraction(1, 2), model.NewFraction(1, 2), nil
	case c.HasSpouse && c.HasParents:
		return model.NewFraction(2, 3), model.NewFraction(1, 3), nil
	case c.HasSpouse && c.HasSiblings:
		return model.NewFraction(3, 4), model.NewFraction(1, 4), nil
	case c.HasSpouse:
		return model.One(), model.Zero(), nil
	case c.HasChildren || c.HasParents || c.HasSiblings:
		return model.Zero(), model.One(), nil
	}
	return model.Zero(), model.Zero(), fmt.Errorf("empty heir composition")
}

// divideBranches splits the rank aggregate equally across branch slots; a
// substituted branch's single slot is then subdivided by each substitute's
// branch fraction, computed by the validator during the tree walk.
func divideBranches(heirs []model.Heir, aggregate model.Fraction, result map[string]model.Fraction) {
	branches := countBranches(heirs)
	per := aggregate.DivInt(branches)
	for _, h := range heirs {
		result[h.Person.ID] = per.Mul(h.BranchFraction)
	}
}

// divideSiblings weights full-blood branches at 2 and half-blood at 1,
// then subdivides substituted branches the same way as divideBranches.
func divideSiblings(heirs []model.Heir, aggregate model.Fraction, bloodTypes map[string]model.BloodType, result map[string]model.Fraction) {
	weights := make(map[string]int64)
	order := branchOrder(heirs)
	var total int64
	for _, rootID := range order {
		w := int64(2)
		if bloodTypes[rootID] == model.HalfBlood {
			w = 1
		}
		weights[rootID] = w
		total += w
	}
	for _, h := range heirs {
		branchShare := aggregate.Mul(model.NewFraction(weights[h.BranchRoot.ID], total))
		result[h.Person.ID] = branchShare.Mul(h.BranchFraction)
	}
}

func countBranches(heirs []model.Heir) int {
	return len(branchOrder(heirs))
}

func branchOrder(heirs []model.Heir) []string {
	seen := make(map[string]struct{})
	var order []string
	for _, h := range heirs {
		if _, ok := seen[h.BranchRoot.ID]; ok {
			continue
		}
		seen[h.BranchRoot.ID] = struct{}{}
		order = append(order, h.BranchRoot.ID)
	}
	return order
}
