package validation

import (
	"errors"
	"fmt"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
)

// ErrNoHeir is returned when no spouse and no blood heir at any rank
// qualifies. This is a legitimate outcome (the estate escheats), reported
// distinctly from malformed input.
var ErrNoHeir = errors.New("no qualifying heir at any rank")

// Statutory bases cited by the validator, in the order rules fire.
const (
	BasisSpouse              = "Civil Code Art. 890 (inheritance right of the spouse)"
	BasisChildren            = "Civil Code Art. 887(1) (inheritance right of children)"
	BasisChildSubstitution   = "Civil Code Art. 887(2) (substitution by the child's descendants)"
	BasisReSubstitution      = "Civil Code Art. 887(3) (substitution through further generations)"
	BasisAscendants          = "Civil Code Art. 889(1)(i) (inheritance right of lineal ascendants)"
	BasisSiblings            = "Civil Code Art. 889(1)(ii) (inheritance right of siblings)"
	BasisSiblingSubstitution = "Civil Code Art. 889(2) (substitution by a sibling's children)"
	BasisRenunciation        = "Civil Code Art. 939 (effect of renunciation)"
	BasisDisqualification    = "Civil Code Art. 891 (disqualification of heirs)"
	BasisDisinheritance      = "Civil Code Art. 892 (disinheritance of presumptive heirs)"
)

// survived reports whether a person outlived the decedent: alive now, or
// dead but flagged as having died after the decedent, before the estate
// division. Such a person qualifies in their own right and their share is
// redistributed by the retransfer package, never by substitution here.
func survived(p *model.Person) bool {
	return p.Alive || p.DiedBeforeDivision
}

// Validator determines the qualified heir set for one decedent. It reads
// the family arena and produces heirs without shares; share assignment is
// the shares package's job.
type Validator struct {
	family     *model.Family
	exclusions model.Exclusions
}

func New(family *model.Family) *Validator {
	return &Validator{
		family:     family,
		exclusions: model.NewExclusions(family.Renounced, family.Disqualified, family.Disinherited),
	}
}

// DetermineHeirs resolves the spouse and the highest non-empty blood rank,
// applying exclusion and substitution rules. The returned basis notes are
// in rule-application order.
func (v *Validator) DetermineHeirs() ([]model.Heir, []string, error) {
	var heirs []model.Heir
	var basis []string

	spouse, err := v.qualifySpouse()
	if err != nil {
		return nil, nil, err
	}
	if spouse != nil {
		heirs = append(heirs, *spouse)
		basis = append(basis, BasisSpouse)
	}

	basis = v.noteExclusions(basis)

	blood, bloodBasis := v.qualifyFirstRank()
	if len(blood) == 0 {
		blood, bloodBasis = v.qualifySecondRank()
	}
	if len(blood) == 0 {
		blood, bloodBasis = v.qualifyThirdRank()
	}

	heirs = append(heirs, blood...)
	basis = append(basis, bloodBasis...)

	if len(heirs) == 0 {
		return nil, nil, ErrNoHeir
	}
	return heirs, basis, nil
}

// qualifySpouse returns at most one spouse heir. More than one qualifying
// spouse is contradictory input, not a tie to break.
func (v *Validator) qualifySpouse() (*model.Heir, error) {
	var qualified []*model.Person
	for _, s := range v.family.Spouses {
		if survived(s) && !v.exclusions.IsExcluded(s.ID) {
			qualified = append(qualified, s)
		}
	}
	if len(qualified) > 1 {
		return nil, fmt.Errorf("more than one current spouse supplied (%s, %s)", qualified[0].Name, qualified[1].Name)
	}
	if len(qualified) == 0 {
		return nil, nil
	}
	s := qualified[0]
	return &model.Heir{
		Person:         s,
		Rank:           model.RankSpouse,
		BranchRoot:     s,
		BranchFraction: model.One(),
	}, nil
}

// qualifyFirstRank resolves children, substituting a predeceased,
// disqualified or disinherited child's slot with that child's own
// descendants to any depth. Renunciation cuts the whole branch.
func (v *Validator) qualifyFirstRank() ([]model.Heir, []string) {
	var heirs []model.Heir
	substituted := false
	resubstituted := false

	for _, child := range v.family.Children {
		if v.exclusions.IsRenounced(child.ID) {
			continue
		}
		if survived(child) && !v.exclusions.IsExcluded(child.ID) {
			heirs = append(heirs, model.Heir{
				Person:         child,
				Rank:           model.RankFirst,
				BranchRoot:     child,
				BranchFraction: model.One(),
			})
			continue
		}
		// Predeceased, disqualified or disinherited: descendants stand in.
		subs := v.substituteDescendants(child, child, model.One(), &resubstituted)
		if len(subs) > 0 {
			heirs = append(heirs, subs...)
			substituted = true
		}
	}

	if len(heirs) == 0 {
		return nil, nil
	}
	basis := []string{BasisChildren}
	if substituted {
		basis = append(basis, BasisChildSubstitution)
	}
	if resubstituted {
		basis = append(basis, BasisReSubstitution)
	}
	return heirs, basis
}

// substituteDescendants walks one branch of the descendant tree. Every
// qualifying descendant keeps the branch rooted at the original child and
// receives an equal subdivision of its parent's fraction of that branch.
func (v *Validator) substituteDescendants(branchRoot, of *model.Person, frac model.Fraction, resubstituted *bool) []model.Heir {
	kids := v.family.ChildrenOf[of.ID]

	// A slot is a descendant who either inherits directly or has a live
	// line below them. Renounced descendants hold no slot at all.
	var slots []*model.Person
	for _, k := range kids {
		if v.exclusions.IsRenounced(k.ID) {
			continue
		}
		if survived(k) && !v.exclusions.IsExcluded(k.ID) {
			slots = append(slots, k)
			continue
		}
		if len(v.collectLine(k)) > 0 {
			slots = append(slots, k)
		}
	}
	if len(slots) == 0 {
		return nil
	}

	per := frac.DivInt(len(slots))
	var heirs []model.Heir
	for _, k := range slots {
		if survived(k) && !v.exclusions.IsExcluded(k.ID) {
			heirs = append(heirs, model.Heir{
				Person:           k,
				Rank:             model.RankFirst,
				IsSubstitute:     true,
				SubstituteFor:    branchRoot,
				SubstitutionType: model.SubstitutionChild,
				BranchRoot:       branchRoot,
				BranchFraction:   per,
			})
			continue
		}
		// The slot holder is themselves gone; their own line stands in.
		*resubstituted = true
		heirs = append(heirs, v.substituteDescendants(branchRoot, k, per, resubstituted)...)
	}
	return heirs
}

// collectLine reports whether a dead/excluded descendant has any
// qualifying line beneath them, honoring the renunciation cut.
func (v *Validator) collectLine(p *model.Person) []*model.Person {
	var line []*model.Person
	for _, k := range v.family.ChildrenOf[p.ID] {
		if v.exclusions.IsRenounced(k.ID) {
			continue
		}
		if survived(k) && !v.exclusions.IsExcluded(k.ID) {
			line = append(line, k)
			continue
		}
		line = append(line, v.collectLine(k)...)
	}
	return line
}

// qualifySecondRank resolves lineal ascendants with nearest-degree-wins:
// grandparents are considered only when no parent qualifies.
func (v *Validator) qualifySecondRank() ([]model.Heir, []string) {
	heirs := v.qualifyAscendants(v.family.Parents)
	if len(heirs) == 0 {
		heirs = v.qualifyAscendants(v.family.Grandparents)
	}
	if len(heirs) == 0 {
		return nil, nil
	}
	return heirs, []string{BasisAscendants}
}

func (v *Validator) qualifyAscendants(candidates []*model.Person) []model.Heir {
	var heirs []model.Heir
	for _, p := range candidates {
		if survived(p) && !v.exclusions.IsExcluded(p.ID) {
			heirs = append(heirs, model.Heir{
				Person:         p,
				Rank:           model.RankSecond,
				BranchRoot:     p,
				BranchFraction: model.One(),
			})
		}
	}
	return heirs
}

// qualifyThirdRank resolves siblings. Substitution is allowed exactly one
// generation: children of a deceased sibling may stand in, grandchildren
// may not.
func (v *Validator) qualifyThirdRank() ([]model.Heir, []string) {
	var heirs []model.Heir
	substituted := false

	for _, sib := range v.family.Siblings {
		if v.exclusions.IsRenounced(sib.ID) {
			continue
		}
		if survived(sib) && !v.exclusions.IsExcluded(sib.ID) {
			heirs = append(heirs, model.Heir{
				Person:         sib,
				Rank:           model.RankThird,
				BranchRoot:     sib,
				BranchFraction: model.One(),
			})
			continue
		}

		var subs []*model.Person
		for _, k := range v.family.ChildrenOf[sib.ID] {
			if survived(k) && !v.exclusions.IsExcluded(k.ID) {
				subs = append(subs, k)
			}
		}
		if len(subs) == 0 {
			continue
		}
		per := model.One().DivInt(len(subs))
		for _, k := range subs {
			heirs = append(heirs, model.Heir{
				Person:           k,
				Rank:             model.RankThird,
				IsSubstitute:     true,
				SubstituteFor:    sib,
				SubstitutionType: model.SubstitutionSibling,
				BranchRoot:       sib,
				BranchFraction:   per,
			})
		}
		substituted = true
	}

	if len(heirs) == 0 {
		return nil, nil
	}
	basis := []string{BasisSiblings}
	if substituted {
		basis = append(basis, BasisSiblingSubstitution)
	}
	return heirs, basis
}

func (v *Validator) noteExclusions(basis []string) []string {
	if len(v.exclusions.Renounced) > 0 {
		basis = append(basis, BasisRenunciation)
	}
	if len(v.exclusions.Disqualified) > 0 {
		basis = append(basis, BasisDisqualification)
	}
	if len(v.exclusions.Disinherited) > 0 {
		basis = append(basis, BasisDisinheritance)
	}
	return basis
}
