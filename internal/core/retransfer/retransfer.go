// Package retransfer redistributes the share of an heir who survived the
// decedent but died before the estate division, passing the unexercised
// right to that heir's own statutory heirs.
package retransfer

import (
	"fmt"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/shares"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/validation"
)

const BasisRetransfer = "Civil Code Art. 896 (succession to an heir's unexercised inheritance right)"

// ConflictError reports a caller-supplied retransfer target who renounced
// the deceased heir's own estate. Renouncing the second inheritance
// forecloses selectively accepting the pass-through right, so this input
// is contradictory and must be corrected by the caller.
type ConflictError struct {
	Person       *model.Person
	DeceasedHeir *model.Person
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s renounced the estate of %s and cannot receive the retransferred share", e.Person.Name, e.DeceasedHeir.Name)
}

// Resolve replaces every died-before-division heir whose estate was
// supplied with that heir's own statutory heirs, each receiving their
// fraction of the deceased heir's original share. Heirs without a supplied
// estate pass through unchanged, as does the whole list when nobody died
// before division.
func Resolve(heirs []model.Heir, estates map[string]*model.RetransferEstate) ([]model.Heir, []string, error) {
	var deceased []model.Heir
	for _, h := range heirs {
		if h.Person.DiedBeforeDivision && !h.Person.Alive {
			deceased = append(deceased, h)
		}
	}
	if len(deceased) == 0 {
		return heirs, nil, nil
	}

	var out []model.Heir
	for _, h := range heirs {
		if !(h.Person.DiedBeforeDivision && !h.Person.Alive) {
			out = append(out, h)
		}
	}

	var basis []string
	for _, original := range deceased {
		estate := estates[original.Person.ID]
		if estate == nil {
			out = append(out, original)
			continue
		}

		if err := checkRenunciationConflict(original.Person, estate); err != nil {
			return nil, nil, err
		}

		subHeirs, subBasis, err := splitEstate(original.Person, estate)
		if err != nil {
			return nil, nil, fmt.Errorf("retransfer from %s: %w", original.Person.Name, err)
		}
		if len(basis) == 0 {
			basis = append(basis, BasisRetransfer)
		}
		basis = append(basis, subBasis...)

		for _, sh := range subHeirs {
			out = append(out, model.Heir{
				Person:         sh.Person,
				Rank:           sh.Rank,
				Share:          sh.Share.Mul(original.Share),
				IsRetransfer:   true,
				RetransferFrom: original.Person,
				OriginalShare:  original.Share,
				BranchRoot:     sh.Person,
				BranchFraction: model.One(),
			})
		}
	}
	return out, basis, nil
}

// checkRenunciationConflict rejects any second-round renouncer who is
// still listed as a candidate for the deceased heir's estate.
func checkRenunciationConflict(deceased *model.Person, estate *model.RetransferEstate) error {
	renounced := make(map[string]*model.Person, len(estate.SecondRoundRenounced))
	for _, p := range estate.SecondRoundRenounced {
		renounced[p.ID] = p
	}
	if len(renounced) == 0 {
		return nil
	}
	candidates := make([]*model.Person, 0,
		len(estate.Spouses)+len(estate.Children)+len(estate.Parents)+len(estate.Grandparents)+len(estate.Siblings))
	candidates = append(candidates, estate.Spouses...)
	candidates = append(candidates, estate.Children...)
	candidates = append(candidates, estate.Parents...)
	candidates = append(candidates, estate.Grandparents...)
	candidates = append(candidates, estate.Siblings...)
	for _, c := range candidates {
		if p, ok := renounced[c.ID]; ok {
			return &ConflictError{Person: p, DeceasedHeir: deceased}
		}
	}
	return nil
}

// splitEstate runs the ordinary qualification and share rules with the
// deceased heir as sub-decedent, yielding each sub-heir's fraction of
// that heir's share.
func splitEstate(deceased *model.Person, estate *model.RetransferEstate) ([]model.Heir, []string, error) {
	sub := estate.SubFamily(deceased)
	heirs, basis, err := validation.New(sub).DetermineHeirs()
	if err != nil {
		return nil, nil, err
	}
	fractions, shareBasis, err := shares.Calculate(heirs, sub.SiblingBloodTypes)
	if err != nil {
		return nil, nil, err
	}
	for i := range heirs {
		heirs[i].Share = fractions[heirs[i].Person.ID]
	}
	return heirs, append(basis, shareBasis...), nil
}
