// Package core is the heir-qualification and statutory-share engine.
// It is purely computational: no I/O, no logging, no shared state. Each
// Calculate call is a deterministic function of its input.
package core

import (
	"errors"
	"fmt"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/retransfer"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/shares"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/validation"
)

// ErrInvariant signals that computed shares did not sum to one. This is an
// algorithm bug, not a user-facing condition, and is never swallowed.
var ErrInvariant = errors.New("heir shares do not sum to one")

// Calculator composes validation, share calculation and retransfer
// resolution into one call.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate determines the heirs of family.Decedent and their exact
// statutory fractions. The result's basis notes are ordered by rule
// application: spouse, rank, substitution, share split, retransfer.
func (c *Calculator) Calculate(family *model.Family) (*model.Result, error) {
	if err := validateFamily(family); err != nil {
		return nil, err
	}

	heirs, basis, err := validation.New(family).DetermineHeirs()
	if err != nil {
		return nil, err
	}

	fractions, shareBasis, err := shares.Calculate(heirs, family.SiblingBloodTypes)
	if err != nil {
		return nil, err
	}
	basis = append(basis, shareBasis...)
	for i := range heirs {
		heirs[i].Share = fractions[heirs[i].Person.ID]
	}

	heirs, retransferBasis, err := retransfer.Resolve(heirs, family.RetransferEstates)
	if err != nil {
		return nil, err
	}
	basis = append(basis, retransferBasis...)

	result := &model.Result{
		Decedent: family.Decedent,
		Heirs:    heirs,
		Basis:    basis,
	}
	for _, h := range heirs {
		switch h.Rank {
		case model.RankSpouse:
			result.HasSpouse = true
		case model.RankFirst:
			result.HasChildren = true
		case model.RankSecond:
			result.HasParents = true
		case model.RankThird:
			result.HasSiblings = true
		}
	}

	if total := result.TotalShare(); !total.Equal(model.One()) {
		return nil, fmt.Errorf("%w (got %s)", ErrInvariant, total)
	}
	return result, nil
}

// validateFamily rejects malformed or contradictory input before any rule
// runs: a live or missing decedent, impossible dates, or the same identity
// supplied in two relationship roles.
func validateFamily(f *model.Family) error {
	if f == nil || f.Decedent == nil {
		return fmt.Errorf("no decedent supplied")
	}
	if err := f.Decedent.Validate(); err != nil {
		return err
	}
	if !f.Decedent.IsDecedent {
		return fmt.Errorf("%s is not marked as the decedent", f.Decedent.Name)
	}
	if f.Decedent.Alive {
		return fmt.Errorf("decedent %s is not marked dead", f.Decedent.Name)
	}

	roles := []struct {
		name    string
		persons []*model.Person
	}{
		{"spouse", f.Spouses},
		{"child", f.Children},
		{"parent", f.Parents},
		{"grandparent", f.Grandparents},
		{"sibling", f.Siblings},
	}
	seen := map[string]string{f.Decedent.ID: "decedent"}
	for _, role := range roles {
		for _, p := range role.persons {
			if err := p.Validate(); err != nil {
				return err
			}
			if prev, ok := seen[p.ID]; ok {
				return fmt.Errorf("%s supplied both as %s and as %s", p.Name, prev, role.name)
			}
			seen[p.ID] = role.name
		}
	}
	for _, descendants := range f.ChildrenOf {
		for _, p := range descendants {
			if err := p.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
