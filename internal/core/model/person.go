package model

import (
	"fmt"
	"time"
)

// Person is an immutable party record. The engine only reads these;
// relationship facts live on Family, not on the person itself.
type Person struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Alive              bool       `json:"is_alive"`
	IsDecedent         bool       `json:"is_decedent"`
	BirthDate          *time.Time `json:"birth_date,omitempty"`
	DeathDate          *time.Time `json:"death_date,omitempty"`
	DiedBeforeDivision bool       `json:"died_before_division,omitempty"`
}

// Validate checks the record-level invariants: a dead decedent, and a
// death date that does not precede the birth date.
func (p *Person) Validate() error {
	if p == nil {
		return fmt.Errorf("person is nil")
	}
	if p.ID == "" {
		return fmt.Errorf("person %q has no id", p.Name)
	}
	if p.IsDecedent && p.Alive {
		return fmt.Errorf("decedent %s is marked alive", p.Name)
	}
	if p.BirthDate != nil && p.DeathDate != nil && p.DeathDate.Before(*p.BirthDate) {
		return fmt.Errorf("person %s: death date precedes birth date", p.Name)
	}
	return nil
}

// BloodType tags a sibling's relation to the decedent.
type BloodType string

const (
	FullBlood BloodType = "full"
	HalfBlood BloodType = "half"
)

// Exclusions holds the three legal-absence sets, keyed by person ID and
// scoped to one decedent relationship. Any single membership is sufficient;
// the sets compose by union and never conflict.
type Exclusions struct {
	Renounced    map[string]struct{}
	Disqualified map[string]struct{}
	Disinherited map[string]struct{}
}

func NewExclusions(renounced, disqualified, disinherited []*Person) Exclusions {
	e := Exclusions{
		Renounced:    make(map[string]struct{}),
		Disqualified: make(map[string]struct{}),
		Disinherited: make(map[string]struct{}),
	}
	for _, p := range renounced {
		e.Renounced[p.ID] = struct{}{}
	}
	for _, p := range disqualified {
		e.Disqualified[p.ID] = struct{}{}
	}
	for _, p := range disinherited {
		e.Disinherited[p.ID] = struct{}{}
	}
	return e
}

func (e Exclusions) IsRenounced(id string) bool {
	_, ok := e.Renounced[id]
	return ok
}

// IsExcluded reports whether any exclusion reason applies.
func (e Exclusions) IsExcluded(id string) bool {
	if _, ok := e.Renounced[id]; ok {
		return true
	}
	if _, ok := e.Disqualified[id]; ok {
		return true
	}
	_, ok := e.Disinherited[id]
	return ok
}

// Family is the relation arena for one calculation: the decedent, the
// candidate relatives by role, the materialized children-of lookup used
// for substitution drill-down, and the exclusion facts. It is built once
// per request and never mutated by the engine.
type Family struct {
	Decedent     *Person
	Spouses      []*Person
	Children     []*Person
	Parents      []*Person
	Grandparents []*Person
	Siblings     []*Person

	// ChildrenOf maps a person ID to that person's own children, for
	// substitution (children line, any depth) and sibling substitution
	// (one generation).
	ChildrenOf map[string][]*Person

	Renounced    []*Person
	Disqualified []*Person
	Disinherited []*Person

	SiblingBloodTypes map[string]BloodType

	// RetransferEstates describes, per died-before-division heir ID, that
	// heir's own relatives for the second-round statutory split.
	RetransferEstates map[string]*RetransferEstate
}

// RetransferEstate carries the relatives of an heir who survived the
// decedent but died before the estate division, plus the caller-asserted
// set of people who renounced that heir's own estate.
type RetransferEstate struct {
	Spouses      []*Person
	Children     []*Person
	Parents      []*Person
	Grandparents []*Person
	Siblings     []*Person

	ChildrenOf map[string][]*Person

	Renounced    []*Person
	Disqualified []*Person
	Disinherited []*Person

	SiblingBloodTypes map[string]BloodType

	// SecondRoundRenounced lists people who renounced the deceased heir's
	// own estate. Renouncing the second inheritance forecloses accepting
	// only the pass-through right from the first decedent.
	SecondRoundRenounced []*Person
}

// SubFamily rebinds the estate as a Family with the deceased heir as
// sub-decedent, so the ordinary validator and share rules apply unchanged.
func (e *RetransferEstate) SubFamily(deceased *Person) *Family {
	sub := *deceased
	sub.IsDecedent = true
	sub.Alive = false
	return &Family{
		Decedent:          &sub,
		Spouses:           e.Spouses,
		Children:          e.Children,
		Parents:           e.Parents,
		Grandparents:      e.Grandparents,
		Siblings:          e.Siblings,
		ChildrenOf:        e.ChildrenOf,
		Renounced:         append(append([]*Person{}, e.Renounced...), e.SecondRoundRenounced...),
		Disqualified:      e.Disqualified,
		Disinherited:      e.Disinherited,
		SiblingBloodTypes: e.SiblingBloodTypes,
	}
}
