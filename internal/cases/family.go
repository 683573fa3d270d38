package cases

import (
	"context"
	"fmt"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
)

// familyGraph holds the loaded case as adjacency maps for materialization.
type familyGraph struct {
	persons map[string]*model.Person

	parentsOf  map[string][]string // child -> parents (CHILD_OF direction)
	childrenOf map[string][]string
	spousesOf  map[string][]string // only current marriages
	siblingsOf map[string][]string
	bloodTypes map[string]map[string]model.BloodType // decedent -> sibling -> blood

	renouncedOf    map[string][]string // decedent -> renouncers
	disqualifiedOf map[string][]string
	disinheritedOf map[string][]string
}

// BuildFamily materializes the engine input for a case: it loads the
// stored persons and edges once, finds the decedent, and derives the
// candidate lists, the children-of arena, the exclusion facts and the
// retransfer estates of every heir who died before division.
func (s *Service) BuildFamily(ctx context.Context, caseID string) (*model.Family, error) {
	persons, err := s.GetPersons(ctx, caseID)
	if err != nil {
		return nil, err
	}
	rels, err := s.GetRelationships(ctx, caseID)
	if err != nil {
		return nil, err
	}

	g := newFamilyGraph(persons, rels)

	var decedent *model.Person
	for _, p := range persons {
		if p.IsDecedent {
			if decedent != nil {
				return nil, fmt.Errorf("case %s has more than one decedent", caseID)
			}
			decedent = p
		}
	}
	if decedent == nil {
		return nil, fmt.Errorf("case %s has no decedent", caseID)
	}

	family := g.familyAround(decedent)

	// Anyone in the decedent's heir circle who died before division gets
	// a retransfer estate derived from the same graph. Second-round
	// renouncers stay out of the candidate lists: they are legally absent
	// from that sub-succession, and the engine treats target lists as
	// caller-asserted.
	estates := make(map[string]*model.RetransferEstate)
	for _, p := range heirCircle(family) {
		if !p.DiedBeforeDivision || p.Alive {
			continue
		}
		estates[p.ID] = g.estateAround(p)
	}
	if len(estates) > 0 {
		family.RetransferEstates = estates
	}

	return family, nil
}

func newFamilyGraph(persons []*model.Person, rels []Relationship) *familyGraph {
	g := &familyGraph{
		persons:        make(map[string]*model.Person, len(persons)),
		parentsOf:      make(map[string][]string),
		childrenOf:     make(map[string][]string),
		spousesOf:      make(map[string][]string),
		siblingsOf:     make(map[string][]string),
		bloodTypes:     make(map[string]map[string]model.BloodType),
		renouncedOf:    make(map[string][]string),
		disqualifiedOf: make(map[string][]string),
		disinheritedOf: make(map[string][]string),
	}
	for _, p := range persons {
		g.persons[p.ID] = p
	}
	for _, r := range rels {
		switch r.Type {
		case "CHILD_OF":
			g.parentsOf[r.FromID] = append(g.parentsOf[r.FromID], r.ToID)
			g.childrenOf[r.ToID] = append(g.childrenOf[r.ToID], r.FromID)
		case "SPOUSE_OF":
			if r.IsCurrent {
				g.spousesOf[r.FromID] = append(g.spousesOf[r.FromID], r.ToID)
				g.spousesOf[r.ToID] = append(g.spousesOf[r.ToID], r.FromID)
			}
		case "SIBLING_OF":
			g.siblingsOf[r.FromID] = append(g.siblingsOf[r.FromID], r.ToID)
			g.siblingsOf[r.ToID] = append(g.siblingsOf[r.ToID], r.FromID)
			blood := model.FullBlood
			if r.BloodType == string(model.HalfBlood) {
				blood = model.HalfBlood
			}
			g.setBloodType(r.FromID, r.ToID, blood)
			g.setBloodType(r.ToID, r.FromID, blood)
		case "RENOUNCED":
			g.renouncedOf[r.ToID] = append(g.renouncedOf[r.ToID], r.FromID)
		case "DISQUALIFIED":
			g.disqualifiedOf[r.ToID] = append(g.disqualifiedOf[r.ToID], r.FromID)
		case "DISINHERITED":
			g.disinheritedOf[r.ToID] = append(g.disinheritedOf[r.ToID], r.FromID)
		}
	}
	return g
}

func (g *familyGraph) setBloodType(decedentID, siblingID string, blood model.BloodType) {
	if g.bloodTypes[decedentID] == nil {
		g.bloodTypes[decedentID] = make(map[string]model.BloodType)
	}
	g.bloodTypes[decedentID][siblingID] = blood
}

func (g *familyGraph) lookup(ids []string) []*model.Person {
	var out []*model.Person
	for _, id := range ids {
		if p, ok := g.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// familyAround derives the candidate lists for one person as decedent.
func (g *familyGraph) familyAround(decedent *model.Person) *model.Family {
	parents := g.parentsOf[decedent.ID]
	var grandparents []string
	for _, pid := range parents {
		grandparents = append(grandparents, g.parentsOf[pid]...)
	}

	childrenOf := make(map[string][]*model.Person)
	g.collectDescendants(decedent.ID, childrenOf)
	for _, sibID := range g.siblingsOf[decedent.ID] {
		g.collectDescendants(sibID, childrenOf)
	}
	delete(childrenOf, decedent.ID)

	return &model.Family{
		Decedent:          decedent,
		Spouses:           g.lookup(g.spousesOf[decedent.ID]),
		Children:          g.lookup(g.childrenOf[decedent.ID]),
		Parents:           g.lookup(parents),
		Grandparents:      g.lookup(grandparents),
		Siblings:          g.lookup(g.siblingsOf[decedent.ID]),
		ChildrenOf:        childrenOf,
		Renounced:         g.lookup(g.renouncedOf[decedent.ID]),
		Disqualified:      g.lookup(g.disqualifiedOf[decedent.ID]),
		Disinherited:      g.lookup(g.disinheritedOf[decedent.ID]),
		SiblingBloodTypes: g.bloodTypes[decedent.ID],
	}
}

// estateAround derives a retransfer estate for a died-before-division
// heir, dropping second-round renouncers from the candidate lists.
func (g *familyGraph) estateAround(deceased *model.Person) *model.RetransferEstate {
	sub := g.familyAround(deceased)
	renounced := make(map[string]struct{})
	for _, p := range g.lookup(g.renouncedOf[deceased.ID]) {
		renounced[p.ID] = struct{}{}
	}
	drop := func(list []*model.Person) []*model.Person {
		var kept []*model.Person
		for _, p := range list {
			if _, ok := renounced[p.ID]; !ok {
				kept = append(kept, p)
			}
		}
		return kept
	}
	return &model.RetransferEstate{
		Spouses:              drop(sub.Spouses),
		Children:             drop(sub.Children),
		Parents:              drop(sub.Parents),
		Grandparents:         drop(sub.Grandparents),
		Siblings:             drop(sub.Siblings),
		ChildrenOf:           sub.ChildrenOf,
		Disqualified:         sub.Disqualified,
		Disinherited:         sub.Disinherited,
		SiblingBloodTypes:    sub.SiblingBloodTypes,
		SecondRoundRenounced: g.lookup(g.renouncedOf[deceased.ID]),
	}
}

// collectDescendants walks the child edges below root into the arena map.
func (g *familyGraph) collectDescendants(rootID string, arena map[string][]*model.Person) {
	kids := g.childrenOf[rootID]
	if len(kids) == 0 {
		return
	}
	if _, done := arena[rootID]; done {
		return
	}
	arena[rootID] = g.lookup(kids)
	for _, kid := range kids {
		g.collectDescendants(kid, arena)
	}
}

// heirCircle lists everyone who could hold a first-round share.
func heirCircle(f *model.Family) []*model.Person {
	var out []*model.Person
	out = append(out, f.Spouses...)
	out = append(out, f.Children...)
	out = append(out, f.Parents...)
	out = append(out, f.Grandparents...)
	out = append(out, f.Siblings...)
	for _, kids := range f.ChildrenOf {
		out = append(out, kids...)
	}
	return out
}
