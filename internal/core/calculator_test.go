package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/retransfer"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/validation"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newDecedent() *model.Person {
	return &model.Person{
		ID:         "d",
		Name:       "Yamada Taro",
		IsDecedent: true,
		Alive:      false,
		BirthDate:  date(1950, 1, 1),
		DeathDate:  date(2025, 6, 15),
	}
}

func alive(id, name string) *model.Person {
	return &model.Person{ID: id, Name: name, Alive: true}
}

func predeceased(id, name string) *model.Person {
	return &model.Person{ID: id, Name: name, Alive: false, DeathDate: date(2020, 3, 10)}
}

func shareOf(t *testing.T, result *model.Result, id string) model.Fraction {
	t.Helper()
	for _, h := range result.Heirs {
		if h.Person.ID == id {
			return h.Share
		}
	}
	t.Fatalf("heir %s not in result", id)
	return model.Zero()
}

func assertSumsToOne(t *testing.T, result *model.Result) {
	t.Helper()
	assert.True(t, result.TotalShare().Equal(model.One()),
		"shares sum to %s, want 1", result.TotalShare())
}

func TestSpouseOnly(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Spouses:  []*model.Person{alive("s", "Hanako")},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	require.Len(t, result.Heirs, 1)
	assert.True(t, shareOf(t, result, "s").Equal(model.One()))
	assert.True(t, result.HasSpouse)
	assert.False(t, result.HasChildren)
	assertSumsToOne(t, result)
}

func TestSpouseAndTwoChildren(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Spouses:  []*model.Person{alive("s", "Hanako")},
		Children: []*model.Person{alive("c1", "Ichiro"), alive("c2", "Jiro")},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	assert.True(t, shareOf(t, result, "s").Equal(model.NewFraction(1, 2)))
	assert.True(t, shareOf(t, result, "c1").Equal(model.NewFraction(1, 4)))
	assert.True(t, shareOf(t, result, "c2").Equal(model.NewFraction(1, 4)))
	assertSumsToOne(t, result)
}

func TestSpouseAndParents(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Spouses:  []*model.Person{alive("s", "Hanako")},
		Parents:  []*model.Person{alive("p1", "Saburo"), alive("p2", "Haruko")},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	assert.True(t, shareOf(t, result, "s").Equal(model.NewFraction(2, 3)))
	assert.True(t, shareOf(t, result, "p1").Equal(model.NewFraction(1, 6)))
	assert.True(t, shareOf(t, result, "p2").Equal(model.NewFraction(1, 6)))
	assertSumsToOne(t, result)
}

func TestSpouseWithMixedBloodSiblings(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Spouses:  []*model.Person{alive("s", "Hanako")},
		Siblings: []*model.Person{alive("b1", "Jiro"), alive("b2", "Goro")},
		SiblingBloodTypes: map[string]model.BloodType{
			"b1": model.FullBlood,
			"b2": model.HalfBlood,
		},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	assert.True(t, shareOf(t, result, "s").Equal(model.NewFraction(3, 4)))
	assert.True(t, shareOf(t, result, "b1").Equal(model.NewFraction(1, 6)))
	assert.True(t, shareOf(t, result, "b2").Equal(model.NewFraction(1, 12)))
	assertSumsToOne(t, result)
}

func TestSubstitutionSplitsThePredeceasedSlot(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Children: []*model.Person{alive("a", "A"), predeceased("b", "B")},
		ChildrenOf: map[string][]*model.Person{
			"b": {alive("c", "C"), alive("e", "D")},
		},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	assert.True(t, shareOf(t, result, "a").Equal(model.NewFraction(1, 2)))
	assert.True(t, shareOf(t, result, "c").Equal(model.NewFraction(1, 4)))
	assert.True(t, shareOf(t, result, "e").Equal(model.NewFraction(1, 4)))
	assertSumsToOne(t, result)
}

func TestRenunciationCutsSubstitution(t *testing.T) {
	renouncer := alive("b", "B")
	f := &model.Family{
		Decedent:  newDecedent(),
		Children:  []*model.Person{alive("a", "A"), renouncer},
		Renounced: []*model.Person{renouncer},
		ChildrenOf: map[string][]*model.Person{
			"b": {alive("c", "C"), alive("e", "D")},
		},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	require.Len(t, result.Heirs, 1)
	assert.True(t, shareOf(t, result, "a").Equal(model.One()))
	assertSumsToOne(t, result)
}

func TestRetransferSpouseChildPattern(t *testing.T) {
	// Sole heir B survived the decedent, then died before division,
	// leaving spouse C and child D: each takes half of the whole estate.
	b := &model.Person{ID: "b", Name: "B", Alive: false, DeathDate: date(2025, 8, 1), DiedBeforeDivision: true}
	f := &model.Family{
		Decedent: newDecedent(),
		Children: []*model.Person{b},
		RetransferEstates: map[string]*model.RetransferEstate{
			"b": {
				Spouses:  []*model.Person{alive("c", "C")},
				Children: []*model.Person{alive("e", "D")},
			},
		},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	require.Len(t, result.Heirs, 2)
	assert.True(t, shareOf(t, result, "c").Equal(model.NewFraction(1, 2)))
	assert.True(t, shareOf(t, result, "e").Equal(model.NewFraction(1, 2)))
	assert.Contains(t, result.Basis, retransfer.BasisRetransfer)
	assertSumsToOne(t, result)
}

func TestRetransferRenunciationConflict(t *testing.T) {
	b := &model.Person{ID: "b", Name: "B", Alive: false, DeathDate: date(2025, 8, 1), DiedBeforeDivision: true}
	d := alive("e", "D")
	f := &model.Family{
		Decedent: newDecedent(),
		Children: []*model.Person{b},
		RetransferEstates: map[string]*model.RetransferEstate{
			"b": {
				Children:             []*model.Person{d},
				SecondRoundRenounced: []*model.Person{d},
			},
		},
	}

	result, err := NewCalculator().Calculate(f)
	assert.Nil(t, result)

	var conflict *retransfer.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestNoHeirReported(t *testing.T) {
	f := &model.Family{Decedent: newDecedent()}

	result, err := NewCalculator().Calculate(f)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, validation.ErrNoHeir)
}

func TestDecedentMustBeDead(t *testing.T) {
	f := &model.Family{
		Decedent: &model.Person{ID: "d", Name: "Taro", IsDecedent: true, Alive: false},
		Spouses:  []*model.Person{alive("s", "Hanako")},
	}
	f.Decedent.Alive = true

	_, err := NewCalculator().Calculate(f)
	assert.Error(t, err)
}

func TestDeathBeforeBirthRejected(t *testing.T) {
	f := &model.Family{
		Decedent: &model.Person{
			ID:         "d",
			Name:       "Taro",
			IsDecedent: true,
			Alive:      false,
			BirthDate:  date(2000, 1, 1),
			DeathDate:  date(1990, 1, 1),
		},
		Spouses: []*model.Person{alive("s", "Hanako")},
	}

	_, err := NewCalculator().Calculate(f)
	assert.Error(t, err)
}

func TestDuplicateIdentityAcrossRolesRejected(t *testing.T) {
	p := alive("x", "X")
	f := &model.Family{
		Decedent: newDecedent(),
		Children: []*model.Person{p},
		Siblings: []*model.Person{p},
	}

	_, err := NewCalculator().Calculate(f)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "both as")
}

func TestBasisOrderSpouseThenRankThenSplit(t *testing.T) {
	f := &model.Family{
		Decedent: newDecedent(),
		Spouses:  []*model.Person{alive("s", "Hanako")},
		Children: []*model.Person{alive("c1", "Ichiro")},
	}

	result, err := NewCalculator().Calculate(f)
	require.NoError(t, err)

	idx := func(s string) int {
		for i, b := range result.Basis {
			if b == s {
				return i
			}
		}
		return -1
	}
	spouse := idx(validation.BasisSpouse)
	children := idx(validation.BasisChildren)
	require.GreaterOrEqual(t, spouse, 0)
	require.Greater(t, children, spouse)
}

func TestCalculateIsDeterministic(t *testing.T) {
	build := func() *model.Family {
		return &model.Family{
			Decedent: newDecedent(),
			Spouses:  []*model.Person{alive("s", "Hanako")},
			Children: []*model.Person{alive("c1", "Ichiro"), predeceased("b", "B")},
			ChildrenOf: map[string][]*model.Person{
				"b": {alive("c", "C"), alive("e", "D")},
			},
		}
	}

	first, err := NewCalculator().Calculate(build())
	require.NoError(t, err)
	second, err := NewCalculator().Calculate(build())
	require.NoError(t, err)

	require.Len(t, second.Heirs, len(first.Heirs))
	for i := range first.Heirs {
		assert.Equal(t, first.Heirs[i].Person.ID, second.Heirs[i].Person.ID)
		assert.True(t, first.Heirs[i].Share.Equal(second.Heirs[i].Share))
	}
	assert.Equal(t, first.Basis, second.Basis)
}
