package retransfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
)

func alive(id, name string) *model.Person {
	return &model.Person{ID: id, Name: name, Alive: true}
}

func diedBeforeDivision(id, name string) *model.Person {
	d := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	return &model.Person{ID: id, Name: name, Alive: false, DeathDate: &d, DiedBeforeDivision: true}
}

func heir(p *model.Person, rank model.Rank, num, den int64) model.Heir {
	return model.Heir{
		Person:         p,
		Rank:           rank,
		Share:          model.NewFraction(num, den),
		BranchRoot:     p,
		BranchFraction: model.One(),
	}
}

func shareOf(t *testing.T, heirs []model.Heir, id string) model.Fraction {
	t.Helper()
	for _, h := range heirs {
		if h.Person.ID == id {
			return h.Share
		}
	}
	t.Fatalf("heir %s not found", id)
	return model.Zero()
}

func TestNoDeathBeforeDivisionPassesThrough(t *testing.T) {
	heirs := []model.Heir{heir(alive("c1", "Ichiro"), model.RankFirst, 1, 1)}

	out, basis, err := Resolve(heirs, nil)
	require.NoError(t, err)
	assert.Equal(t, heirs, out)
	assert.Empty(t, basis)
}

func TestSoleHeirRetransfersToSpouseAndChild(t *testing.T) {
	// B inherited the whole estate, then died before division leaving a
	// spouse C and a child D. Each ends up with half of the whole estate.
	b := diedBeforeDivision("b", "B")
	c := alive("c", "C")
	d := alive("e", "D")

	heirs := []model.Heir{heir(b, model.RankFirst, 1, 1)}
	estates := map[string]*model.RetransferEstate{
		"b": {
			Spouses:  []*model.Person{c},
			Children: []*model.Person{d},
		},
	}

	out, basis, err := Resolve(heirs, estates)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, shareOf(t, out, "c").Equal(model.NewFraction(1, 2)))
	assert.True(t, shareOf(t, out, "e").Equal(model.NewFraction(1, 2)))
	for _, h := range out {
		assert.True(t, h.IsRetransfer)
		assert.Equal(t, "b", h.RetransferFrom.ID)
		assert.True(t, h.OriginalShare.Equal(model.One()))
	}
	assert.Contains(t, basis, BasisRetransfer)
}

func TestPartialShareMultipliesThrough(t *testing.T) {
	// B held 1/2; B's own heirs are spouse and one child, so each takes
	// 1/2 of B's 1/2. The surviving direct heir keeps their 1/2 untouched.
	a := alive("a", "A")
	b := diedBeforeDivision("b", "B")

	heirs := []model.Heir{
		heir(a, model.RankFirst, 1, 2),
		heir(b, model.RankFirst, 1, 2),
	}
	estates := map[string]*model.RetransferEstate{
		"b": {
			Spouses:  []*model.Person{alive("c", "C")},
			Children: []*model.Person{alive("e", "D")},
		},
	}

	out, _, err := Resolve(heirs, estates)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.True(t, shareOf(t, out, "a").Equal(model.NewFraction(1, 2)))
	assert.True(t, shareOf(t, out, "c").Equal(model.NewFraction(1, 4)))
	assert.True(t, shareOf(t, out, "e").Equal(model.NewFraction(1, 4)))
}

func TestSecondRoundRenouncerAsTargetIsConflict(t *testing.T) {
	b := diedBeforeDivision("b", "B")
	d := alive("e", "D")

	heirs := []model.Heir{heir(b, model.RankFirst, 1, 1)}
	estates := map[string]*model.RetransferEstate{
		"b": {
			Children:             []*model.Person{d},
			SecondRoundRenounced: []*model.Person{d},
		},
	}

	out, _, err := Resolve(heirs, estates)
	assert.Nil(t, out)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "e", conflict.Person.ID)
	assert.Equal(t, "b", conflict.DeceasedHeir.ID)
}

func TestSecondRoundRenouncerNotListedIsExcluded(t *testing.T) {
	// D renounced B's estate and was correctly left out of the candidate
	// lists; B's share falls to the remaining heir of B.
	b := diedBeforeDivision("b", "B")

	heirs := []model.Heir{heir(b, model.RankFirst, 1, 1)}
	estates := map[string]*model.RetransferEstate{
		"b": {
			Spouses:              []*model.Person{alive("c", "C")},
			SecondRoundRenounced: []*model.Person{alive("e", "D")},
		},
	}

	out, _, err := Resolve(heirs, estates)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, shareOf(t, out, "c").Equal(model.One()))
}

func TestDeceasedHeirWithoutEstateKeptAsIs(t *testing.T) {
	b := diedBeforeDivision("b", "B")
	heirs := []model.Heir{heir(b, model.RankFirst, 1, 1)}

	out, basis, err := Resolve(heirs, map[string]*model.RetransferEstate{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Person.ID)
	assert.False(t, out[0].IsRetransfer)
	assert.NotContains(t, basis, BasisRetransfer)
}
