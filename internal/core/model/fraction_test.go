package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFractionArithmetic(t *testing.T) {
	half := NewFraction(1, 2)
	third := NewFraction(1, 3)

	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())
	assert.Equal(t, "3/2", half.Div(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
}

func TestFractionReduction(t *testing.T) {
	f := NewFraction(2, 4)
	assert.True(t, f.Equal(NewFraction(1, 2)))
	assert.Equal(t, int64(1), f.Num())
	assert.Equal(t, int64(2), f.Den())
}

func TestFractionDivInt(t *testing.T) {
	// A predeceased child's 1/2 slot split between two grandchildren.
	slot := NewFraction(1, 2)
	each := slot.DivInt(2)
	assert.True(t, each.Equal(NewFraction(1, 4)))
	assert.True(t, each.Add(each).Equal(slot))
}

func TestFractionZeroValue(t *testing.T) {
	var f Fraction
	assert.True(t, f.IsZero())
	assert.True(t, f.Add(One()).Equal(One()))
	assert.Equal(t, "0", f.String())
}

func TestFractionString(t *testing.T) {
	assert.Equal(t, "1", One().String())
	assert.Equal(t, "1/12", NewFraction(1, 12).String())
	assert.Equal(t, "2", NewFraction(4, 2).String())
}

func TestFractionExactSum(t *testing.T) {
	// 1/6 + 1/6 + 1/6 + 1/2 must be exactly one, no epsilon.
	sixth := NewFraction(1, 6)
	total := sixth.Add(sixth).Add(sixth).Add(NewFraction(1, 2))
	assert.True(t, total.Equal(One()))
}
