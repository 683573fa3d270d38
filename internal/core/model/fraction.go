package model

import (
	"fmt"
	"math/big"
)

// Fraction is an exact rational number used for statutory shares.
// All share arithmetic in the engine goes through this type; floating
// point conversion is a presentation concern and lives outside the core.
type Fraction struct {
	r *big.Rat
}

func NewFraction(num, den int64) Fraction {
	if den == 0 {
		panic("fraction: zero denominator")
	}
	return Fraction{r: big.NewRat(num, den)}
}

func Zero() Fraction { return Fraction{r: big.NewRat(0, 1)} }
func One() Fraction  { return Fraction{r: big.NewRat(1, 1)} }

// rat returns the underlying value, treating the zero Fraction as 0/1.
func (f Fraction) rat() *big.Rat {
	if f.r == nil {
		return big.NewRat(0, 1)
	}
	return f.r
}

func (f Fraction) Add(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Add(f.rat(), g.rat())}
}

func (f Fraction) Sub(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Sub(f.rat(), g.rat())}
}

func (f Fraction) Mul(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Mul(f.rat(), g.rat())}
}

func (f Fraction) Div(g Fraction) Fraction {
	if g.rat().Sign() == 0 {
		panic("fraction: division by zero")
	}
	return Fraction{r: new(big.Rat).Quo(f.rat(), g.rat())}
}

// DivInt splits the fraction into n equal parts and returns one part.
func (f Fraction) DivInt(n int) Fraction {
	if n == 0 {
		panic("fraction: division by zero")
	}
	return f.Mul(NewFraction(1, int64(n)))
}

func (f Fraction) Equal(g Fraction) bool {
	return f.rat().Cmp(g.rat()) == 0
}

func (f Fraction) IsZero() bool {
	return f.rat().Sign() == 0
}

func (f Fraction) Num() int64 { return f.rat().Num().Int64() }
func (f Fraction) Den() int64 { return f.rat().Denom().Int64() }

// String renders the reduced fraction, e.g. "1/2" or "1".
func (f Fraction) String() string {
	r := f.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return fmt.Sprintf("%s/%s", r.Num().String(), r.Denom().String())
}
