// Package fraction implements the exact numerator/denominator value type
// underlying all monetary values and quantities.
package fraction

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fraction is an exact integer ratio. The denominator is kept positive;
// the sign lives on the numerator.
type Fraction struct {
	Num   int64
	Denom int64
}

var Zero = Fraction{Num: 0, Denom: 1}

// New creates a fraction, normalizing the sign onto the numerator.
func New(num, denom int64) Fraction {
	if denom < 0 {
		num, denom = -num, -denom
	}
	return Fraction{Num: num, Denom: denom}
}

// Parse parses a fraction string of the form "num/denom", or a bare
// integer which is taken to have denominator 1.
func Parse(s string) (Fraction, error) {
	before, after, found := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(before), 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid fraction %q: %w", s, err)
	}
	if !found {
		return Fraction{Num: num, Denom: 1}, nil
	}
	denom, err := strconv.ParseInt(strings.TrimSpace(after), 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid fraction %q: %w", s, err)
	}
	if denom == 0 {
		return Zero, fmt.Errorf("invalid fraction %q: zero denominator", s)
	}
	return New(num, denom), nil
}

// String renders the fraction in interchange form, "num/denom".
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Denom)
}

// maxFractionDigits bounds digit generation for non-terminating
// expansions. 20 digits keep the truncation error below 1/(2*denom) for
// any int64 denominator, so DecimalString round-trips through
// FromDecimal.
const maxFractionDigits = 20

// DecimalString converts the fraction to its decimal string
// representation. Digits are produced by integer long division, so the
// result is correct for denominators which are not powers of ten. A zero
// denominator renders as "0": display paths must never fail on corrupt
// values.
func (f Fraction) DecimalString() string {
	if f.Denom == 0 {
		return "0"
	}
	num, denom := f.Num, f.Denom
	if denom < 0 {
		num, denom = -num, -denom
	}
	neg := num < 0
	if neg {
		num = -num
	}
	var (
		n = new(big.Int).SetInt64(num)
		d = new(big.Int).SetInt64(denom)
		q = new(big.Int)
		r = new(big.Int)
	)
	q.QuoRem(n, d, r)
	var b strings.Builder
	if neg && (q.Sign() != 0 || r.Sign() != 0) {
		b.WriteByte('-')
	}
	b.WriteString(q.String())
	if r.Sign() == 0 {
		return b.String()
	}
	b.WriteByte('.')
	ten := big.NewInt(10)
	for i := 0; i < maxFractionDigits && r.Sign() != 0; i++ {
		r.Mul(r, ten)
		q.QuoRem(r, d, r)
		b.WriteString(q.String())
	}
	return b.String()
}

// FromDecimal converts a decimal amount to a fraction over the given
// denominator, rounding amount*denom to the nearest integer.
func FromDecimal(amount decimal.Decimal, denom int64) Fraction {
	if denom == 0 {
		return Zero
	}
	num := amount.Mul(decimal.NewFromInt(denom)).Round(0).IntPart()
	return New(num, denom)
}

// Decimal returns the fraction as a decimal, truncated to 20 places for
// non-terminating expansions.
func (f Fraction) Decimal() decimal.Decimal {
	if f.Denom == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(f.DecimalString())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Rat returns the fraction as a big.Rat, or 0 for a zero denominator.
func (f Fraction) Rat() *big.Rat {
	if f.Denom == 0 {
		return new(big.Rat)
	}
	return big.NewRat(f.Num, f.Denom)
}

// Add returns the exact sum of two fractions, reduced to lowest terms.
func (f Fraction) Add(g Fraction) Fraction {
	sum := new(big.Rat).Add(f.Rat(), g.Rat())
	return Fraction{Num: sum.Num().Int64(), Denom: sum.Denom().Int64()}
}

func (f Fraction) Neg() Fraction {
	return Fraction{Num: -f.Num, Denom: f.Denom}
}

func (f Fraction) IsZero() bool {
	return f.Num == 0
}

// Sign returns -1, 0 or 1 depending on the sign of the fraction.
func (f Fraction) Sign() int {
	switch {
	case f.Num < 0:
		return -1
	case f.Num > 0:
		return 1
	}
	return 0
}

// Cmp compares two fractions exactly.
func (f Fraction) Cmp(g Fraction) int {
	return f.Rat().Cmp(g.Rat())
}
