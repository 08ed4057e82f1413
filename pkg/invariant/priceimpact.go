package invariant

import (
	cosmath "cosmossdk.io/math"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
)

// PriceImpact computes the relative price change between two sqrt-prices,
// symmetric in its two arguments: swapping s and e yields the same value.
func PriceImpact(s, e fixedmath.SqrtPrice) (cosmath.Int, error) {
	sSquared := s.Squared()
	eSquared := e.Squared()

	num, den := sSquared, eSquared
	if sSquared.GT(eSquared) {
		num, den = eSquared, sSquared
	}
	if den.IsZero() {
		return cosmath.Int{}, newErr(KindInternalArithmetic, errPriceImpactOverflow)
	}

	accuracy := cosmath.NewInt(PriceImpactAccuracy)
	q := accuracy.Mul(num).Quo(den)
	if q.GT(accuracy) {
		return cosmath.Int{}, newErr(KindInternalArithmetic, errPriceImpactOverflow)
	}
	return accuracy.Sub(q), nil
}
