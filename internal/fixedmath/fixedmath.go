// Package fixedmath implements the fixed-point price, liquidity and
// token-amount arithmetic that backs the Invariant swap simulator.
//
// Every price-like quantity is stored in Q64.64 (64 fractional bits),
// mirroring the sqrt-price representation used by Solana concentrated
// liquidity pools generally: a plain unsigned integer whose true value is
// obtained by dividing by 2^64.
package fixedmath

import (
	"errors"
	"math/big"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

// Scale is the number of fractional bits in the Q64.64 representation.
const Scale = 64

// FeeRateDenominator is the fixed denominator fee rates are expressed over.
const FeeRateDenominator = 1_000_000

var ErrOverflow = errors.New("fixedmath: overflow")

// SqrtPrice is a Q64.64 fixed-point square root of price.
type SqrtPrice struct{ v cosmath.Int }

// Liquidity is a virtual liquidity amount, a plain (unscaled) integer.
type Liquidity struct{ v cosmath.Int }

// FeeGrowth is a Q64.64 fixed-point per-unit-liquidity fee accumulator.
type FeeGrowth struct{ v cosmath.Int }

// TokenAmount is a plain, non-negative token quantity, representable in u64.
type TokenAmount uint64

// Fee is a numerator over FeeRateDenominator.
type Fee uint32

func oneShl64() cosmath.Int {
	return cosmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), Scale))
}

func SqrtPriceFromUint128(u uint128.Uint128) SqrtPrice {
	return SqrtPrice{v: cosmath.NewIntFromBigInt(u.Big())}
}

func (p SqrtPrice) Uint128() uint128.Uint128 {
	return uint128.FromBig(p.v.BigInt())
}

func (p SqrtPrice) Int() cosmath.Int { return p.v }

func SqrtPriceFromInt(i cosmath.Int) SqrtPrice { return SqrtPrice{v: i} }

func (p SqrtPrice) Equal(o SqrtPrice) bool { return p.v.Equal(o.v) }
func (p SqrtPrice) GT(o SqrtPrice) bool    { return p.v.GT(o.v) }
func (p SqrtPrice) GTE(o SqrtPrice) bool   { return p.v.GTE(o.v) }
func (p SqrtPrice) LT(o SqrtPrice) bool    { return p.v.LT(o.v) }
func (p SqrtPrice) LTE(o SqrtPrice) bool   { return p.v.LTE(o.v) }

// Squared returns the full-width square of the price, used by the
// price-impact calculation. The result carries 2*Scale fractional bits.
func (p SqrtPrice) Squared() cosmath.Int {
	return p.v.Mul(p.v)
}

func LiquidityFromUint128(u uint128.Uint128) Liquidity {
	return Liquidity{v: cosmath.NewIntFromBigInt(u.Big())}
}

func (l Liquidity) Uint128() uint128.Uint128 {
	return uint128.FromBig(l.v.BigInt())
}

func (l Liquidity) Int() cosmath.Int { return l.v }

func LiquidityFromInt(i cosmath.Int) Liquidity { return Liquidity{v: i} }

func (l Liquidity) Add(o Liquidity) Liquidity { return Liquidity{v: l.v.Add(o.v)} }

func (l Liquidity) Sub(o Liquidity) (Liquidity, error) {
	if l.v.LT(o.v) {
		return Liquidity{}, ErrOverflow
	}
	return Liquidity{v: l.v.Sub(o.v)}, nil
}

func (l Liquidity) IsZero() bool { return l.v.IsZero() }

func FeeGrowthFromUint128(u uint128.Uint128) FeeGrowth {
	return FeeGrowth{v: cosmath.NewIntFromBigInt(u.Big())}
}

func (g FeeGrowth) Uint128() uint128.Uint128 {
	return uint128.FromBig(g.v.BigInt())
}

func (g FeeGrowth) Sub(o FeeGrowth) FeeGrowth { return FeeGrowth{v: g.v.Sub(o.v)} }
func (g FeeGrowth) Add(o FeeGrowth) FeeGrowth { return FeeGrowth{v: g.v.Add(o.v)} }

// mulDivFloor computes floor(a*b/denominator) without intermediate overflow.
func mulDivFloor(a, b, denominator cosmath.Int) (cosmath.Int, error) {
	if denominator.IsZero() {
		return cosmath.Int{}, ErrOverflow
	}
	return a.Mul(b).Quo(denominator), nil
}

// mulDivCeil computes ceil(a*b/denominator) without intermediate overflow.
func mulDivCeil(a, b, denominator cosmath.Int) (cosmath.Int, error) {
	if denominator.IsZero() {
		return cosmath.Int{}, ErrOverflow
	}
	numerator := a.Mul(b)
	q := numerator.Quo(denominator)
	if numerator.Mod(denominator).IsZero() {
		return q, nil
	}
	return q.Add(cosmath.OneInt()), nil
}

// AmountAfterFee subtracts the proportional fee from a gross input amount,
// rounding down, as compute_swap_step does before comparing against the
// amount required to reach a boundary.
func AmountAfterFee(amount TokenAmount, fee Fee) (TokenAmount, error) {
	num := cosmath.NewInt(int64(amount))
	den := cosmath.NewInt(FeeRateDenominator)
	rate := den.Sub(cosmath.NewInt(int64(fee)))
	result, err := mulDivFloor(num, rate, den)
	if err != nil {
		return 0, err
	}
	if !result.IsInt64() || result.Int64() < 0 {
		return 0, ErrOverflow
	}
	return TokenAmount(result.Int64()), nil
}

// ToU64 checks that a cosmossdk.io/math.Int is representable as a uint64.
func ToU64(i cosmath.Int) (uint64, error) {
	if i.IsNegative() {
		return 0, ErrOverflow
	}
	if i.BigInt().BitLen() > 64 {
		return 0, ErrOverflow
	}
	return i.Uint64(), nil
}
