package fixedmath

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestSqrtPriceUint128RoundTrip(t *testing.T) {
	u := uint128.From64(123456789012345)
	p := SqrtPriceFromUint128(u)
	require.Equal(t, u, p.Uint128())
}

func TestLiquidityAddSub(t *testing.T) {
	a := LiquidityFromUint128(uint128.From64(100))
	b := LiquidityFromUint128(uint128.From64(40))

	sum := a.Add(b)
	require.Equal(t, uint128.From64(140), sum.Uint128())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(60), diff.Uint128())

	_, err = b.Sub(a)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestLiquidityIsZero(t *testing.T) {
	require.True(t, LiquidityFromUint128(uint128.Zero).IsZero())
	require.False(t, LiquidityFromUint128(uint128.From64(1)).IsZero())
}

func TestAmountAfterFee(t *testing.T) {
	got, err := AmountAfterFee(1_000_000, 1_000) // 0.1% fee
	require.NoError(t, err)
	require.Equal(t, TokenAmount(999_000), got)

	got, err = AmountAfterFee(0, 1_000)
	require.NoError(t, err)
	require.Equal(t, TokenAmount(0), got)
}

func TestSqrtPriceComparisons(t *testing.T) {
	lo := SqrtPriceFromUint128(uint128.From64(100))
	hi := SqrtPriceFromUint128(uint128.From64(200))

	require.True(t, hi.GT(lo))
	require.True(t, hi.GTE(hi))
	require.True(t, lo.LT(hi))
	require.True(t, lo.LTE(lo))
	require.False(t, lo.Equal(hi))
}
