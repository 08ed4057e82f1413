package fixedmath

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func priceAt(t *testing.T, tick int32) SqrtPrice {
	t.Helper()
	p, err := SqrtPriceAtTick(tick)
	require.NoError(t, err)
	return p
}

func TestComputeSwapStepStopsShortOfTargetWhenAmountRunsOut(t *testing.T) {
	current := priceAt(t, 0)
	target := priceAt(t, 1000)
	liquidity := LiquidityFromInt(cosmath.NewInt(1_000_000_000))

	step, err := ComputeSwapStep(current, target, liquidity, 10, true, 0)
	require.NoError(t, err)

	require.False(t, step.NextSqrtPrice.Equal(target), "a tiny input shouldn't reach a far target")
	require.True(t, step.NextSqrtPrice.GTE(current))
	require.Equal(t, TokenAmount(0), step.FeeAmount, "zero fee rate yields zero fee")
}

func TestComputeSwapStepReachesTargetWhenAmountIsAmple(t *testing.T) {
	current := priceAt(t, 0)
	target := priceAt(t, 10)
	liquidity := LiquidityFromInt(cosmath.NewInt(1_000_000_000_000))

	step, err := ComputeSwapStep(current, target, liquidity, 1_000_000_000, true, 0)
	require.NoError(t, err)
	require.True(t, step.NextSqrtPrice.Equal(target))
}

func TestComputeSwapStepFeeIsProportional(t *testing.T) {
	current := priceAt(t, 0)
	target := priceAt(t, 50000)
	liquidity := LiquidityFromInt(cosmath.NewInt(1_000_000_000_000))

	noFee, err := ComputeSwapStep(current, target, liquidity, 1_000_000, true, 0)
	require.NoError(t, err)
	withFee, err := ComputeSwapStep(current, target, liquidity, 1_000_000, true, 10_000) // 1%
	require.NoError(t, err)

	require.True(t, withFee.FeeAmount > 0)
	require.True(t, withFee.AmountIn <= noFee.AmountIn)
}

func TestComputeSwapStepByAmountOutCapsAtRemaining(t *testing.T) {
	current := priceAt(t, 0)
	target := priceAt(t, 1_000_000)
	liquidity := LiquidityFromInt(cosmath.NewInt(1_000_000_000_000))

	step, err := ComputeSwapStep(current, target, liquidity, 5, false, 0)
	require.NoError(t, err)
	require.True(t, step.AmountOut <= 5)
}
