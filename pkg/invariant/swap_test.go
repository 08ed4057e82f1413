package invariant

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
)

func sqrtPriceX64AtTick(t *testing.T, tick int32) uint128.Uint128 {
	t.Helper()
	p, err := fixedmath.SqrtPriceAtTick(tick)
	require.NoError(t, err)
	return p.Uint128()
}

func newSwapFixturePool(t *testing.T, tickSpacing uint16, currentTick int32, liquidity uint64, feeRate uint32) *Pool {
	return &Pool{
		TokenX:           solana.NewWallet().PublicKey(),
		TokenY:           solana.NewWallet().PublicKey(),
		TickSpacing:      tickSpacing,
		CurrentTickIndex: currentTick,
		SqrtPriceX64:     sqrtPriceX64AtTick(t, currentTick),
		LiquidityX64:     uint128.From64(liquidity),
		FeeRate:          feeRate,
	}
}

// TestSimulateTrivialQuoteStaysWithinCurrentTick: ample liquidity at the
// current tick absorbs a modest input without touching any boundary.
func TestSimulateTrivialQuoteStaysWithinCurrentTick(t *testing.T) {
	pool := newSwapFixturePool(t, 1, 0, 1_000_000_000_000, 10_000) // 1% fee
	tickmap := newEmptyTickmap()
	setTick(tickmap, 0, pool.TickSpacing)
	ticks := map[solana.PublicKey]*Tick{}

	farLimit, err := fixedmath.SqrtPriceAtTick(MinTick(pool.TickSpacing))
	require.NoError(t, err)

	result, err := Simulate(pool, tickmap, ticks, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), SimulationParams{
		InAmount:       1_000_000,
		XToY:           true,
		ByAmountIn:     true,
		SqrtPriceLimit: farLimit,
	})
	require.NoError(t, err)

	require.EqualValues(t, 1_000_000, result.InAmount, "the full requested amount is always accounted for")
	require.True(t, result.OutAmount > 0)
	require.True(t, result.FeeAmount > 0 && result.FeeAmount <= result.InAmount)
	require.Empty(t, result.CrossedTicks)
	require.False(t, result.GlobalInsufficientLiquidity)
	require.False(t, result.TicksAccountsOutdated)
	require.False(t, result.IsNotEnoughLiquidity())
}

// TestSimulateCrossesSingleInitializedTick: a single initialized tick at
// -tick_spacing sits between the current price and where the huge input
// would otherwise push it, and it absorbs a liquidity bump big enough that
// nothing past it gets crossed.
func TestSimulateCrossesSingleInitializedTick(t *testing.T) {
	pool := newSwapFixturePool(t, 1, 0, 1, 0)
	tickmap := newEmptyTickmap()
	setTick(tickmap, -1, pool.TickSpacing)

	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	tickAddr := TickAddress(programID, poolKey, -1)
	ticks := map[solana.PublicKey]*Tick{
		// The liquidity bump on crossing is many orders of magnitude bigger
		// than the leftover input could possibly move, so nothing beyond
		// this one real cross gets touched.
		tickAddr: {Index: -1, Sign: false, LiquidityChange: uint128.From64(1_000_000_000_000_000_000)},
	}

	farLimit, err := fixedmath.SqrtPriceAtTick(MinTick(pool.TickSpacing) + 1)
	require.NoError(t, err)

	result, err := Simulate(pool, tickmap, ticks, programID, poolKey, SimulationParams{
		InAmount:       1_000_000_000,
		XToY:           true,
		ByAmountIn:     true,
		SqrtPriceLimit: farLimit,
	})
	require.NoError(t, err)

	require.Equal(t, []int32{-1}, result.CrossedTicks)
	require.False(t, result.GlobalInsufficientLiquidity)
	require.False(t, result.TicksAccountsOutdated)
}

// TestSimulateStopsAtTickCrossBudget: 25 densely packed initialized ticks in
// the swap direction, far more than the per-instruction budget allows real
// crosses for.
func TestSimulateStopsAtTickCrossBudget(t *testing.T) {
	pool := newSwapFixturePool(t, 1, 0, 1_000_000, 0)
	tickmap := newEmptyTickmap()

	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	ticks := map[solana.PublicKey]*Tick{}
	for i := int32(1); i <= 25; i++ {
		tick := -i
		setTick(tickmap, tick, pool.TickSpacing)
		ticks[TickAddress(programID, poolKey, tick)] = &Tick{Index: tick, Sign: false, LiquidityChange: uint128.From64(1)}
	}

	farLimit, err := fixedmath.SqrtPriceAtTick(MinTick(pool.TickSpacing) + 1)
	require.NoError(t, err)

	result, err := Simulate(pool, tickmap, ticks, programID, poolKey, SimulationParams{
		InAmount:       1_000_000_000_000_000,
		XToY:           true,
		ByAmountIn:     true,
		SqrtPriceLimit: farLimit,
	})
	require.NoError(t, err)

	require.True(t, len(result.CrossedTicks) <= TickCrossesPerIx)
	require.True(t, result.GlobalInsufficientLiquidity)
}

// TestSimulateStopsAtPriceLimit: liquidity too thin to absorb the input
// before the swap's own overall price limit is reached. The limit sits
// strictly between the current tick and the next grid line (tick spacing
// 1000 makes tick -500 a valid, non-grid-aligned price to limit at), so
// getCloserLimit always picks the overall limit over the grid boundary and
// the step lands exactly on it as soon as the input is ample enough to reach
// it at all.
func TestSimulateStopsAtPriceLimit(t *testing.T) {
	pool := newSwapFixturePool(t, 1000, 0, 1_000, 0)
	tickmap := newEmptyTickmap()
	ticks := map[solana.PublicKey]*Tick{}

	limit, err := fixedmath.SqrtPriceAtTick(-500)
	require.NoError(t, err)

	result, err := Simulate(pool, tickmap, ticks, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), SimulationParams{
		InAmount:       1_000_000_000_000,
		XToY:           true,
		ByAmountIn:     true,
		SqrtPriceLimit: limit,
	})
	require.NoError(t, err)
	require.True(t, result.GlobalInsufficientLiquidity)
	require.True(t, result.EndingSqrtPrice.Equal(limit))
}

// TestSimulateSqrtPriceMovesMonotonically grounds invariant 5: within one
// swap, price only ever moves toward the requested direction.
func TestSimulateSqrtPriceMovesMonotonically(t *testing.T) {
	pool := newSwapFixturePool(t, 1, 0, 1_000_000_000, 0)
	tickmap := newEmptyTickmap()
	ticks := map[solana.PublicKey]*Tick{}

	farLimit, err := fixedmath.SqrtPriceAtTick(MinTick(pool.TickSpacing) + 1)
	require.NoError(t, err)

	result, err := Simulate(pool, tickmap, ticks, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), SimulationParams{
		InAmount:       1_000_000,
		XToY:           true,
		ByAmountIn:     true,
		SqrtPriceLimit: farLimit,
	})
	require.NoError(t, err)
	require.True(t, result.EndingSqrtPrice.LTE(result.StartingSqrtPrice), "x_to_y must not raise the price")
}
