package invariant

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func newFacadeCache(t *testing.T, programID, poolKey solana.PublicKey, pool *Pool, tickmap *Tickmap, ticks map[solana.PublicKey]*Tick) *Cache {
	t.Helper()
	c := NewCache(programID, poolKey)
	c.pool = pool
	c.tickmap = tickmap
	c.ticks = ticks
	return c
}

// TestQuoteNeverFailsOnLiquidityShortfall: a cache that isn't populated yet
// never surfaces an error, only the NotEnoughLiquidity flag.
func TestQuoteNeverFailsOnLiquidityShortfall(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	c := NewCache(programID, poolKey)

	result, err := c.Quote(1_000, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	require.True(t, result.NotEnoughLiquidity)
}

// TestQuoteRejectsMismatchedMints: a mint mismatch is the one failure quote
// surfaces as a real error, not a flag.
func TestQuoteRejectsMismatchedMints(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	pool := newSwapFixturePool(t, 1, 0, 1_000_000_000, 0)
	c := newFacadeCache(t, programID, poolKey, pool, newEmptyTickmap(), map[solana.PublicKey]*Tick{})

	neitherMint := solana.NewWallet().PublicKey()
	_, err := c.Quote(1_000, neitherMint, pool.TokenY)
	require.Error(t, err)

	var invErr *Error
	require.True(t, errors.As(err, &invErr))
	require.Equal(t, KindInvalidMints, invErr.Kind)
}

// TestBuildSwapAccountsRejectsStaleCache: the tickmap claims an initialized
// boundary tick but the cache's tick snapshot never got it, which must
// surface as StaleCache rather than a wrong instruction.
func TestBuildSwapAccountsRejectsStaleCache(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	pool := newSwapFixturePool(t, 1, 0, 1, 0)
	tickmap := newEmptyTickmap()
	setTick(tickmap, -1, pool.TickSpacing)
	// Deliberately omit the tick account itself: the tickmap bit says it's
	// initialized, but the cache never cached its data.
	c := newFacadeCache(t, programID, poolKey, pool, tickmap, map[solana.PublicKey]*Tick{})

	require.True(t, c.TicksAccountsOutdated())

	_, _, err := c.BuildSwapAccounts(SwapAccountsParams{
		InAmount:      1_000_000_000,
		InputMint:     pool.TokenX,
		OutputMint:    pool.TokenY,
		Owner:         solana.NewWallet().PublicKey(),
		SourceAccount: solana.NewWallet().PublicKey(),
		DestAccount:   solana.NewWallet().PublicKey(),
		TokenProgram:  solana.TokenProgramID,
	})
	require.Error(t, err)

	var invErr *Error
	require.True(t, errors.As(err, &invErr))
	require.Equal(t, KindStaleCache, invErr.Kind)
}

// TestBuildSwapAccountsSucceedsWhenTickCached is the control case: once the
// boundary tick is cached, the same swap builds successfully and the
// crossed tick's PDA is appended as the final writable account.
func TestBuildSwapAccountsSucceedsWhenTickCached(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	pool := newSwapFixturePool(t, 1, 0, 1, 0)
	tickmap := newEmptyTickmap()
	setTick(tickmap, -1, pool.TickSpacing)
	tickAddr := TickAddress(programID, poolKey, -1)
	ticks := map[solana.PublicKey]*Tick{
		tickAddr: {Index: -1, Sign: false, LiquidityChange: uint128.From64(1_000_000_000_000_000_000)},
	}
	c := newFacadeCache(t, programID, poolKey, pool, tickmap, ticks)
	require.False(t, c.TicksAccountsOutdated())

	owner := solana.NewWallet().PublicKey()
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()

	xToY, metas, err := c.BuildSwapAccounts(SwapAccountsParams{
		InAmount:      1_000_000_000,
		InputMint:     pool.TokenX,
		OutputMint:    pool.TokenY,
		Owner:         owner,
		SourceAccount: source,
		DestAccount:   dest,
		TokenProgram:  solana.TokenProgramID,
	})
	require.NoError(t, err)
	require.True(t, xToY)
	require.Len(t, metas, 11)
	last := metas[len(metas)-1]
	require.Equal(t, tickAddr, last.PublicKey)
	require.True(t, last.IsWritable)
}

// TestBuildSwapAccountsRejectsMismatchedMints mirrors the mint-mismatch
// check on the instruction-building side of the facade.
func TestBuildSwapAccountsRejectsMismatchedMints(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	poolKey := solana.NewWallet().PublicKey()
	pool := newSwapFixturePool(t, 1, 0, 1_000_000_000, 0)
	c := newFacadeCache(t, programID, poolKey, pool, newEmptyTickmap(), map[solana.PublicKey]*Tick{})

	_, _, err := c.BuildSwapAccounts(SwapAccountsParams{
		InAmount:      1_000,
		InputMint:     solana.NewWallet().PublicKey(),
		OutputMint:    pool.TokenY,
		Owner:         solana.NewWallet().PublicKey(),
		SourceAccount: solana.NewWallet().PublicKey(),
		DestAccount:   solana.NewWallet().PublicKey(),
		TokenProgram:  solana.TokenProgramID,
	})
	require.Error(t, err)
	var invErr *Error
	require.True(t, errors.As(err, &invErr))
	require.Equal(t, KindInvalidMints, invErr.Kind)
}
