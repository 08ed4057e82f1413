package invariant

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
)

// QuoteResult is what quote() surfaces to the host: the never-fails-loud
// contract means liquidity shortfalls come back as a flag, not an error.
type QuoteResult struct {
	InAmount           uint64
	OutAmount          uint64
	FeeAmount          uint64
	NotEnoughLiquidity bool
}

// mintsToDirection resolves which side of the pool the swap travels given an
// input/output mint pair, erroring if neither orientation matches.
func mintsToDirection(pool *Pool, inputMint, outputMint solana.PublicKey) (xToY bool, err error) {
	switch {
	case inputMint.Equals(pool.TokenX) && outputMint.Equals(pool.TokenY):
		return true, nil
	case inputMint.Equals(pool.TokenY) && outputMint.Equals(pool.TokenX):
		return false, nil
	default:
		return false, newErr(KindInvalidMints, fmt.Errorf("mints %s/%s do not match pool %s/%s", inputMint, outputMint, pool.TokenX, pool.TokenY))
	}
}

// priceLimitFor picks the sqrt-price extremum in the swap direction, the
// widest limit the simulator can walk toward; the adapter doesn't accept a
// caller-supplied slippage or limit price.
func priceLimitFor(pool *Pool, xToY bool) (fixedmath.SqrtPrice, error) {
	tick := MaxTick(pool.TickSpacing)
	if xToY {
		tick = MinTick(pool.TickSpacing)
	}
	return fixedmath.SqrtPriceAtTick(tick)
}

// Quote computes the expected output, fee and solvency flag for a swap of
// inAmount from inputMint to outputMint, without mutating the cache.
//
// quote never returns an InsufficientLiquidity error: an internal failure
// that prevents simulation (arithmetic overflow, an invariant violation) is
// folded into a zeroed result with NotEnoughLiquidity set, and a stale tick
// cache or a liquidity shortfall comes back as the simulated totals with
// NotEnoughLiquidity set, so the aggregator can simply drop the route from
// its search.
func (c *Cache) Quote(inAmount uint64, inputMint, outputMint solana.PublicKey) (*QuoteResult, error) {
	if c.pool == nil || c.tickmap == nil {
		return &QuoteResult{NotEnoughLiquidity: true}, nil
	}

	xToY, err := mintsToDirection(c.pool, inputMint, outputMint)
	if err != nil {
		return nil, err
	}

	priceLimit, err := priceLimitFor(c.pool, xToY)
	if err != nil {
		return &QuoteResult{NotEnoughLiquidity: true}, nil
	}

	result, err := Simulate(c.pool, c.tickmap, c.ticks, c.programID, c.poolKey, SimulationParams{
		InAmount:       fixedmath.TokenAmount(inAmount),
		XToY:           xToY,
		ByAmountIn:     true,
		SqrtPriceLimit: priceLimit,
	})
	if err != nil {
		return &QuoteResult{NotEnoughLiquidity: true}, nil
	}

	return &QuoteResult{
		InAmount:           uint64(result.InAmount),
		OutAmount:          uint64(result.OutAmount),
		FeeAmount:          uint64(result.FeeAmount),
		NotEnoughLiquidity: result.IsNotEnoughLiquidity(),
	}, nil
}

// SwapAccountsParams describes the swap build_swap_accounts assembles a
// fresh account list for.
type SwapAccountsParams struct {
	InAmount        uint64
	InputMint       solana.PublicKey
	OutputMint      solana.PublicKey
	Owner           solana.PublicKey
	SourceAccount   solana.PublicKey
	DestAccount     solana.PublicKey
	ReferralFee     *solana.PublicKey
	TokenProgram    solana.PublicKey
}

// BuildSwapAccounts derives the full account list the on-chain swap
// instruction needs, in the protocol's required order, along with the
// resolved swap direction.
func (c *Cache) BuildSwapAccounts(params SwapAccountsParams) (xToY bool, metas []*solana.AccountMeta, err error) {
	if c.pool == nil || c.tickmap == nil {
		return false, nil, newErr(KindStaleCache, fmt.Errorf("cache not yet populated"))
	}

	xToY, err = mintsToDirection(c.pool, params.InputMint, params.OutputMint)
	if err != nil {
		return false, nil, err
	}

	priceLimit, err := priceLimitFor(c.pool, xToY)
	if err != nil {
		return false, nil, newErr(KindInternalArithmetic, err)
	}

	result, err := Simulate(c.pool, c.tickmap, c.ticks, c.programID, c.poolKey, SimulationParams{
		InAmount:       fixedmath.TokenAmount(params.InAmount),
		XToY:           xToY,
		ByAmountIn:     true,
		SqrtPriceLimit: priceLimit,
	})
	if err != nil {
		return false, nil, err
	}
	if result.TicksAccountsOutdated {
		return false, nil, newErr(KindStaleCache, fmt.Errorf("tick accounts around current price are stale"))
	}
	if result.IsNotEnoughLiquidity() {
		return false, nil, newErr(KindInsufficientLiquidity, fmt.Errorf("swap exceeds the per-instruction tick-crossing budget"))
	}

	accountX, accountY := params.SourceAccount, params.DestAccount
	if !xToY {
		accountX, accountY = params.DestAccount, params.SourceAccount
	}

	metas = make([]*solana.AccountMeta, 0, 11+len(result.CrossedTicks))
	metas = append(metas,
		solana.Meta(StateAddress(c.programID)),
		solana.Meta(c.poolKey).WRITE(),
		solana.Meta(c.pool.Tickmap).WRITE(),
		solana.Meta(accountX).WRITE(),
		solana.Meta(accountY).WRITE(),
		solana.Meta(c.pool.TokenXReserve).WRITE(),
		solana.Meta(c.pool.TokenYReserve).WRITE(),
		solana.Meta(params.Owner).WRITE().SIGNER(),
		solana.Meta(ProgramAuthorityAddress(c.programID)),
		solana.Meta(params.TokenProgram),
	)
	if params.ReferralFee != nil {
		metas = append(metas, solana.Meta(*params.ReferralFee).WRITE())
	}
	for _, tickAddr := range TickAddresses(c.programID, c.poolKey, result.CrossedTicks) {
		metas = append(metas, solana.Meta(tickAddr).WRITE())
	}

	return xToY, metas, nil
}
