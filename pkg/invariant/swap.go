package invariant

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
)

// SimulationParams are the simulator's inputs for one swap.
type SimulationParams struct {
	InAmount       fixedmath.TokenAmount
	XToY           bool
	ByAmountIn     bool
	SqrtPriceLimit fixedmath.SqrtPrice
}

// Result is the outcome of one simulated swap.
type Result struct {
	InAmount                    fixedmath.TokenAmount
	OutAmount                   fixedmath.TokenAmount
	FeeAmount                   fixedmath.TokenAmount
	StartingSqrtPrice           fixedmath.SqrtPrice
	EndingSqrtPrice             fixedmath.SqrtPrice
	CrossedTicks                []int32
	VirtualCrossCounter         uint16
	GlobalInsufficientLiquidity bool
	TicksAccountsOutdated       bool
}

// IsNotEnoughLiquidity classifies the result using the post-loop rule,
// pessimistically assuming a referral account will be attached so the
// effective tick budget is TickCrossesPerIx-1.
func (r *Result) IsNotEnoughLiquidity() bool {
	return r.TicksAccountsOutdated || r.isExceededBudget(true) || r.GlobalInsufficientLiquidity
}

func (r *Result) isExceededBudget(referral bool) bool {
	maxCross := TickCrossesPerIx
	if referral {
		maxCross--
	}
	crossed := len(r.CrossedTicks)
	exceededByCount := crossed > maxCross
	exceededByComputeUnits := crossed == maxCross && int(r.VirtualCrossCounter) > MaxVirtualCross
	return exceededByCount || exceededByComputeUnits
}

// Simulate runs the core tick-by-tick pricing loop described by the
// component design: it mutates only the local pool/tickmap/ticks clones
// passed in, leaving the cache untouched, and terminates once the input is
// fully consumed or one of the break conditions fires.
func Simulate(pool *Pool, tickmap *Tickmap, ticks map[solana.PublicKey]*Tick, programID, poolKey solana.PublicKey, params SimulationParams) (*Result, error) {
	pool = pool.Clone()
	tickmap = tickmap.Clone()
	localTicks := make(map[solana.PublicKey]*Tick, len(ticks))
	for k, t := range ticks {
		localTicks[k] = t.Clone()
	}

	startingSqrtPrice := pool.sqrtPrice()
	remaining := params.InAmount
	var totalIn, totalOut, totalFee fixedmath.TokenAmount
	var crossedTicks []int32
	var virtualCrossCounter uint16
	var globalInsufficientLiquidity, ticksAccountsOutdated bool

	for remaining != 0 {
		swapLimit, boundary, err := getCloserLimit(params.SqrtPriceLimit, params.XToY, pool.CurrentTickIndex, pool.TickSpacing, tickmap)
		if err != nil {
			if errors.Is(err, ErrInternalInvariant) {
				return nil, err
			}
			globalInsufficientLiquidity = true
			break
		}

		step, err := fixedmath.ComputeSwapStep(pool.sqrtPrice(), swapLimit, pool.liquidity(), remaining, params.ByAmountIn, pool.fee())
		if err != nil {
			return nil, newErr(KindInternalArithmetic, err)
		}

		consumed := step.AmountIn + step.FeeAmount
		if consumed > remaining {
			return nil, newErr(KindInternalArithmetic, errOverflowConsumed)
		}
		if totalOut+step.AmountOut < totalOut {
			return nil, newErr(KindInternalArithmetic, fixedmath.ErrOverflow)
		}
		remaining -= consumed
		pool.SqrtPriceX64 = step.NextSqrtPrice.Uint128()
		totalIn += consumed
		totalOut += step.AmountOut
		totalFee += step.FeeAmount

		if pool.sqrtPrice().Equal(params.SqrtPriceLimit) && remaining != 0 {
			globalInsufficientLiquidity = true
			break
		}

		extremum := MinTick(pool.TickSpacing)
		if !params.XToY {
			extremum = MaxTick(pool.TickSpacing)
		}
		if (params.XToY && pool.CurrentTickIndex <= extremum) || (!params.XToY && pool.CurrentTickIndex >= extremum) {
			globalInsufficientLiquidity = true
			break
		}

		if step.NextSqrtPrice.Equal(swapLimit) && boundary != nil {
			crossable, err := fixedmath.IsEnoughAmountToPushPrice(remaining, step.NextSqrtPrice, pool.liquidity(), pool.fee(), params.ByAmountIn, params.XToY)
			if err != nil {
				return nil, newErr(KindInternalArithmetic, err)
			}

			if boundary.Initialized {
				tickAddr := TickAddress(programID, poolKey, boundary.Index)
				tick, ok := localTicks[tickAddr]
				if !ok {
					ticksAccountsOutdated = true
					break
				}
				if !params.XToY || crossable {
					if err := crossTick(pool, tick, params.XToY); err != nil {
						globalInsufficientLiquidity = true
						break
					}
					crossedTicks = append(crossedTicks, tick.Index)
				} else if remaining != 0 {
					totalIn += remaining
					remaining = 0
				}
			} else {
				virtualCrossCounter++
			}

			if params.XToY && crossable {
				pool.CurrentTickIndex = boundary.Index - int32(pool.TickSpacing)
			} else {
				pool.CurrentTickIndex = boundary.Index
			}
		} else {
			// The step ran out of input before reaching either the grid
			// boundary or the overall limit: current_tick_index moves to the
			// tick at the new price, rounded down to a multiple of the tick
			// spacing so getCloserLimit's alignment check keeps holding.
			tickAtPrice, err := fixedmath.TickAtSqrtPrice(step.NextSqrtPrice)
			if err != nil {
				return nil, newErr(KindInternalArithmetic, err)
			}
			spacing := int32(pool.TickSpacing)
			aligned := tickAtPrice / spacing * spacing
			if tickAtPrice < aligned {
				aligned -= spacing
			}
			pool.CurrentTickIndex = aligned
			virtualCrossCounter++
		}

		// Real crosses alone never exceed the per-instruction budget, and the
		// combined real+virtual count never exceeds the wider compute-unit
		// allowance either.
		if uint16(len(crossedTicks)) >= TickCrossesPerIx || uint16(len(crossedTicks))+virtualCrossCounter > MaxVirtualCross+TickCrossesPerIx {
			globalInsufficientLiquidity = true
			break
		}
	}

	return &Result{
		InAmount:                    totalIn,
		OutAmount:                   totalOut,
		FeeAmount:                   totalFee,
		StartingSqrtPrice:           startingSqrtPrice,
		EndingSqrtPrice:             pool.sqrtPrice(),
		CrossedTicks:                crossedTicks,
		VirtualCrossCounter:         virtualCrossCounter,
		GlobalInsufficientLiquidity: globalInsufficientLiquidity,
		TicksAccountsOutdated:       ticksAccountsOutdated,
	}, nil
}
