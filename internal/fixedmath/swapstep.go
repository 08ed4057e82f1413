package fixedmath

import (
	"math/big"

	cosmath "cosmossdk.io/math"
)

// SwapStepResult is the per-iteration outcome of ComputeSwapStep.
type SwapStepResult struct {
	NextSqrtPrice SqrtPrice
	AmountIn      TokenAmount
	AmountOut     TokenAmount
	FeeAmount     TokenAmount
}

func u64Shl(v cosmath.Int) cosmath.Int {
	return cosmath.NewIntFromBigInt(new(big.Int).Lsh(v.BigInt(), Scale))
}

// tokenAmountA is the standard Uniswap-V3-style delta-x formula:
// liquidity * (priceB - priceA) / (priceA * priceB), expressed in Q64.64.
func tokenAmountA(priceA, priceB, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	if priceA.GT(priceB) {
		priceA, priceB = priceB, priceA
	}
	if !priceA.IsPositive() {
		return cosmath.Int{}, ErrOverflow
	}
	numerator1 := u64Shl(liquidity)
	numerator2 := priceB.Sub(priceA)
	if roundUp {
		tmp, err := mulDivCeil(numerator1, numerator2, priceB)
		if err != nil {
			return cosmath.Int{}, err
		}
		return mulDivCeil(tmp, cosmath.OneInt(), priceA)
	}
	tmp, err := mulDivFloor(numerator1, numerator2, priceB)
	if err != nil {
		return cosmath.Int{}, err
	}
	return tmp.Quo(priceA), nil
}

// tokenAmountB is the delta-y formula: liquidity * (priceB - priceA), in Q64.64.
func tokenAmountB(priceA, priceB, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	if priceA.GT(priceB) {
		priceA, priceB = priceB, priceA
	}
	if !priceA.IsPositive() {
		return cosmath.Int{}, ErrOverflow
	}
	diff := priceB.Sub(priceA)
	one := u64Shl(cosmath.OneInt())
	if roundUp {
		return mulDivCeil(liquidity, diff, one)
	}
	return mulDivFloor(liquidity, diff, one)
}

func nextSqrtPriceFromAmountARoundingUp(price, liquidity, amount cosmath.Int, add bool) (cosmath.Int, error) {
	if amount.IsZero() {
		return price, nil
	}
	liquidityShl := u64Shl(liquidity)
	if add {
		numerator1 := liquidityShl
		denominator := liquidityShl.Add(amount.Mul(price))
		if denominator.GTE(numerator1) {
			return mulDivCeil(numerator1, price, denominator)
		}
		tmp := numerator1.Quo(price).Add(amount)
		return mulDivCeil(numerator1, cosmath.OneInt(), tmp)
	}
	product := amount.Mul(price)
	if liquidityShl.LTE(product) {
		return cosmath.Int{}, ErrOverflow
	}
	denominator := liquidityShl.Sub(product)
	return mulDivCeil(liquidityShl, price, denominator)
}

func nextSqrtPriceFromAmountBRoundingDown(price, liquidity, amount cosmath.Int, add bool) (cosmath.Int, error) {
	deltaY := u64Shl(amount)
	if add {
		return price.Add(deltaY.Quo(liquidity)), nil
	}
	amountDivLiquidity, err := mulDivCeil(deltaY, cosmath.OneInt(), liquidity)
	if err != nil {
		return cosmath.Int{}, err
	}
	if price.LTE(amountDivLiquidity) {
		return cosmath.Int{}, ErrOverflow
	}
	return price.Sub(amountDivLiquidity), nil
}

func nextSqrtPriceFromInput(price, liquidity, amount cosmath.Int, xToY bool) (cosmath.Int, error) {
	if !price.IsPositive() || !liquidity.IsPositive() {
		return cosmath.Int{}, ErrOverflow
	}
	if amount.IsZero() {
		return price, nil
	}
	if xToY {
		return nextSqrtPriceFromAmountARoundingUp(price, liquidity, amount, true)
	}
	return nextSqrtPriceFromAmountBRoundingDown(price, liquidity, amount, true)
}

func nextSqrtPriceFromOutput(price, liquidity, amount cosmath.Int, xToY bool) (cosmath.Int, error) {
	if !price.IsPositive() || !liquidity.IsPositive() {
		return cosmath.Int{}, ErrOverflow
	}
	if xToY {
		return nextSqrtPriceFromAmountBRoundingDown(price, liquidity, amount, false)
	}
	return nextSqrtPriceFromAmountARoundingUp(price, liquidity, amount, false)
}

// ComputeSwapStep advances the price by at most the amount needed to reach
// sqrtPriceTarget, consuming as much of amountRemaining as that requires, and
// reports the fee taken along the way. It mirrors the on-chain program's
// per-step pricing function exactly, including its rounding directions.
func ComputeSwapStep(
	sqrtPriceCurrent, sqrtPriceTarget SqrtPrice,
	liquidity Liquidity,
	amountRemaining TokenAmount,
	byAmountIn bool,
	fee Fee,
) (SwapStepResult, error) {
	current := sqrtPriceCurrent.v
	target := sqrtPriceTarget.v
	liq := liquidity.v
	remaining := cosmath.NewInt(int64(amountRemaining))
	feeRate := cosmath.NewInt(int64(fee))
	denom := cosmath.NewInt(FeeRateDenominator)

	var nextPrice cosmath.Int
	var amountIn, amountOut cosmath.Int

	if byAmountIn {
		rateAfterFee := denom.Sub(feeRate)
		remainingAfterFee, err := mulDivFloor(remaining, rateAfterFee, denom)
		if err != nil {
			return SwapStepResult{}, err
		}
		var err2 error
		if sqrtPriceCurrent.GT(sqrtPriceTarget) {
			amountIn, err2 = tokenAmountA(target, current, liq, true)
		} else {
			amountIn, err2 = tokenAmountB(current, target, liq, true)
		}
		if err2 != nil {
			return SwapStepResult{}, err2
		}
		if remainingAfterFee.GTE(amountIn) {
			nextPrice = target
		} else {
			nextPrice, err2 = nextSqrtPriceFromInput(current, liq, remainingAfterFee, sqrtPriceCurrent.GT(sqrtPriceTarget))
			if err2 != nil {
				return SwapStepResult{}, err2
			}
		}
	} else {
		var err2 error
		if sqrtPriceCurrent.GT(sqrtPriceTarget) {
			amountOut, err2 = tokenAmountB(target, current, liq, false)
		} else {
			amountOut, err2 = tokenAmountA(current, target, liq, false)
		}
		if err2 != nil {
			return SwapStepResult{}, err2
		}
		if remaining.GTE(amountOut) {
			nextPrice = target
		} else {
			nextPrice, err2 = nextSqrtPriceFromOutput(current, liq, remaining, sqrtPriceCurrent.GT(sqrtPriceTarget))
			if err2 != nil {
				return SwapStepResult{}, err2
			}
		}
	}

	reachedTarget := nextPrice.Equal(target)
	xToY := sqrtPriceCurrent.GT(sqrtPriceTarget)

	var err error
	if xToY {
		if !(reachedTarget && byAmountIn) {
			amountIn, err = tokenAmountA(nextPrice, current, liq, true)
			if err != nil {
				return SwapStepResult{}, err
			}
		}
		if !(reachedTarget && !byAmountIn) {
			amountOut, err = tokenAmountB(nextPrice, current, liq, false)
			if err != nil {
				return SwapStepResult{}, err
			}
		}
	} else {
		if !(reachedTarget && byAmountIn) {
			amountIn, err = tokenAmountB(current, nextPrice, liq, true)
			if err != nil {
				return SwapStepResult{}, err
			}
		}
		if !(reachedTarget && !byAmountIn) {
			amountOut, err = tokenAmountA(current, nextPrice, liq, false)
			if err != nil {
				return SwapStepResult{}, err
			}
		}
	}

	if !byAmountIn && amountOut.GT(remaining) {
		amountOut = remaining
	}

	var feeAmount cosmath.Int
	if byAmountIn && !nextPrice.Equal(target) {
		feeAmount = remaining.Sub(amountIn)
	} else {
		rateSubtracted := denom.Sub(feeRate)
		feeAmount, err = mulDivCeil(amountIn, feeRate, rateSubtracted)
		if err != nil {
			return SwapStepResult{}, err
		}
	}

	in, err := ToU64(amountIn)
	if err != nil {
		return SwapStepResult{}, err
	}
	out, err := ToU64(amountOut)
	if err != nil {
		return SwapStepResult{}, err
	}
	feeU64, err := ToU64(feeAmount)
	if err != nil {
		return SwapStepResult{}, err
	}

	return SwapStepResult{
		NextSqrtPrice: SqrtPrice{v: nextPrice},
		AmountIn:      TokenAmount(in),
		AmountOut:     TokenAmount(out),
		FeeAmount:     TokenAmount(feeU64),
	}, nil
}
