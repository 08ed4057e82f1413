package fixedmath

import (
	"errors"
	"math/big"

	cosmath "cosmossdk.io/math"
)

var ErrTickOutOfRange = errors.New("fixedmath: tick out of range")
var ErrPriceOutOfRange = errors.New("fixedmath: sqrt price out of supported range")

var (
	maxSqrtPriceX64, _        = cosmath.NewIntFromString("79226673515401279992447579055")
	minSqrtPriceX64, _        = cosmath.NewIntFromString("4295048016")
	bitPrecision              = 14
	logB2X32, _               = cosmath.NewIntFromString("59543866431248")
	logBPErrMarginLowerX64, _ = cosmath.NewIntFromString("184467440737095516")
	logBPErrMarginUpperX64, _ = cosmath.NewIntFromString("15793534762490258745")
)

// ratio tables for SqrtPriceAtTick, one entry per set bit of the absolute
// tick index, derived from the base-1.0001 geometric tick spacing shared by
// Solana concentrated-liquidity pools.
var tickRatios = []struct {
	mask int32
	val  string
}{
	{0x1, "18445821805675395072"},
	{0x2, "18444899583751176192"},
	{0x4, "18443055278223355904"},
	{0x8, "18439367220385607680"},
	{0x10, "18431993317065453568"},
	{0x20, "18417254355718170624"},
	{0x40, "18387811781193609216"},
	{0x80, "18329067761203558400"},
	{0x100, "18212142134806163456"},
	{0x200, "17980523815641700352"},
	{0x400, "17526086738831433728"},
	{0x800, "16651378430235570176"},
	{0x1000, "15030750278694412288"},
	{0x2000, "12247334978884435968"},
	{0x4000, "8131365268886854656"},
	{0x8000, "3584323654725218816"},
	{0x10000, "696457651848324352"},
	{0x20000, "26294789957507116"},
	{0x40000, "37481735321082"},
}

var evenRatio, _ = cosmath.NewIntFromString("18446744073709551616")
var oddRatio, _ = cosmath.NewIntFromString("18445821805675395072")
var maxUint128Int = func() cosmath.Int {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	return cosmath.NewIntFromBigInt(max)
}()

func mulRightShift(val, mulBy cosmath.Int) cosmath.Int {
	pow64, _ := cosmath.NewIntFromString("18446744073709551616")
	return val.Mul(mulBy).Quo(pow64)
}

// SqrtPriceAtTick computes the Q64.64 sqrt price for a tick index using the
// same bit-by-bit geometric expansion the on-chain program uses, so that the
// simulator's boundary prices match the program's to the last unit.
func SqrtPriceAtTick(tick int32) (SqrtPrice, error) {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := evenRatio
	if absTick&0x1 != 0 {
		ratio = oddRatio
	}
	for _, r := range tickRatios[1:] {
		if absTick&r.mask != 0 {
			mulBy, _ := cosmath.NewIntFromString(r.val)
			ratio = mulRightShift(ratio, mulBy)
		}
	}

	if tick > 0 {
		ratio = maxUint128Int.Quo(ratio)
	}
	return SqrtPrice{v: ratio}, nil
}

// TickAtSqrtPrice inverts SqrtPriceAtTick, returning the tick whose price is
// the closest one not exceeding the given sqrt price.
func TickAtSqrtPrice(price SqrtPrice) (int32, error) {
	if price.v.GT(maxSqrtPriceX64) || price.v.LT(minSqrtPriceX64) {
		return 0, ErrPriceOutOfRange
	}

	msb := price.v.BigInt().BitLen() - 1
	adjustedMsb := big.NewInt(int64(msb - 64))
	log2IntegerX32 := new(big.Int).Lsh(adjustedMsb, 32)

	bit, _ := new(big.Int).SetString("8000000000000000", 16)
	precision := 0
	log2FractionX64 := big.NewInt(0)

	var r *big.Int
	if msb >= 64 {
		r = new(big.Int).Rsh(price.v.BigInt(), uint(msb-63))
	} else {
		r = new(big.Int).Lsh(price.v.BigInt(), uint(63-msb))
	}

	zero := big.NewInt(0)
	for bit.Cmp(zero) > 0 && precision < bitPrecision {
		r = new(big.Int).Mul(r, r)
		moreThanTwo := new(big.Int).Rsh(r, 127)
		r = new(big.Int).Rsh(r, uint(63+moreThanTwo.Int64()))
		log2FractionX64 = new(big.Int).Add(log2FractionX64, new(big.Int).Mul(bit, moreThanTwo))
		bit = new(big.Int).Rsh(bit, 1)
		precision++
	}

	log2FractionX32 := new(big.Int).Rsh(log2FractionX64, 32)
	log2X32 := new(big.Int).Add(log2IntegerX32, log2FractionX32)
	logbpX64 := new(big.Int).Mul(log2X32, logB2X32.BigInt())

	tickLow := new(big.Int).Rsh(new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64.BigInt()), 64)
	tickHigh := new(big.Int).Rsh(new(big.Int).Add(logbpX64, logBPErrMarginUpperX64.BigInt()), 64)

	if tickLow.Cmp(tickHigh) == 0 {
		return int32(tickLow.Int64()), nil
	}

	highPrice, err := SqrtPriceAtTick(int32(tickHigh.Int64()))
	if err != nil {
		return 0, err
	}
	if highPrice.LTE(price) {
		return int32(tickHigh.Int64()), nil
	}
	return int32(tickLow.Int64()), nil
}
