package fixedmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSqrtPriceAtTickZero(t *testing.T) {
	price, err := SqrtPriceAtTick(0)
	require.NoError(t, err)
	require.Equal(t, evenRatio, price.v)
}

func TestSqrtPriceAtTickMonotonic(t *testing.T) {
	ticks := []int32{-100000, -1000, -1, 0, 1, 1000, 100000}
	var prev SqrtPrice
	for i, tick := range ticks {
		price, err := SqrtPriceAtTick(tick)
		require.NoError(t, err)
		if i > 0 {
			require.True(t, price.GT(prev), "price at tick %d should exceed price at tick %d", tick, ticks[i-1])
		}
		prev = price
	}
}

func TestSqrtPriceAtTickSymmetric(t *testing.T) {
	for _, tick := range []int32{1, 37, 12345} {
		pos, err := SqrtPriceAtTick(tick)
		require.NoError(t, err)
		neg, err := SqrtPriceAtTick(-tick)
		require.NoError(t, err)

		// price(tick) * price(-tick) should land extremely close to 1.0 in
		// Q64.64 (exact equality isn't guaranteed by the bit-table expansion).
		product := pos.v.Mul(neg.v)
		one := oneShl64()
		oneSquared := one.Mul(one)
		diff := product.Sub(oneSquared)
		if diff.IsNegative() {
			diff = diff.Neg()
		}
		require.True(t, diff.LT(oneSquared.QuoRaw(1_000_000)), "price(%d)*price(%d) should approximate 1", tick, -tick)
	}
}

func TestTickAtSqrtPriceRoundTrip(t *testing.T) {
	for _, tick := range []int32{-50000, -1, 0, 1, 42, 99999} {
		price, err := SqrtPriceAtTick(tick)
		require.NoError(t, err)
		got, err := TickAtSqrtPrice(price)
		require.NoError(t, err)
		require.Equal(t, tick, got)
	}
}

func TestTickAtSqrtPriceOutOfRange(t *testing.T) {
	_, err := TickAtSqrtPrice(SqrtPrice{v: minSqrtPriceX64.SubRaw(1)})
	require.ErrorIs(t, err, ErrPriceOutOfRange)
}
