package fixedmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsEnoughAmountToPushPriceZeroRemaining(t *testing.T) {
	ok, err := IsEnoughAmountToPushPrice(0, SqrtPrice{}, Liquidity{}, 0, true, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsEnoughAmountToPushPriceByAmountOutAlwaysTrue(t *testing.T) {
	ok, err := IsEnoughAmountToPushPrice(1, SqrtPrice{}, Liquidity{}, 500_000, false, true)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIsEnoughAmountToPushPriceByAmountInDependsOnFee(t *testing.T) {
	ok, err := IsEnoughAmountToPushPrice(1, SqrtPrice{}, Liquidity{}, 0, true, true)
	require.NoError(t, err)
	require.True(t, ok)

	// A 50% fee leaves floor(1 * 0.5) = 0 after fee.
	ok, err = IsEnoughAmountToPushPrice(1, SqrtPrice{}, Liquidity{}, 500_000, true, true)
	require.NoError(t, err)
	require.False(t, ok)
}
