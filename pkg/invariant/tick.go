package invariant

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
	"github.com/solana-zh/invariant-jupiter-adapter/pkg/anchor"
)

// Tick is a per-initialized-tick snapshot: the minimum state cross_tick needs
// to move liquidity and fee accumulators across a boundary.
type Tick struct {
	Index            int32
	Sign             bool // true: liquidity increases when crossed left-to-right
	LiquidityChange  uint128.Uint128
	FeeGrowthOutsideX uint128.Uint128
	FeeGrowthOutsideY uint128.Uint128
}

type tickLayout struct {
	Index             int32           `bin:"le"`
	Sign              bool            `bin:"le"`
	LiquidityChange   uint128.Uint128 `bin:"le"`
	FeeGrowthOutsideX uint128.Uint128 `bin:"le"`
	FeeGrowthOutsideY uint128.Uint128 `bin:"le"`
}

// DecodeTick strips the Anchor discriminator and decodes the remainder into
// a Tick snapshot.
func DecodeTick(data []byte) (*Tick, error) {
	if len(data) < AnchorDiscriminatorSize {
		return nil, newErr(KindDecodeError, fmt.Errorf("tick account too short: %d bytes", len(data)))
	}
	if want := anchor.GetDiscriminator("account", tickAccountName); !bytes.Equal(data[:AnchorDiscriminatorSize], want) {
		return nil, newErr(KindDecodeError, fmt.Errorf("tick account discriminator mismatch"))
	}
	var layout tickLayout
	if err := bin.NewBinDecoder(data[AnchorDiscriminatorSize:]).Decode(&layout); err != nil {
		return nil, newErr(KindDecodeError, fmt.Errorf("decode tick: %w", err))
	}
	return &Tick{
		Index:             layout.Index,
		Sign:              layout.Sign,
		LiquidityChange:   layout.LiquidityChange,
		FeeGrowthOutsideX: layout.FeeGrowthOutsideX,
		FeeGrowthOutsideY: layout.FeeGrowthOutsideY,
	}, nil
}

func (t *Tick) Clone() *Tick {
	cp := *t
	return &cp
}

// crossTick mutates the local pool clone and tick clone as the boundary is
// crossed: the liquidity delta is added when moving in the tick's recorded
// sign direction and subtracted otherwise, and the tick's per-side fee
// growth outside accumulators flip relative to the pool's global growth.
//
// Per the borrow-pattern design note, both pool and tick here are always
// local clones discarded after the call; there is no aliasing to guard.
func crossTick(pool *Pool, tick *Tick, xToY bool) error {
	delta := fixedmath.LiquidityFromUint128(tick.LiquidityChange)
	adding := tick.Sign
	if xToY {
		adding = !adding
	}

	liquidity := pool.liquidity()
	var next fixedmath.Liquidity
	if adding {
		next = liquidity.Add(delta)
	} else {
		var err error
		next, err = liquidity.Sub(delta)
		if err != nil {
			return newErr(KindInternalInvariant, fmt.Errorf("cross_tick: liquidity underflow at tick %d", tick.Index))
		}
	}
	pool.LiquidityX64 = next.Uint128()

	feeX := fixedmath.FeeGrowthFromUint128(pool.FeeGrowthGlobalX)
	feeY := fixedmath.FeeGrowthFromUint128(pool.FeeGrowthGlobalY)
	tickFeeX := fixedmath.FeeGrowthFromUint128(tick.FeeGrowthOutsideX)
	tickFeeY := fixedmath.FeeGrowthFromUint128(tick.FeeGrowthOutsideY)
	tick.FeeGrowthOutsideX = feeX.Sub(tickFeeX).Uint128()
	tick.FeeGrowthOutsideY = feeY.Sub(tickFeeY).Uint128()

	return nil
}
