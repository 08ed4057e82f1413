package invariant

import (
	"bytes"
	"fmt"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
	"github.com/solana-zh/invariant-jupiter-adapter/pkg/anchor"
)

// Tickmap is a fixed-size bit array of TickmapSize bits, covering tick
// indices MinTick through MaxTick; bit p is set iff the tick at global index (p - TickLimit) * tickSpacing currently
// carries initialized liquidity state. Bits are packed 8-per-byte,
// LSB-first within each byte.
type Tickmap struct {
	Bitmap []byte
}

// DecodeTickmap strips the Anchor discriminator and takes the remainder as
// the raw bitmap bytes; the on-chain account has no further structure.
func DecodeTickmap(data []byte) (*Tickmap, error) {
	if len(data) < AnchorDiscriminatorSize {
		return nil, newErr(KindDecodeError, fmt.Errorf("tickmap account too short: %d bytes", len(data)))
	}
	if want := anchor.GetDiscriminator("account", tickmapAccountName); !bytes.Equal(data[:AnchorDiscriminatorSize], want) {
		return nil, newErr(KindDecodeError, fmt.Errorf("tickmap account discriminator mismatch"))
	}
	body := data[AnchorDiscriminatorSize:]
	bitmap := make([]byte, len(body))
	copy(bitmap, body)
	return &Tickmap{Bitmap: bitmap}, nil
}

func (tm *Tickmap) Clone() *Tickmap {
	cp := make([]byte, len(tm.Bitmap))
	copy(cp, tm.Bitmap)
	return &Tickmap{Bitmap: cp}
}

func bitAt(bitmap []byte, p int32) bool {
	if p < 0 || int(p/8) >= len(bitmap) {
		return false
	}
	return bitmap[p/8]>>(uint(p)%8)&1 != 0
}

func tickToPosition(tick int32, tickSpacing uint16) int32 {
	return tick/int32(tickSpacing) + TickLimit
}

func positionToTick(p int32, tickSpacing uint16) int32 {
	return (p - TickLimit) * int32(tickSpacing)
}

// IsInitialized reports whether the tick at the given index currently has
// liquidity state, per the tickmap's last refresh.
func (tm *Tickmap) IsInitialized(tick int32, tickSpacing uint16) bool {
	return bitAt(tm.Bitmap, tickToPosition(tick, tickSpacing))
}

// Direction selects which way FindClosestInitializedTicks scans.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

// FindClosestInitializedTicks implements the Tickmap Navigator contract: it
// scans outward from the current tick in the given direction, collecting up
// to limit initialized tick indices. currentTick must already be a multiple
// of tickSpacing; a caller that passes a misaligned tick has a bug, and this
// panics rather than silently truncating it to the wrong grid slot. The only
// caller in this package is the cache's account-window bookkeeping, which
// always reads currentTick off a Pool that DecodePool has already validated,
// so the precondition holds by construction.
func FindClosestInitializedTicks(tm *Tickmap, currentTick int32, tickSpacing uint16, direction Direction, limit int) []int32 {
	if currentTick%int32(tickSpacing) != 0 {
		panic("invariant: FindClosestInitializedTicks called with a tick not divisible by tick spacing")
	}
	p0 := tickToPosition(currentTick, tickSpacing)
	found := make([]int32, 0, limit)

	switch direction {
	case DirectionUp:
		for p := p0 + 1; p < TickmapSize && len(found) < limit; p++ {
			if bitAt(tm.Bitmap, p) {
				found = append(found, positionToTick(p, tickSpacing))
			}
		}
	case DirectionDown:
		for p := p0; p >= 0 && len(found) < limit; p-- {
			if bitAt(tm.Bitmap, p) {
				found = append([]int32{positionToTick(p, tickSpacing)}, found...)
			}
		}
	}
	return found
}

// Boundary describes the tick the swap simulator's next step would stop at,
// as returned by getCloserLimit.
type Boundary struct {
	Index       int32
	Initialized bool
}

// getCloserLimit finds the nearer of the caller's overall sqrt-price limit
// and the next tick-spacing-aligned grid slot in the swap direction, mirroring
// get_closer_limit. The grid slot may or may not be initialized; the caller
// (the swap simulator) is responsible for distinguishing a real crossing from
// a virtual one.
//
// currentTick must be a multiple of tickSpacing on every call: this is
// checked unconditionally at the top, before any grid arithmetic runs, since
// it's called once per simulator step regardless of which branch the
// previous step took. A violation means the pool state fed into the
// simulator never passed through DecodePool's own validation, or a step
// upstream left current_tick_index unaligned; either is a programming error,
// surfaced as a distinguishable error rather than silently truncating to the
// wrong grid slot.
func getCloserLimit(
	sqrtPriceLimit fixedmath.SqrtPrice,
	xToY bool,
	currentTick int32,
	tickSpacing uint16,
	tm *Tickmap,
) (fixedmath.SqrtPrice, *Boundary, error) {
	if currentTick%int32(tickSpacing) != 0 {
		return fixedmath.SqrtPrice{}, nil, newErr(KindInternalInvariant, errInvalidTickDivisibility)
	}

	var nextTick int32
	if xToY {
		nextTick = currentTick - int32(tickSpacing)
	} else {
		nextTick = currentTick + int32(tickSpacing)
	}

	if nextTick < MinTick(tickSpacing) || nextTick > MaxTick(tickSpacing) {
		return sqrtPriceLimit, nil, nil
	}

	nextPrice, err := fixedmath.SqrtPriceAtTick(nextTick)
	if err != nil {
		return fixedmath.SqrtPrice{}, nil, newErr(KindInternalArithmetic, err)
	}

	var limit fixedmath.SqrtPrice
	pickTick := false
	if xToY {
		if nextPrice.GTE(sqrtPriceLimit) {
			limit, pickTick = nextPrice, true
		} else {
			limit = sqrtPriceLimit
		}
	} else {
		if nextPrice.LTE(sqrtPriceLimit) {
			limit, pickTick = nextPrice, true
		} else {
			limit = sqrtPriceLimit
		}
	}

	if !pickTick {
		return limit, nil, nil
	}
	return limit, &Boundary{Index: nextTick, Initialized: tm.IsInitialized(nextTick, tickSpacing)}, nil
}
