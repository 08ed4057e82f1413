package invariant

// Protocol-wide constants mirrored from the on-chain program's own layout
// and compute-budget accounting.
const (
	// TickLimit bounds the tickmap: bitmap position p = tick/tickSpacing +
	// TickLimit must stay within [0, TickmapSize).
	TickLimit = 44_364

	// TickmapSize is the number of bits in the tickmap, 2*TickLimit - 1.
	TickmapSize = 88_727

	// TickCrossesPerIx is the maximum number of tick accounts the on-chain
	// swap instruction accepts per call.
	TickCrossesPerIx = 19

	// MaxVirtualCross bounds how many uninitialized tick boundaries the
	// simulator may step over while still considering the route computable
	// within the on-chain compute-unit budget.
	MaxVirtualCross = 10

	// PriceImpactAccuracy is the fixed scale used by the price-impact ratio.
	PriceImpactAccuracy = 1_000_000_000_000

	// AnchorDiscriminatorSize is the length of the namespaced discriminator
	// prefix every Anchor account begins with.
	AnchorDiscriminatorSize = 8
)

// Seeds used by the Address Deriver for program-derived addresses.
const (
	ProgramAuthoritySeed = "Invariant"
	StateSeed            = "statev1"
	TickSeed             = "tickv1"
)

// Anchor account type names, namespaced under "account" to produce the
// 8-byte discriminator every account of that type begins with.
const (
	poolAccountName    = "Pool"
	tickAccountName    = "Tick"
	tickmapAccountName = "Tickmap"
)

// MinTick returns the smallest tick index representable in the tickmap for a
// given tick spacing (bitmap position 0).
func MinTick(tickSpacing uint16) int32 {
	return -TickLimit * int32(tickSpacing)
}

// MaxTick returns the largest tick index representable in the tickmap for a
// given tick spacing (bitmap position TickmapSize-1).
func MaxTick(tickSpacing uint16) int32 {
	return (TickLimit - 2) * int32(tickSpacing)
}
