package invariant

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/solana-zh/invariant-jupiter-adapter/internal/fixedmath"
	"github.com/solana-zh/invariant-jupiter-adapter/pkg/anchor"
)

// Pool is the immutable-per-simulation snapshot of a CLAMM pool, decoded
// straight from the on-chain account's byte layout (see DecodePool).
type Pool struct {
	TokenX            solana.PublicKey
	TokenY            solana.PublicKey
	TokenXReserve     solana.PublicKey
	TokenYReserve     solana.PublicKey
	Tickmap           solana.PublicKey
	TickSpacing       uint16
	CurrentTickIndex  int32
	SqrtPriceX64      uint128.Uint128
	LiquidityX64      uint128.Uint128
	FeeGrowthGlobalX  uint128.Uint128
	FeeGrowthGlobalY  uint128.Uint128
	FeeRate           uint32
	Bump              uint8
	ProtocolFeeX      uint128.Uint128
	ProtocolFeeY      uint128.Uint128
}

// poolLayout is the wire layout decoded with gagliardetto/binary, matching
// field order byte-for-byte against the on-chain account (after the 8-byte
// Anchor discriminator has been stripped).
type poolLayout struct {
	TokenX           solana.PublicKey `bin:"fixed"`
	TokenY           solana.PublicKey `bin:"fixed"`
	TokenXReserve    solana.PublicKey `bin:"fixed"`
	TokenYReserve    solana.PublicKey `bin:"fixed"`
	Tickmap          solana.PublicKey `bin:"fixed"`
	TickSpacing      uint16           `bin:"le"`
	CurrentTickIndex int32            `bin:"le"`
	SqrtPriceX64     uint128.Uint128  `bin:"le"`
	LiquidityX64     uint128.Uint128  `bin:"le"`
	FeeGrowthGlobalX uint128.Uint128  `bin:"le"`
	FeeGrowthGlobalY uint128.Uint128  `bin:"le"`
	ProtocolFeeX     uint128.Uint128  `bin:"le"`
	ProtocolFeeY     uint128.Uint128  `bin:"le"`
	FeeRate          uint32           `bin:"le"`
	Bump             uint8            `bin:"le"`
}

// DecodePool strips the Anchor discriminator and decodes the remainder into
// a Pool snapshot.
func DecodePool(data []byte) (*Pool, error) {
	if len(data) < AnchorDiscriminatorSize {
		return nil, newErr(KindDecodeError, fmt.Errorf("pool account too short: %d bytes", len(data)))
	}
	if want := anchor.GetDiscriminator("account", poolAccountName); !bytes.Equal(data[:AnchorDiscriminatorSize], want) {
		return nil, newErr(KindDecodeError, fmt.Errorf("pool account discriminator mismatch"))
	}
	var layout poolLayout
	if err := bin.NewBinDecoder(data[AnchorDiscriminatorSize:]).Decode(&layout); err != nil {
		return nil, newErr(KindDecodeError, fmt.Errorf("decode pool: %w", err))
	}
	if layout.TickSpacing == 0 || layout.CurrentTickIndex%int32(layout.TickSpacing) != 0 {
		return nil, newErr(KindInternalInvariant, errInvalidTickDivisibility)
	}
	return &Pool{
		TokenX:           layout.TokenX,
		TokenY:           layout.TokenY,
		TokenXReserve:    layout.TokenXReserve,
		TokenYReserve:    layout.TokenYReserve,
		Tickmap:          layout.Tickmap,
		TickSpacing:      layout.TickSpacing,
		CurrentTickIndex: layout.CurrentTickIndex,
		SqrtPriceX64:     layout.SqrtPriceX64,
		LiquidityX64:     layout.LiquidityX64,
		FeeGrowthGlobalX: layout.FeeGrowthGlobalX,
		FeeGrowthGlobalY: layout.FeeGrowthGlobalY,
		FeeRate:          layout.FeeRate,
		Bump:             layout.Bump,
		ProtocolFeeX:     layout.ProtocolFeeX,
		ProtocolFeeY:     layout.ProtocolFeeY,
	}, nil
}

// Clone returns a deep copy suitable for the simulator's mutate-local-clone
// contract; Pool contains only value types and public keys, so a plain copy
// already satisfies that.
func (p *Pool) Clone() *Pool {
	cp := *p
	return &cp
}

func (p *Pool) sqrtPrice() fixedmath.SqrtPrice { return fixedmath.SqrtPriceFromUint128(p.SqrtPriceX64) }
func (p *Pool) liquidity() fixedmath.Liquidity { return fixedmath.LiquidityFromUint128(p.LiquidityX64) }
func (p *Pool) fee() fixedmath.Fee             { return fixedmath.Fee(p.FeeRate) }
