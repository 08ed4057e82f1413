// Package amm defines the small, synchronous interface an aggregator host
// uses to talk to a pool adapter: fetch accounts, push bytes in, pull quotes
// and swap account lists out. It mirrors the shape every adapter in this
// corpus exposes to its router, generalized to the pool-agnostic contract
// an external aggregator expects.
package amm

import (
	"github.com/gagliardetto/solana-go"
)

// KeyedAccount is a single on-chain account identified by its address,
// handed to a fresh adapter on construction.
type KeyedAccount struct {
	Pubkey      solana.PublicKey
	AccountData []byte
}

// QuoteParams requests an off-chain quote for a single-pool swap.
type QuoteParams struct {
	InAmount    uint64
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
}

// Quote is the result of a quote: never an error for liquidity reasons, only
// for mint mismatches (see Amm.Quote).
type Quote struct {
	InAmount            uint64
	OutAmount           uint64
	FeeAmount           uint64
	NotEnoughLiquidity  bool
}

// SwapParams requests the account list for an on-chain swap instruction.
type SwapParams struct {
	InAmount              uint64
	SourceMint            solana.PublicKey
	DestinationMint       solana.PublicKey
	SourceTokenAccount    solana.PublicKey
	DestinationTokenAccount solana.PublicKey
	TokenTransferAuthority solana.PublicKey
	QuoteMintToReferrer   map[solana.PublicKey]solana.PublicKey
}

// SwapLegAndAccountMetas is the account-metadata list an aggregator can
// splice directly into an on-chain swap instruction, plus a label for which
// leg of the pool's state the swap travels (x_to_y or the reverse).
type SwapLegAndAccountMetas struct {
	XToY          bool
	AccountMetas  []*solana.AccountMeta
}

// Amm is the interface an aggregator host uses to drive a pool adapter: a
// small, synchronous surface with no suspension points of its own.
type Amm interface {
	Label() string
	Key() solana.PublicKey
	GetReserveMints() [2]solana.PublicKey
	GetAccountsToUpdate() []solana.PublicKey
	Update(accountsMap map[solana.PublicKey][]byte) error
	Quote(params QuoteParams) (*Quote, error)
	GetSwapLegAndAccountMetas(params SwapParams) (*SwapLegAndAccountMetas, error)
	CloneAmm() Amm
}
