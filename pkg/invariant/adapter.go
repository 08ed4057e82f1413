package invariant

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solana-zh/invariant-jupiter-adapter/pkg/amm"
)

// Label is the human-readable protocol name surfaced to the aggregator.
const Label = "Invariant"

// Adapter wires a Cache into the aggregator-facing amm.Amm contract.
type Adapter struct {
	programID    solana.PublicKey
	tokenProgram solana.PublicKey
	cache        *Cache
}

var _ amm.Amm = (*Adapter)(nil)

// NewAdapter builds an adapter for the pool at poolKey with an empty cache.
// Until the pool is decoded, GetAccountsToUpdate names only the pool account,
// and Update fails with MissingAccount unless its map also holds the pool's
// tickmap; NewFromKeyedAccount starts from an already-decoded pool instead.
func NewAdapter(programID, tokenProgram, poolKey solana.PublicKey) *Adapter {
	return &Adapter{
		programID:    programID,
		tokenProgram: tokenProgram,
		cache:        NewCache(programID, poolKey),
	}
}

func (a *Adapter) Label() string { return Label }

func (a *Adapter) Key() solana.PublicKey { return a.cache.poolKey }

// GetReserveMints returns the pool's two token mints; until the pool account
// has been decoded at least once, both entries are the zero public key.
func (a *Adapter) GetReserveMints() [2]solana.PublicKey {
	if a.cache.pool == nil {
		return [2]solana.PublicKey{}
	}
	return [2]solana.PublicKey{a.cache.pool.TokenX, a.cache.pool.TokenY}
}

// GetAccountsToUpdate names the pool account, plus its tickmap once the pool
// is decoded, plus the tick-crossing window once the tickmap is decoded. An
// adapter built by NewFromKeyedAccount converges in two Update passes.
func (a *Adapter) GetAccountsToUpdate() []solana.PublicKey {
	return a.cache.AccountsToUpdate()
}

func (a *Adapter) Update(accountsMap map[solana.PublicKey][]byte) error {
	return a.cache.Apply(accountsMap)
}

func (a *Adapter) Quote(params amm.QuoteParams) (*amm.Quote, error) {
	result, err := a.cache.Quote(params.InAmount, params.InputMint, params.OutputMint)
	if err != nil {
		return nil, err
	}
	return &amm.Quote{
		InAmount:           result.InAmount,
		OutAmount:          result.OutAmount,
		FeeAmount:          result.FeeAmount,
		NotEnoughLiquidity: result.NotEnoughLiquidity,
	}, nil
}

func (a *Adapter) GetSwapLegAndAccountMetas(params amm.SwapParams) (*amm.SwapLegAndAccountMetas, error) {
	var referralFee *solana.PublicKey
	if ref, ok := params.QuoteMintToReferrer[params.SourceMint]; ok {
		referralFee = &ref
	}

	xToY, metas, err := a.cache.BuildSwapAccounts(SwapAccountsParams{
		InAmount:      params.InAmount,
		InputMint:     params.SourceMint,
		OutputMint:    params.DestinationMint,
		Owner:         params.TokenTransferAuthority,
		SourceAccount: params.SourceTokenAccount,
		DestAccount:   params.DestinationTokenAccount,
		ReferralFee:   referralFee,
		TokenProgram:  a.tokenProgram,
	})
	if err != nil {
		return nil, err
	}

	return &amm.SwapLegAndAccountMetas{XToY: xToY, AccountMetas: metas}, nil
}

// CloneAmm deep-copies the adapter's cache so the host can fan a quote
// search out across goroutines without sharing mutable state.
func (a *Adapter) CloneAmm() amm.Amm {
	return &Adapter{
		programID:    a.programID,
		tokenProgram: a.tokenProgram,
		cache:        a.cache.Clone(),
	}
}

// NewFromKeyedAccount constructs a fresh adapter from the pool account's
// keyed bytes, decoding just enough to know the pool's identity. The cache
// still needs a GetAccountsToUpdate/Update round trip before it can quote,
// since the tickmap and tick accounts named by the pool aren't known yet.
func NewFromKeyedAccount(programID, tokenProgram solana.PublicKey, keyed amm.KeyedAccount) (*Adapter, error) {
	pool, err := DecodePool(keyed.AccountData)
	if err != nil {
		return nil, err
	}
	a := NewAdapter(programID, tokenProgram, keyed.Pubkey)
	a.cache.pool = pool
	return a, nil
}
