package main

import (
	"context"
	"flag"
	"log"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-zh/invariant-jupiter-adapter/pkg/amm"
	"github.com/solana-zh/invariant-jupiter-adapter/pkg/invariant"
	"github.com/solana-zh/invariant-jupiter-adapter/pkg/sol"
)

var (
	rpcEndpoint  = flag.String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC endpoint")
	programID    = flag.String("program", "", "Invariant program address")
	poolAddr     = flag.String("pool", "", "Invariant pool account address")
	tokenProgram = flag.String("token-program", solana.TokenProgramID.String(), "SPL token program address")
	inputMint    = flag.String("input-mint", "", "mint the quote swaps from")
	outputMint   = flag.String("output-mint", "", "mint the quote swaps to")
	amountIn     = flag.Uint64("amount", 0, "input amount, in the input mint's smallest unit")
	reqPerSecond = flag.Int("rps", 10, "RPC requests per second")
)

// refresh runs one accounts_to_update -> fetch -> apply round trip.
func refresh(ctx context.Context, client *sol.Client, adapter *invariant.Adapter) error {
	accounts := adapter.GetAccountsToUpdate()
	data, err := client.FetchAccounts(ctx, accounts)
	if err != nil {
		return err
	}
	return adapter.Update(data)
}

func main() {
	flag.Parse()
	if *programID == "" || *poolAddr == "" || *inputMint == "" || *outputMint == "" {
		log.Fatalf("usage: invariant-quote -program=<id> -pool=<address> -input-mint=<mint> -output-mint=<mint> -amount=<n>")
	}

	program := solana.MustPublicKeyFromBase58(*programID)
	pool := solana.MustPublicKeyFromBase58(*poolAddr)
	tokenProg := solana.MustPublicKeyFromBase58(*tokenProgram)
	in := solana.MustPublicKeyFromBase58(*inputMint)
	out := solana.MustPublicKeyFromBase58(*outputMint)

	ctx := context.Background()
	client := sol.NewClient(*rpcEndpoint, *reqPerSecond)

	if clock, err := client.GetClock(ctx); err != nil {
		log.Printf("could not read cluster clock: %v", err)
	} else {
		log.Printf("cluster slot %d, epoch %d", clock.Slot, clock.Epoch)
	}

	// The pool account is fetched and decoded on its own first: it names the
	// tickmap account, which Update needs alongside the pool.
	log.Printf("fetching pool account %s", pool)
	poolData, err := client.FetchAccounts(ctx, []solana.PublicKey{pool})
	if err != nil {
		log.Fatalf("fetch pool account: %v", err)
	}
	adapter, err := invariant.NewFromKeyedAccount(program, tokenProg, amm.KeyedAccount{Pubkey: pool, AccountData: poolData[pool]})
	if err != nil {
		log.Fatalf("decode pool account: %v", err)
	}

	// First pass fetches the pool and its tickmap; the tick-crossing window
	// can't be derived until the tickmap is known.
	log.Printf("fetching pool and tickmap accounts")
	if err := refresh(ctx, client, adapter); err != nil {
		log.Fatalf("first refresh pass failed: %v", err)
	}

	// Second pass now knows the tickmap and can widen to the initialized
	// ticks around the current price.
	log.Printf("fetching pool, tickmap and surrounding tick accounts")
	if err := refresh(ctx, client, adapter); err != nil {
		log.Fatalf("second refresh pass failed: %v", err)
	}

	quote, err := adapter.Quote(amm.QuoteParams{
		InAmount:   *amountIn,
		InputMint:  in,
		OutputMint: out,
	})
	if err != nil {
		log.Fatalf("quote: %v", err)
	}
	log.Printf("quote: in=%d out=%d fee=%d not_enough_liquidity=%v",
		quote.InAmount, quote.OutAmount, quote.FeeAmount, quote.NotEnoughLiquidity)

	if quote.NotEnoughLiquidity {
		log.Printf("route cannot be built on-chain within the tick-crossing budget, skipping build_swap_accounts")
		return
	}

	legAndMetas, err := adapter.GetSwapLegAndAccountMetas(amm.SwapParams{
		InAmount:                *amountIn,
		SourceMint:              in,
		DestinationMint:         out,
		SourceTokenAccount:      solana.PublicKey{},
		DestinationTokenAccount: solana.PublicKey{},
		TokenTransferAuthority:  solana.PublicKey{},
	})
	if err != nil {
		log.Fatalf("build_swap_accounts: %v", err)
	}
	log.Printf("swap leg x_to_y=%v, %d accounts", legAndMetas.XToY, len(legAndMetas.AccountMetas))
	for _, m := range legAndMetas.AccountMetas {
		log.Printf("  %s writable=%v signer=%v", m.PublicKey, m.IsWritable, m.IsSigner)
	}
}
