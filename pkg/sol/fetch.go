package sol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// maxAccountsPerRequest mirrors the limit getMultipleAccounts enforces
// cluster-side; batches larger than this are split across several calls.
const maxAccountsPerRequest = 100

// FetchAccounts resolves a batch of account addresses to their raw bytes,
// skipping any address the cluster reports as not yet created rather than
// failing the whole batch, so a caller feeding a cache's AccountsToUpdate
// list gets back exactly the accounts that exist.
func (c *Client) FetchAccounts(ctx context.Context, accounts []solana.PublicKey) (map[solana.PublicKey][]byte, error) {
	out := make(map[solana.PublicKey][]byte, len(accounts))
	for start := 0; start < len(accounts); start += maxAccountsPerRequest {
		end := start + maxAccountsPerRequest
		if end > len(accounts) {
			end = len(accounts)
		}
		chunk := accounts[start:end]

		resp, err := c.GetMultipleAccountsWithOpts(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("fetch accounts: %w", err)
		}
		for i, acc := range resp.Value {
			if acc == nil {
				continue
			}
			out[chunk[i]] = acc.Data.GetBinary()
		}
	}
	return out, nil
}
