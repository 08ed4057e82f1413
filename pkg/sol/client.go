package sol

import (
	"github.com/gagliardetto/solana-go/rpc"
)

// Client is a rate-limited, read-only Solana RPC client: enough surface for
// an aggregator adapter to fetch and refresh account state, with none of the
// transaction-signing or transaction-sending surface a trading bot needs.
type Client struct {
	rpcClient   *rpc.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new Solana client with custom rate limiting.
func NewClient(endpoint string, reqLimitPerSecond int) *Client {
	return &Client{
		rpcClient:   rpc.New(endpoint),
		rateLimiter: NewRateLimiter(reqLimitPerSecond),
	}
}
