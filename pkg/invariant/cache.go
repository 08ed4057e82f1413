package invariant

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Cache holds the last-decoded pool, tickmap and tick snapshots for one pool
// instance, and knows which accounts the host must keep refreshed.
type Cache struct {
	programID solana.PublicKey
	poolKey   solana.PublicKey

	pool    *Pool
	tickmap *Tickmap
	ticks   map[solana.PublicKey]*Tick
}

// NewCache starts an empty cache for the pool account at poolKey, decoded
// under the given on-chain program.
func NewCache(programID, poolKey solana.PublicKey) *Cache {
	return &Cache{
		programID: programID,
		poolKey:   poolKey,
		ticks:     make(map[solana.PublicKey]*Tick),
	}
}

// Clone deep-copies the cache, for the host's clone_amm fan-out contract.
func (c *Cache) Clone() *Cache {
	cp := &Cache{
		programID: c.programID,
		poolKey:   c.poolKey,
		ticks:     make(map[solana.PublicKey]*Tick, len(c.ticks)),
	}
	if c.pool != nil {
		cp.pool = c.pool.Clone()
	}
	if c.tickmap != nil {
		cp.tickmap = c.tickmap.Clone()
	}
	for k, t := range c.ticks {
		cp.ticks[k] = t.Clone()
	}
	return cp
}

// ticksAddressesAround derives the tick accounts the simulator could touch
// from the current price, TickCrossesPerIx deep on each side, ascending.
func (c *Cache) ticksAddressesAround() []solana.PublicKey {
	if c.pool == nil || c.tickmap == nil {
		return nil
	}
	below := FindClosestInitializedTicks(c.tickmap, c.pool.CurrentTickIndex, c.pool.TickSpacing, DirectionDown, TickCrossesPerIx)
	above := FindClosestInitializedTicks(c.tickmap, c.pool.CurrentTickIndex, c.pool.TickSpacing, DirectionUp, TickCrossesPerIx)
	all := append(append([]int32{}, below...), above...)
	return TickAddresses(c.programID, c.poolKey, all)
}

// AccountsToUpdate returns the set the host must refresh: the pool account,
// the tickmap account (once known), and the tick accounts within the
// current crossing window (once the tickmap is known).
func (c *Cache) AccountsToUpdate() []solana.PublicKey {
	accounts := []solana.PublicKey{c.poolKey}
	if c.pool == nil {
		return accounts
	}
	accounts = append(accounts, c.pool.Tickmap)
	accounts = append(accounts, c.ticksAddressesAround()...)
	return accounts
}

// Apply decodes the pool and tickmap out of accountsMap, replaces the ticks
// map with freshly decoded entries, and swaps the whole cache atomically:
// on any decode failure the cache is left completely unchanged.
func (c *Cache) Apply(accountsMap map[solana.PublicKey][]byte) error {
	poolBytes, ok := accountsMap[c.poolKey]
	if !ok {
		return newErr(KindMissingAccount, fmt.Errorf("pool account %s not present", c.poolKey))
	}
	pool, err := DecodePool(poolBytes)
	if err != nil {
		return err
	}

	tickmapBytes, ok := accountsMap[pool.Tickmap]
	if !ok {
		return newErr(KindMissingAccount, fmt.Errorf("tickmap account %s not present", pool.Tickmap))
	}
	tickmap, err := DecodeTickmap(tickmapBytes)
	if err != nil {
		return err
	}

	ticks := make(map[solana.PublicKey]*Tick, len(accountsMap))
	for id, data := range accountsMap {
		if id == c.poolKey || id == pool.Tickmap {
			continue
		}
		tick, err := DecodeTick(data)
		if err != nil {
			return err
		}
		ticks[id] = tick
	}

	c.pool = pool
	c.tickmap = tickmap
	c.ticks = ticks
	return nil
}

// TicksAccountsOutdated reports whether the currently-addressed window of
// ticks around the price is not fully covered by the cache; the simulator
// uses the same signal mid-loop when it resolves a specific boundary tick.
func (c *Cache) TicksAccountsOutdated() bool {
	for _, addr := range c.ticksAddressesAround() {
		if _, ok := c.ticks[addr]; !ok {
			return true
		}
	}
	return false
}
