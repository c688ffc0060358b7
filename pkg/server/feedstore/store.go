// Package feedstore is an in-memory latest-value store backing the push
// style feed families. Third parties write values through the admin API;
// the engine reads them through the registry's feed handles and never
// writes.
package feedstore

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

type chainlinkValue struct {
	price     *big.Int
	decimals  uint8
	updatedAt time.Time
}

type supraValue struct {
	round     uint64
	decimals  uint8
	updatedAt time.Time
	price     *big.Int
}

type vaultConversion struct {
	assets *big.Int // underlying units returned for shareUnit shares
	shares *big.Int
}

// Store holds the latest written value per feed.
type Store struct {
	mu            sync.RWMutex
	chainlink     map[string]chainlinkValue
	supra         map[uint32]supraValue
	poolRates     map[registry.Pair]*big.Int
	virtualPrices map[common.Address]*big.Int
	lpRates       map[common.Address]*big.Int
	priceDrops    map[registry.Pair]*big.Int
	vaults        map[common.Address]vaultConversion
	logger        *logging.Logger
}

// New creates an empty feed store.
func New(logger *logging.Logger) *Store {
	return &Store{
		chainlink:     make(map[string]chainlinkValue),
		supra:         make(map[uint32]supraValue),
		poolRates:     make(map[registry.Pair]*big.Int),
		virtualPrices: make(map[common.Address]*big.Int),
		lpRates:       make(map[common.Address]*big.Int),
		priceDrops:    make(map[registry.Pair]*big.Int),
		vaults:        make(map[common.Address]vaultConversion),
		logger:        logger,
	}
}

// SetChainlinkValue stores the latest round of a named feed.
func (s *Store) SetChainlinkValue(feed string, price *big.Int, decimals uint8, updatedAt time.Time) {
	s.mu.Lock()
	s.chainlink[feed] = chainlinkValue{price: new(big.Int).Set(price), decimals: decimals, updatedAt: updatedAt}
	s.mu.Unlock()
	s.logger.Debug("Chainlink value stored", "feed", feed, "price", price.String())
}

// SetSupraValue stores the latest reading of a Supra feed id.
func (s *Store) SetSupraValue(feedID uint32, round uint64, price *big.Int, decimals uint8, updatedAt time.Time) {
	s.mu.Lock()
	s.supra[feedID] = supraValue{round: round, decimals: decimals, updatedAt: updatedAt, price: new(big.Int).Set(price)}
	s.mu.Unlock()
	s.logger.Debug("Supra value stored", "feed_id", feedID, "price", price.String())
}

// SetPoolRate stores a pool-derived WAD rate for a directed pair.
func (s *Store) SetPoolRate(assetFrom, assetTo common.Address, rate *big.Int) {
	s.mu.Lock()
	s.poolRates[registry.NewPair(assetFrom, assetTo)] = new(big.Int).Set(rate)
	s.mu.Unlock()
}

// SetVirtualPrice stores a stable pool's WAD virtual price for an LP token.
func (s *Store) SetVirtualPrice(lpToken common.Address, price *big.Int) {
	s.mu.Lock()
	s.virtualPrices[lpToken] = new(big.Int).Set(price)
	s.mu.Unlock()
}

// SetLPRate stores a constant-product LP token's WAD rate against USD.
func (s *Store) SetLPRate(lpToken common.Address, rate *big.Int) {
	s.mu.Lock()
	s.lpRates[lpToken] = new(big.Int).Set(rate)
	s.mu.Unlock()
}

// SetPriceDrop stores a feed-derived WAD price-drop fraction for a pair.
func (s *Store) SetPriceDrop(base, quote common.Address, drop *big.Int) {
	s.mu.Lock()
	s.priceDrops[registry.NewPair(base, quote)] = new(big.Int).Set(drop)
	s.mu.Unlock()
}

// SetVaultConversion stores the latest share-to-asset conversion of a
// vault: `assets` underlying units are returned for `shares` shares.
func (s *Store) SetVaultConversion(share common.Address, assets, shares *big.Int) {
	s.mu.Lock()
	s.vaults[share] = vaultConversion{assets: new(big.Int).Set(assets), shares: new(big.Int).Set(shares)}
	s.mu.Unlock()
}

// VaultReader returns a conversion handle for a vault share token.
func (s *Store) VaultReader(share common.Address) registry.VaultReader {
	return vaultHandle{store: s, share: share}
}

// ChainlinkFeed returns a read handle for a named feed.
func (s *Store) ChainlinkFeed(name string) registry.ChainlinkFeed {
	return chainlinkHandle{store: s, name: name}
}

// SupraStorage returns the Supra storage read handle.
func (s *Store) SupraStorage() registry.SupraFeed {
	return supraHandle{store: s}
}

// PoolFeed returns the pool-derived rate read handle.
func (s *Store) PoolFeed() registry.PoolFeed {
	return poolHandle{store: s}
}

// CurveFeed returns the virtual-price read handle.
func (s *Store) CurveFeed() registry.CurveFeed {
	return curveHandle{store: s}
}

// LPRateFeed returns the LP-rate read handle.
func (s *Store) LPRateFeed() registry.LPRateFeed {
	return lpHandle{store: s}
}

// PriceDropFeed returns the price-drop read handle.
func (s *Store) PriceDropFeed() registry.PriceDropFeed {
	return priceDropHandle{store: s}
}

type chainlinkHandle struct {
	store *Store
	name  string
}

func (h chainlinkHandle) LatestRoundData() (*big.Int, uint8, time.Time, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.chainlink[h.name]
	if !ok {
		return nil, 0, time.Time{}, fmt.Errorf("%w: chainlink %q", ErrNoValueStored, h.name)
	}
	return new(big.Int).Set(v.price), v.decimals, v.updatedAt, nil
}

type supraHandle struct {
	store *Store
}

func (h supraHandle) GetSvalue(feedID uint32) (uint64, uint8, time.Time, *big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.supra[feedID]
	if !ok {
		return 0, 0, time.Time{}, nil, fmt.Errorf("%w: supra %d", ErrNoValueStored, feedID)
	}
	return v.round, v.decimals, v.updatedAt, new(big.Int).Set(v.price), nil
}

type poolHandle struct {
	store *Store
}

// GetExchangeRate serves a stored directed rate, or the reciprocal of the
// reverse direction. The opaque payload is unused by this implementation.
func (h poolHandle) GetExchangeRate(assetFrom, assetTo common.Address, _ []byte) (*big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	if rate, ok := h.store.poolRates[registry.NewPair(assetFrom, assetTo)]; ok {
		return new(big.Int).Set(rate), nil
	}
	if rate, ok := h.store.poolRates[registry.NewPair(assetTo, assetFrom)]; ok && rate.Sign() > 0 {
		return wad.Reciprocal(rate), nil
	}
	return nil, fmt.Errorf("%w: pool %s/%s", ErrNoValueStored, assetFrom.Hex(), assetTo.Hex())
}

type curveHandle struct {
	store *Store
}

func (h curveHandle) GetVirtualPrice(lpToken common.Address) (*big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.virtualPrices[lpToken]
	if !ok {
		return nil, fmt.Errorf("%w: virtual price %s", ErrNoValueStored, lpToken.Hex())
	}
	return new(big.Int).Set(v), nil
}

type lpHandle struct {
	store *Store
}

func (h lpHandle) GetLPExchangeRate(lpToken common.Address, _ []byte) (*big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.lpRates[lpToken]
	if !ok {
		return nil, fmt.Errorf("%w: lp rate %s", ErrNoValueStored, lpToken.Hex())
	}
	return new(big.Int).Set(v), nil
}

type vaultHandle struct {
	store *Store
	share common.Address
}

func (h vaultHandle) ConvertToAssets(shares *big.Int) (*big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.vaults[h.share]
	if !ok || v.shares.Sign() == 0 {
		return nil, fmt.Errorf("%w: vault %s", ErrNoValueStored, h.share.Hex())
	}
	out := new(big.Int).Mul(shares, v.assets)
	return out.Quo(out, v.shares), nil
}

type priceDropHandle struct {
	store *Store
}

func (h priceDropHandle) PriceDrop(base, quote common.Address) (*big.Int, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	v, ok := h.store.priceDrops[registry.NewPair(base, quote)]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(v), nil
}
