// Package pricedrop maintains the maximum tolerated instantaneous price
// drop per asset pair.
package pricedrop

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/wad"
)

// Guard combines the administrator-set price-drop floor with an optional
// feed-derived value. The effective drop never exceeds 100% (WAD).
type Guard struct {
	registry *registry.Registry
	logger   *logging.Logger
}

// New creates a guard over the given registry.
func New(reg *registry.Registry, logger *logging.Logger) *Guard {
	return &Guard{registry: reg, logger: logger}
}

// GetPairPriceDrop returns min(WAD, max(configuredDrop, feedDerivedDrop))
// for the pair. A missing feed contributes zero and is not an error; a
// failing feed is fail-closed like any other source failure.
func (g *Guard) GetPairPriceDrop(assetA, assetB common.Address) (*big.Int, error) {
	if assetA == (common.Address{}) || assetB == (common.Address{}) {
		return nil, fmt.Errorf("%w: zero asset", registry.ErrAssetAddressNotSupported)
	}
	if assetA == assetB {
		return nil, fmt.Errorf("%w: %s", registry.ErrIdenticalAssetAddresses, assetA.Hex())
	}

	snap := g.registry.Snapshot()
	pair := registry.NewPair(assetA, assetB)

	drop := big.NewInt(0)
	if configured, ok := snap.PairPriceDrops[pair]; ok {
		drop = new(big.Int).Set(configured)
	}

	if feed, ok := snap.PriceDropFeeds[pair]; ok {
		derived, err := feed.PriceDrop(assetA, assetB)
		if err != nil {
			return nil, fmt.Errorf("price drop feed %s/%s: %w", assetA.Hex(), assetB.Hex(), err)
		}
		if derived != nil && derived.Cmp(drop) > 0 {
			drop = new(big.Int).Set(derived)
		}
	}

	if drop.Cmp(wad.Wad) > 0 {
		drop = new(big.Int).Set(wad.Wad)
	}
	return drop, nil
}

// FeedPriceDrop returns the feed-derived drop alone. Unlike
// GetPairPriceDrop it fails when no feed is registered, so administrators
// can distinguish "no feed" from "feed reports zero".
func (g *Guard) FeedPriceDrop(assetA, assetB common.Address) (*big.Int, error) {
	snap := g.registry.Snapshot()
	feed, ok := snap.PriceDropFeeds[registry.NewPair(assetA, assetB)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoPriceDropFeedFound, assetA.Hex(), assetB.Hex())
	}
	derived, err := feed.PriceDrop(assetA, assetB)
	if err != nil {
		return nil, fmt.Errorf("price drop feed %s/%s: %w", assetA.Hex(), assetB.Hex(), err)
	}
	return derived, nil
}
