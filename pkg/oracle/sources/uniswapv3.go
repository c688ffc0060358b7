package sources

import (
	"fmt"
	"math/big"

	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
)

// resolveUniswapV3 prices a pair through a pool-derived TWAP-family feed.
// The pair must be on the trusted allow-list (checked symmetrically) and a
// feed must be registered for the payload's oracle kind; the rate itself is
// delegated to the feed, which owns directionality and the opaque data.
func resolveUniswapV3(snap *registry.Snapshot, q Query) (*big.Int, error) {
	if !snap.TrustedPair(q.AssetFrom, q.AssetTo) {
		return nil, fmt.Errorf("%w: %s / %s", ErrTokenPairIsNotTrusted, q.AssetFrom.Hex(), q.AssetTo.Hex())
	}

	kind, data, err := decodePoolPayload(q.Payload)
	if err != nil {
		return nil, err
	}
	feed, ok := snap.PoolFeeds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: pool feed kind %d", ErrNoPriceFeedFound, kind)
	}

	rate, err := feed.GetExchangeRate(q.AssetFrom, q.AssetTo, data)
	if err != nil {
		return nil, fmt.Errorf("pool feed kind %d: %w", kind, err)
	}
	if rate == nil || rate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: pool feed kind %d", ErrZeroExchangeRate, kind)
	}
	return rate, nil
}
